package menu

import (
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GetRoleMenu возвращает клавиатуру в зависимости от роли пользователя
func GetRoleMenu(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.Admin:
		return adminMenu()
	default:
		return playerMenu()
	}
}

func playerMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🎯 Сделать прогноз"),
			tgbotapi.NewKeyboardButton("📊 Мой рейтинг"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏆 Лидеры"),
			tgbotapi.NewKeyboardButton("📅 Периоды"),
		),
	)
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🎯 Сделать прогноз"),
			tgbotapi.NewKeyboardButton("📊 Мой рейтинг"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏆 Лидеры"),
			tgbotapi.NewKeyboardButton("📅 Периоды"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🗂 Инструменты"),
			tgbotapi.NewKeyboardButton("📥 Экспорт отчёта"),
		),
	)
}
