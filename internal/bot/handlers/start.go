package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-forecast-bot/internal/bot/menu"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleStart регистрирует игрока (повторный /start просто обновляет имя)
// и показывает меню его роли. Админы назначаются по списку из конфига.
func HandleStart(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message, adminIDs []int64) {
	chatID := msg.Chat.ID

	name := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	if name == "" {
		name = msg.From.UserName
	}

	user, err := db.UpsertPlayer(ctx, database, chatID, name)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Не удалось зарегистрироваться. Попробуйте ещё раз."))
		return
	}

	for _, id := range adminIDs {
		if id == chatID && user.Role != models.Admin {
			if err := db.SetUserRole(ctx, database, chatID, models.Admin); err == nil {
				user.Role = models.Admin
			}
		}
	}

	out := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Добро пожаловать в игру прогнозов, %s! 📈\n"+
			"Выбирайте инструмент, период и направление — чем раньше в периоде "+
			"сделан прогноз, тем больше баллов он принесёт.", user.Name))
	out.ReplyMarkup = menu.GetRoleMenu(user.Role)
	_, _ = tg.Send(bot, out)
}
