package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/telegram-forecast-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Админский справочник инструментов: вкл/выкл кликом, добавление текстом.
type InstrumentsFSMState struct {
	AwaitingAdd bool
}

var instStates = make(map[int64]*InstrumentsFSMState)

func GetInstrumentsState(chatID int64) *InstrumentsFSMState {
	return instStates[chatID]
}

func instrumentRows(instruments []models.Instrument) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, in := range instruments {
		mark := "❌"
		if in.IsActive {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s — %s", mark, in.Symbol, in.Name),
				fmt.Sprintf("inst_toggle_%d", in.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Добавить", "inst_add"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Закрыть", "inst_close"),
	))
	return rows
}

func StartInstrumentsFSM(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	delete(instStates, chatID)

	instruments, err := db.ListInstruments(ctx, database)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Справочник недоступен."))
		return
	}
	instStates[chatID] = &InstrumentsFSMState{}

	out := tgbotapi.NewMessage(chatID, "🗂 Инструменты (клик — вкл/выкл):")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(instrumentRows(instruments)...)
	_, _ = tg.Send(bot, out)
}

func HandleInstrumentsCallback(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, cq *tgbotapi.CallbackQuery) {
	chatID := cq.From.ID
	state, ok := instStates[chatID]
	if !ok {
		return
	}
	data := cq.Data

	switch {
	case data == "inst_close":
		delete(instStates, chatID)
		fsmutil.DisableMarkup(bot, chatID, cq.Message.MessageID)
		edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "Справочник закрыт.")
		_, _ = tg.Send(bot, edit)

	case data == "inst_add":
		state.AwaitingAdd = true
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID,
			"Пришлите инструмент в формате: SYMBOL Название\nНапример: BTCUSD Биткоин"))

	case strings.HasPrefix(data, "inst_toggle_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "inst_toggle_"), 10, 64)
		if err != nil {
			return
		}
		in, err := db.GetInstrumentByID(ctx, database, id)
		if err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		if err := db.SetInstrumentActive(ctx, database, id, !in.IsActive); err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		refreshInstrumentsMenu(ctx, bot, database, chatID, cq.Message.MessageID)
	}
}

func HandleInstrumentsText(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	state, ok := instStates[chatID]
	if !ok || !state.AwaitingAdd {
		return
	}

	if fsmutil.IsCancelText(msg.Text) {
		state.AwaitingAdd = false
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "🚫 Добавление отменено."))
		return
	}

	parts := strings.SplitN(strings.TrimSpace(msg.Text), " ", 2)
	if len(parts) < 2 {
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "⚠️ Нужен формат: SYMBOL Название"))
		return
	}
	symbol := strings.ToUpper(parts[0])
	name := strings.TrimSpace(parts[1])

	if _, err := db.AddInstrument(ctx, database, symbol, name); err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Не удалось добавить инструмент."))
		return
	}
	state.AwaitingAdd = false
	_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Добавлен %s — %s.", symbol, name)))
}

func refreshInstrumentsMenu(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, chatID int64, messageID int) {
	instruments, err := db.ListInstruments(ctx, database)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, "🗂 Инструменты (клик — вкл/выкл):")
	mk := tgbotapi.NewInlineKeyboardMarkup(instrumentRows(instruments)...)
	edit.ReplyMarkup = &mk
	_, _ = tg.Send(bot, edit)
}
