package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/pricefeed"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Шаги сценария прогноза: инструмент → класс периода → направление → подтверждение.
type PredictFSMState struct {
	Step         int
	InstrumentID int64
	Symbol       string
	Class        period.Class
	Direction    models.Direction
	EntryPrice   float64
}

var predictStates = make(map[int64]*PredictFSMState)

// ==== keyboards ====

func predictBackCancelRow() []tgbotapi.InlineKeyboardButton {
	return fsmutil.BackCancelRow("predict_back", "predict_cancel")
}

func predictInstrumentRows(instruments []models.Instrument) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, in := range instruments {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %s", in.Symbol, in.Name),
				fmt.Sprintf("predict_inst_%d", in.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "predict_cancel")))
	return rows
}

func predictClassRows() [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, class := range period.Classes() {
		r, err := period.RuleFor(class)
		if err != nil {
			continue
		}
		label := fmt.Sprintf("%s (+%d / +%d)", class.Title(), r.FirstHalf, r.SecondHalf)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "predict_class_"+class.String())))
	}
	rows = append(rows, predictBackCancelRow())
	return rows
}

func predictDirectionRows() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Вверх", "predict_dir_up"),
			tgbotapi.NewInlineKeyboardButtonData("📉 Вниз", "predict_dir_down"),
		),
		predictBackCancelRow(),
	}
}

func predictEditMenu(bot *tgbotapi.BotAPI, chatID int64, messageID int, text string, rows [][]tgbotapi.InlineKeyboardButton) {
	cfg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	mk := tgbotapi.NewInlineKeyboardMarkup(rows...)
	cfg.ReplyMarkup = &mk
	_, _ = tg.Send(bot, cfg)
}

// ==== start ====

func StartPredictFSM(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	delete(predictStates, chatID)

	instruments, err := db.ListActiveInstruments(ctx, database)
	if err != nil || len(instruments) == 0 {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Список инструментов недоступен."))
		return
	}

	predictStates[chatID] = &PredictFSMState{Step: 1}

	out := tgbotapi.NewMessage(chatID, "Выберите инструмент:")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(predictInstrumentRows(instruments)...)
	_, _ = tg.Send(bot, out)
}

// ==== callbacks ====

func HandlePredictCallback(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, cq *tgbotapi.CallbackQuery, loc *time.Location, prices pricefeed.Source) {
	chatID := cq.From.ID
	state, ok := predictStates[chatID]
	if !ok {
		return
	}
	data := cq.Data

	if data == "predict_cancel" {
		delete(predictStates, chatID)
		fsmutil.DisableMarkup(bot, chatID, cq.Message.MessageID)
		edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "🚫 Прогноз отменён.")
		_, _ = tg.Send(bot, edit)
		return
	}

	if data == "predict_back" {
		switch state.Step {
		case 2: // выбирали класс → вернёмся к инструменту
			state.Step = 1
			instruments, err := db.ListActiveInstruments(ctx, database)
			if err != nil {
				metrics.HandlerErrors.Inc()
				return
			}
			predictEditMenu(bot, chatID, cq.Message.MessageID, "Выберите инструмент:", predictInstrumentRows(instruments))
		case 3: // выбирали направление → назад к классу
			state.Step = 2
			predictEditMenu(bot, chatID, cq.Message.MessageID, "Выберите период прогноза:", predictClassRows())
		case 4: // подтверждение → назад к направлению
			state.Step = 3
			predictEditMenu(bot, chatID, cq.Message.MessageID, "Куда пойдёт цена?", predictDirectionRows())
		}
		return
	}

	switch {
	case strings.HasPrefix(data, "predict_inst_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "predict_inst_"), 10, 64)
		if err != nil {
			return
		}
		in, err := db.GetInstrumentByID(ctx, database, id)
		if err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		state.InstrumentID = in.ID
		state.Symbol = in.Symbol
		state.Step = 2
		predictEditMenu(bot, chatID, cq.Message.MessageID, "Выберите период прогноза:", predictClassRows())

	case strings.HasPrefix(data, "predict_class_"):
		class, err := period.Parse(strings.TrimPrefix(data, "predict_class_"))
		if err != nil {
			// классы в callback-данных генерируем сами; чужое значение — дефект
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		state.Class = class
		state.Step = 3
		predictEditMenu(bot, chatID, cq.Message.MessageID, "Куда пойдёт цена?", predictDirectionRows())

	case strings.HasPrefix(data, "predict_dir_"):
		switch strings.TrimPrefix(data, "predict_dir_") {
		case "up":
			state.Direction = models.Up
		case "down":
			state.Direction = models.Down
		default:
			return
		}
		showPredictConfirm(ctx, bot, cq, state, loc, prices)

	case data == "predict_ok":
		submitPrediction(ctx, bot, database, cq, state, loc)
	}
}

// showPredictConfirm считает период и баллы на текущий момент и показывает
// сводку перед подтверждением.
func showPredictConfirm(ctx context.Context, bot *tgbotapi.BotAPI, cq *tgbotapi.CallbackQuery, state *PredictFSMState, loc *time.Location, prices pricefeed.Source) {
	chatID := cq.From.ID
	now := time.Now()

	p, err := period.Current(state.Class, now, loc)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		return
	}
	firstHalf := p.IsFirstHalf(now)
	pts, err := period.Points(state.Class, firstHalf)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}
	pen, err := period.Penalty(state.Class)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}

	entry, err := prices.Quote(ctx, state.Symbol)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		predictEditMenu(bot, chatID, cq.Message.MessageID,
			"❌ Котировка недоступна, попробуйте позже.", predictDirectionRows())
		return
	}
	state.EntryPrice = entry
	state.Step = 4

	half := "вторая половина"
	if firstHalf {
		half = "первая половина"
	}
	arrow := "📈 вверх"
	if state.Direction == models.Down {
		arrow = "📉 вниз"
	}
	text := fmt.Sprintf(
		"Проверьте прогноз:\n\n%s, %s\nПериод: %s (%s)\nЦена входа: %.4f\n\n"+
			"Если сбудется: +%d баллов. Если нет: %d.",
		state.Symbol, arrow, p.Label, half, entry, pts, pen)

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "predict_ok")),
		predictBackCancelRow(),
	}
	predictEditMenu(bot, chatID, cq.Message.MessageID, text, rows)
}

func submitPrediction(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, cq *tgbotapi.CallbackQuery, state *PredictFSMState, loc *time.Location) {
	chatID := cq.From.ID
	// Момент подачи читаем один раз и дальше только передаём.
	now := time.Now()

	user, err := db.GetUserByTelegramID(ctx, database, chatID)
	if err != nil || user == nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		return
	}

	// Между подтверждением и кликом период мог закрыться — пересчитываем.
	p, err := period.Current(state.Class, now, loc)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		return
	}
	firstHalf := p.IsFirstHalf(now)
	pts, err := period.Points(state.Class, firstHalf)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}
	pen, err := period.Penalty(state.Class)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}

	_, err = db.AddPrediction(ctx, database, models.Prediction{
		UserID:       user.ID,
		InstrumentID: state.InstrumentID,
		Class:        state.Class.String(),
		Direction:    state.Direction,
		PeriodStart:  p.Start,
		PeriodEnd:    p.End,
		PeriodLabel:  p.Label,
		FirstHalf:    firstHalf,
		Potential:    pts,
		Penalty:      pen,
		EntryPrice:   state.EntryPrice,
		CreatedAt:    now,
	})

	delete(predictStates, chatID)
	fsmutil.DisableMarkup(bot, chatID, cq.Message.MessageID)

	if err != nil {
		if errors.Is(err, db.ErrDuplicatePrediction) {
			edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID,
				fmt.Sprintf("⚠️ По %s в периоде «%s» прогноз уже есть.", state.Symbol, p.Label))
			_, _ = tg.Send(bot, edit)
			return
		}
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "❌ Не удалось сохранить прогноз.")
		_, _ = tg.Send(bot, edit)
		return
	}

	metrics.PredictionsSubmitted.WithLabelValues(state.Class.String()).Inc()

	edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID,
		fmt.Sprintf("✅ Прогноз принят!\n%s, период «%s».\nВерный прогноз принесёт +%d баллов.",
			state.Symbol, p.Label, pts))
	_, _ = tg.Send(bot, edit)
}
