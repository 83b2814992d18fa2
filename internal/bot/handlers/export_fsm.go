package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/bot/shared/fsmutil"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/export"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const exportTop = 100

var exportStates = make(map[int64]bool)

// StartExportFSM — выбор охвата отчёта. Интервалы недели/месяца/квартала
// берём у движка периодов, чтобы отчёт совпадал с тем, что видят игроки.
func StartExportFSM(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	exportStates[chatID] = true

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, class := range period.Classes() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(class.Title(), "export_"+class.String())))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Всё время", "export_all")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "export_cancel")),
	)

	out := tgbotapi.NewMessage(chatID, "📥 За какой период собрать отчёт?")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = tg.Send(bot, out)
}

func HandleExportCallback(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, cq *tgbotapi.CallbackQuery, loc *time.Location) {
	chatID := cq.From.ID
	if !exportStates[chatID] {
		return
	}
	data := cq.Data

	if data == "export_cancel" {
		delete(exportStates, chatID)
		fsmutil.DisableMarkup(bot, chatID, cq.Message.MessageID)
		edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "🚫 Экспорт отменён.")
		_, _ = tg.Send(bot, edit)
		return
	}

	// тяжёлая операция — не даём запустить вторую в том же чате
	if !fsmutil.SetPending(chatID, "export") {
		return
	}
	defer fsmutil.ClearPending(chatID, "export")

	now := time.Now()
	var from, to time.Time
	var title string

	if data == "export_all" {
		from = time.Unix(0, 0)
		to = now.Add(time.Millisecond)
		title = "Всё время"
	} else {
		class, err := period.Parse(strings.TrimPrefix(data, "export_"))
		if err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		p, err := period.Current(class, now, loc)
		if err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			return
		}
		from, to = p.Start, p.End.Add(time.Millisecond)
		title = p.Label
	}

	delete(exportStates, chatID)
	fsmutil.DisableMarkup(bot, chatID, cq.Message.MessageID)
	_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "⏳ Собираю отчёт…"))

	if err := sendLeaderboardReport(ctx, bot, database, chatID, from, to, title); err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Экспорт не удался: %v", err)))
	}
}

func sendLeaderboardReport(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, chatID int64, from, to time.Time, title string) error {
	entries, err := db.Top(ctx, database, from, to, exportTop)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	preds, err := db.PredictionsWithUsers(ctx, database, from, to)
	if err != nil {
		return fmt.Errorf("predictions: %w", err)
	}

	wb, err := export.NewWorkbook([]export.SheetSpec{
		export.LeaderboardSheet(entries),
		export.PredictionsSheet(preds),
	})
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	path, err := wb.SaveTemp("leaderboard")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 " + export.BuildLeaderboardFilename(title)
	if _, err := tg.Send(bot, doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
