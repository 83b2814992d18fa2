package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleMyScore — рейтинг игрока: сумма баллов, место и последние прогнозы.
func HandleMyScore(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := db.GetUserByTelegramID(ctx, database, chatID)
	if err != nil || user == nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Сначала нажмите /start."))
		return
	}

	points, total, won, err := db.UserTotal(ctx, database, user.ID)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Ошибка при подсчёте баллов."))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Ваш рейтинг: %d баллов\n", points)
	if total > 0 {
		fmt.Fprintf(&b, "Рассчитано прогнозов: %d, сбылось: %d\n", total, won)
	}

	if rank, players, err := db.UserRank(ctx, database, user.ID); err == nil && rank > 0 {
		fmt.Fprintf(&b, "Место: %d из %d\n", rank, players)
	}

	preds, err := db.UserPredictions(ctx, database, user.ID, 5)
	if err == nil && len(preds) > 0 {
		b.WriteString("\nПоследние прогнозы:\n")
		for _, p := range preds {
			arrow := "📈"
			if p.Direction == "down" {
				arrow = "📉"
			}
			line := fmt.Sprintf("%s %s, %s — ", arrow, p.Symbol, p.PeriodLabel)
			switch {
			case p.Points == nil:
				line += fmt.Sprintf("ждёт расчёта (+%d/%d)", p.Potential, p.Penalty)
			case *p.Points > 0:
				line += fmt.Sprintf("✅ +%d", *p.Points)
			default:
				line += fmt.Sprintf("❌ %d", *p.Points)
			}
			b.WriteString(line + "\n")
		}
	}

	_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, b.String()))
}
