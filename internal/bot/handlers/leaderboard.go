package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const leaderboardSize = 10

// HandleLeaderboard — топ игроков текущего месяца (границы берём у движка
// периодов, чтобы таблица и скоринг всегда жили в одном календаре).
func HandleLeaderboard(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, msg *tgbotapi.Message, loc *time.Location) {
	chatID := msg.Chat.ID
	now := time.Now()

	p, err := period.Current(period.Medium, now, loc)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		return
	}

	entries, err := db.Top(ctx, database, p.Start, p.End.Add(time.Millisecond), leaderboardSize)
	if err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, "❌ Таблица лидеров недоступна."))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Лидеры — %s\n\n", p.Label)
	if len(entries) == 0 {
		b.WriteString("Пока никто не набрал баллов. Успейте первым — прогнозы первой половины периода дороже!")
	}
	for _, e := range entries {
		medal := fmt.Sprintf("%d.", e.Rank)
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s %s — %d баллов (%d/%d сбылось)\n", medal, e.Name, e.Points, e.Won, e.Predictions)
	}

	_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, b.String()))
}
