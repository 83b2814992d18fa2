package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlePeriods показывает активный период каждого класса и сколько баллов
// принёс бы прогноз прямо сейчас. Чистый вывод движка, без БД.
func HandlePeriods(bot *tgbotapi.BotAPI, msg *tgbotapi.Message, loc *time.Location) {
	chatID := msg.Chat.ID
	now := time.Now()

	var b strings.Builder
	b.WriteString("📅 Активные периоды:\n\n")

	for _, class := range period.Classes() {
		p, err := period.Current(class, now, loc)
		if err != nil {
			metrics.HandlerErrors.Inc()
			observability.CaptureErr(err)
			continue
		}
		firstHalf := p.IsFirstHalf(now)
		pts, err := period.Points(class, firstHalf)
		if err != nil {
			metrics.HandlerErrors.Inc()
			continue
		}

		half := "вторая половина"
		if firstHalf {
			half = "первая половина"
		}
		fmt.Fprintf(&b, "📘 %s: %s\n   %s → %s\n   Сейчас %s: прогноз принесёт +%d баллов\n\n",
			class.Title(), p.Label,
			p.Start.Format("02.01.2006 15:04"), p.End.Format("02.01.2006 15:04"),
			half, pts)
	}

	_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, b.String()))
}
