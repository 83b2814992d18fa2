package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// StartPeriodNotifier раз в час сверяет подписи активных периодов и при
// смене любого из них рассылает игрокам приглашение: в первой половине
// нового периода прогноз стоит дороже всего.
func StartPeriodNotifier(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, loc *time.Location, log *zap.Logger) {
	// В рамках жизни процесса — чтобы не слать дубликаты при многократных тиках
	lastLabels := make(map[period.Class]string)

	now := time.Now()
	for _, class := range period.Classes() {
		if p, err := period.Current(class, now, loc); err == nil {
			lastLabels[class] = p.Label
		}
	}

	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				notifyChanged(ctx, bot, database, loc, log, lastLabels)
			}
		}
	}()
}

func notifyChanged(ctx context.Context, bot *tgbotapi.BotAPI, database *sql.DB, loc *time.Location, log *zap.Logger, lastLabels map[period.Class]string) {
	now := time.Now()

	var opened []period.Period
	for _, class := range period.Classes() {
		p, err := period.Current(class, now, loc)
		if err != nil {
			log.Error("период не вычислился", zap.String("class", class.String()), zap.Error(err))
			continue
		}
		if lastLabels[p.Class] != p.Label {
			lastLabels[p.Class] = p.Label
			opened = append(opened, p)
		}
	}
	if len(opened) == 0 {
		return
	}

	ids, err := db.ActivePlayerChatIDs(ctx, database)
	if err != nil {
		log.Error("не получили список игроков", zap.Error(err))
		return
	}

	for _, p := range opened {
		pts, err := period.Points(p.Class, true)
		if err != nil {
			continue
		}
		text := fmt.Sprintf("🔔 Открыт новый период: %s.\n"+
			"Прогноз в первой половине принесёт +%d баллов — не откладывайте!",
			p.Label, pts)
		for _, chatID := range ids {
			_, _ = tg.Send(bot, tgbotapi.NewMessage(chatID, text))
		}
	}
}
