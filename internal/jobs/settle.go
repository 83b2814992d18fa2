package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/pricefeed"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const settleBatch = 200

// Settler закрывает прогнозы, у которых период уже завершился:
// сверяет направление с движением цены, начисляет баллы либо штраф
// и уведомляет игрока.
type Settler struct {
	DB     *sql.DB
	Bot    *tgbotapi.BotAPI
	Prices pricefeed.Source
	Log    *zap.Logger
}

func (s *Settler) Run(ctx context.Context) error {
	now := time.Now()
	due, err := db.PendingDue(ctx, s.DB, now, settleBatch)
	if err != nil {
		return fmt.Errorf("pending due: %w", err)
	}

	for _, p := range due {
		if err := s.settleOne(ctx, p, now); err != nil {
			s.Log.Warn("расчёт прогноза не удался",
				zap.Int64("prediction_id", p.ID), zap.Error(err))
			observability.CaptureErr(err)
			// остальные прогнозы батча не блокируем
			continue
		}
	}
	return nil
}

func (s *Settler) settleOne(ctx context.Context, p models.Prediction, now time.Time) error {
	closePrice, err := s.Prices.Quote(ctx, p.Symbol)
	if err != nil {
		return fmt.Errorf("котировка %s: %w", p.Symbol, err)
	}

	won := correct(p.Direction, p.EntryPrice, closePrice)
	points := p.Penalty
	status := models.StatusLost
	if won {
		points = p.Potential
		status = models.StatusWon
	}

	if err := db.Settle(ctx, s.DB, p.ID, closePrice, points, status, now); err != nil {
		return err
	}
	metrics.PredictionsSettled.WithLabelValues(status).Inc()

	s.notify(ctx, p, closePrice, points, won)
	return nil
}

// correct — подтвердилось ли направление прогноза движением цены.
// Нулевое движение — прогноз не подтверждён: "вверх" требует роста,
// "вниз" — падения.
func correct(dir models.Direction, entry, close float64) bool {
	switch dir {
	case models.Up:
		return close > entry
	case models.Down:
		return close < entry
	default:
		return false
	}
}

func (s *Settler) notify(ctx context.Context, p models.Prediction, closePrice float64, points int, won bool) {
	chatID, err := db.TelegramIDByUserID(ctx, s.DB, p.UserID)
	if err != nil {
		s.Log.Warn("не нашли игрока для уведомления", zap.Int64("user_id", p.UserID), zap.Error(err))
		return
	}

	arrow := "📈"
	if p.Direction == models.Down {
		arrow = "📉"
	}
	verdict := fmt.Sprintf("❌ не сбылся, %d баллов", points)
	if won {
		verdict = fmt.Sprintf("✅ сбылся, +%d баллов", points)
	}
	text := fmt.Sprintf("%s %s, %s\nПрогноз %s: вход %.4f → закрытие %.4f.\nИтог: %s",
		arrow, p.Symbol, p.PeriodLabel, p.Direction, p.EntryPrice, closePrice, verdict)

	if _, err := tg.Send(s.Bot, tgbotapi.NewMessage(chatID, text)); err != nil {
		s.Log.Warn("уведомление об итоге не доставлено", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
