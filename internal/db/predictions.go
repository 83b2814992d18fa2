package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

// ErrDuplicatePrediction — игрок уже дал прогноз по этому инструменту
// и классу в текущем периоде.
var ErrDuplicatePrediction = errors.New("прогноз в этом периоде уже есть")

// AddPrediction сохраняет принятый прогноз. Потенциальные баллы и штраф
// уже вычислены движком периодов и фиксируются как есть.
func AddPrediction(ctx context.Context, database *sql.DB, p models.Prediction) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO predictions (
    user_id, instrument_id, class, direction,
    period_start, period_end, period_label, first_half,
    potential, penalty, entry_price, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', $12)
RETURNING id`,
		p.UserID, p.InstrumentID, p.Class, string(p.Direction),
		p.PeriodStart, p.PeriodEnd, p.PeriodLabel, p.FirstHalf,
		p.Potential, p.Penalty, p.EntryPrice, p.CreatedAt,
	).Scan(&id)
	if err != nil {
		// 23505 — unique_violation
		if strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key") {
			return 0, ErrDuplicatePrediction
		}
		return 0, fmt.Errorf("insert prediction: %w", err)
	}
	return id, nil
}

// PendingDue — прогнозы, чей период уже закрылся и которые пора рассчитать.
func PendingDue(ctx context.Context, database *sql.DB, now time.Time, limit int) ([]models.Prediction, error) {
	rows, err := database.QueryContext(ctx, `
SELECT p.id, p.user_id, p.instrument_id, i.symbol, p.class, p.direction,
       p.period_start, p.period_end, p.period_label, p.first_half,
       p.potential, p.penalty, p.entry_price, p.status, p.created_at
FROM predictions p
JOIN instruments i ON i.id = p.instrument_id
WHERE p.status = 'pending' AND p.period_end < $1
ORDER BY p.period_end
LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.InstrumentID, &p.Symbol, &p.Class, &p.Direction,
			&p.PeriodStart, &p.PeriodEnd, &p.PeriodLabel, &p.FirstHalf,
			&p.Potential, &p.Penalty, &p.EntryPrice, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Settle закрывает прогноз: начисленные баллы, цена закрытия, статус.
// Обновляем только pending-строку, чтобы параллельный расчёт не начислил дважды.
func Settle(ctx context.Context, database *sql.DB, id int64, closePrice float64, points int, status string, settledAt time.Time) error {
	res, err := database.ExecContext(ctx, `
UPDATE predictions
SET close_price = $2, points = $3, status = $4, settled_at = $5
WHERE id = $1 AND status = 'pending'`,
		id, closePrice, points, status, settledAt)
	if err != nil {
		return fmt.Errorf("settle prediction %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("settle prediction %d: уже рассчитан", id)
	}
	return nil
}

// UserPredictions — последние прогнозы игрока, свежие сверху.
func UserPredictions(ctx context.Context, database *sql.DB, userID int64, limit int) ([]models.Prediction, error) {
	rows, err := database.QueryContext(ctx, `
SELECT p.id, p.user_id, p.instrument_id, i.symbol, p.class, p.direction,
       p.period_start, p.period_end, p.period_label, p.first_half,
       p.potential, p.penalty, p.entry_price, p.close_price, p.points,
       p.status, p.created_at, p.settled_at
FROM predictions p
JOIN instruments i ON i.id = p.instrument_id
WHERE p.user_id = $1
ORDER BY p.created_at DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.InstrumentID, &p.Symbol, &p.Class, &p.Direction,
			&p.PeriodStart, &p.PeriodEnd, &p.PeriodLabel, &p.FirstHalf,
			&p.Potential, &p.Penalty, &p.EntryPrice, &p.ClosePrice, &p.Points,
			&p.Status, &p.CreatedAt, &p.SettledAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PredictionsWithUsers — все прогнозы за интервал для экспорта отчёта.
func PredictionsWithUsers(ctx context.Context, database *sql.DB, from, to time.Time) ([]models.PredictionWithUser, error) {
	rows, err := database.QueryContext(ctx, `
SELECT p.id, p.user_id, u.name AS player_name, p.instrument_id, i.symbol,
       p.class, p.direction, p.period_start, p.period_end, p.period_label,
       p.first_half, p.potential, p.penalty, p.entry_price, p.close_price,
       p.points, p.status, p.created_at, p.settled_at
FROM predictions p
JOIN users u ON u.id = p.user_id
JOIN instruments i ON i.id = p.instrument_id
WHERE p.created_at >= $1 AND p.created_at < $2
ORDER BY p.created_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PredictionWithUser
	for rows.Next() {
		var p models.PredictionWithUser
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.PlayerName, &p.InstrumentID, &p.Symbol,
			&p.Class, &p.Direction, &p.PeriodStart, &p.PeriodEnd, &p.PeriodLabel,
			&p.FirstHalf, &p.Potential, &p.Penalty, &p.EntryPrice, &p.ClosePrice,
			&p.Points, &p.Status, &p.CreatedAt, &p.SettledAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
