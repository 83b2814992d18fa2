package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

// Top — таблица лидеров по рассчитанным прогнозам за интервал
// [from, to). Нулевой from — за всё время.
func Top(ctx context.Context, database *sql.DB, from, to time.Time, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := database.QueryContext(ctx, `
SELECT u.id, u.name,
       COALESCE(SUM(p.points), 0) AS points,
       COUNT(p.id) AS predictions,
       COUNT(p.id) FILTER (WHERE p.status = 'won') AS won
FROM users u
JOIN predictions p ON p.user_id = u.id
WHERE p.status <> 'pending'
  AND p.settled_at >= $1 AND p.settled_at < $2
GROUP BY u.id, u.name
ORDER BY points DESC, won DESC, u.name
LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Points, &e.Predictions, &e.Won); err != nil {
			return nil, err
		}
		rank++
		e.Rank = rank
		out = append(out, e)
	}
	return out, rows.Err()
}

// UserTotal — суммарные баллы игрока по рассчитанным прогнозам.
func UserTotal(ctx context.Context, database *sql.DB, userID int64) (points, predictions, won int, err error) {
	row := database.QueryRowContext(ctx, `
SELECT COALESCE(SUM(points), 0),
       COUNT(id),
       COUNT(id) FILTER (WHERE status = 'won')
FROM predictions
WHERE user_id = $1 AND status <> 'pending'`, userID)
	err = row.Scan(&points, &predictions, &won)
	return
}

// UserRank — место игрока среди всех с хотя бы одним рассчитанным прогнозом.
// Возвращает (0, 0, nil), если у игрока ещё нет рассчитанных прогнозов.
func UserRank(ctx context.Context, database *sql.DB, userID int64) (rank, total int, err error) {
	row := database.QueryRowContext(ctx, `
WITH totals AS (
    SELECT user_id, SUM(points) AS pts
    FROM predictions
    WHERE status <> 'pending'
    GROUP BY user_id
),
ranked AS (
    SELECT user_id, RANK() OVER (ORDER BY pts DESC) AS rnk, COUNT(*) OVER () AS total
    FROM totals
)
SELECT rnk, total FROM ranked WHERE user_id = $1`, userID)

	if err = row.Scan(&rank, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return rank, total, nil
}
