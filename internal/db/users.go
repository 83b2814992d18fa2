package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

// UpsertPlayer регистрирует игрока при /start; повторный /start обновляет имя.
func UpsertPlayer(ctx context.Context, database *sql.DB, telegramID int64, name string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
INSERT INTO users (telegram_id, name, role)
VALUES ($1, $2, 'player')
ON CONFLICT (telegram_id) DO UPDATE SET name = EXCLUDED.name
RETURNING id, telegram_id, name, role, is_active`, telegramID, name)

	var u models.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.IsActive); err != nil {
		return nil, fmt.Errorf("upsert player: %w", err)
	}
	return &u, nil
}

func GetUserByTelegramID(ctx context.Context, database *sql.DB, telegramID int64) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, telegram_id, name, role, is_active
FROM users WHERE telegram_id = $1`, telegramID)

	var u models.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func SetUserRole(ctx context.Context, database *sql.DB, telegramID int64, role models.Role) error {
	_, err := database.ExecContext(ctx,
		`UPDATE users SET role = $2 WHERE telegram_id = $1`, telegramID, string(role))
	return err
}

// TelegramIDByUserID — чат игрока по внутреннему id (для уведомлений об итогах).
func TelegramIDByUserID(ctx context.Context, database *sql.DB, userID int64) (int64, error) {
	var chatID int64
	err := database.QueryRowContext(ctx,
		`SELECT telegram_id FROM users WHERE id = $1`, userID).Scan(&chatID)
	if err != nil {
		return 0, fmt.Errorf("telegram id игрока %d: %w", userID, err)
	}
	return chatID, nil
}

// ActivePlayerChatIDs — telegram id всех активных игроков (для уведомлений
// о новых периодах и итогах).
func ActivePlayerChatIDs(ctx context.Context, database *sql.DB) ([]int64, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT telegram_id FROM users WHERE is_active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
