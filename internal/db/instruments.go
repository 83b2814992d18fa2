package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

func ListActiveInstruments(ctx context.Context, database *sql.DB) ([]models.Instrument, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, symbol, name, is_active FROM instruments
WHERE is_active ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Instrument
	for rows.Next() {
		var in models.Instrument
		if err := rows.Scan(&in.ID, &in.Symbol, &in.Name, &in.IsActive); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// ListInstruments — весь справочник, включая выключенные (для админки).
func ListInstruments(ctx context.Context, database *sql.DB) ([]models.Instrument, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, symbol, name, is_active FROM instruments ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Instrument
	for rows.Next() {
		var in models.Instrument
		if err := rows.Scan(&in.ID, &in.Symbol, &in.Name, &in.IsActive); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func GetInstrumentByID(ctx context.Context, database *sql.DB, id int64) (*models.Instrument, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, symbol, name, is_active FROM instruments WHERE id = $1`, id)

	var in models.Instrument
	if err := row.Scan(&in.ID, &in.Symbol, &in.Name, &in.IsActive); err != nil {
		return nil, err
	}
	return &in, nil
}

func AddInstrument(ctx context.Context, database *sql.DB, symbol, name string) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx, `
INSERT INTO instruments (symbol, name) VALUES ($1, $2)
ON CONFLICT (symbol) DO UPDATE SET name = EXCLUDED.name, is_active = TRUE
RETURNING id`, symbol, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert instrument %s: %w", symbol, err)
	}
	return id, nil
}

func SetInstrumentActive(ctx context.Context, database *sql.DB, id int64, active bool) error {
	_, err := database.ExecContext(ctx,
		`UPDATE instruments SET is_active = $2 WHERE id = $1`, id, active)
	return err
}
