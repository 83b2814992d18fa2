package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedInstruments наполняет справочник инструментов стартовым набором,
// если таблица пустая. Дальше справочником управляет администратор.
func SeedInstruments(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM instruments`).Scan(&count); err != nil {
		return fmt.Errorf("проверка таблицы instruments: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct{ symbol, name string }{
		{"BTCUSD", "Биткоин"},
		{"ETHUSD", "Эфириум"},
		{"XAUUSD", "Золото"},
		{"SPX", "S&P 500"},
		{"EURUSD", "Евро/Доллар"},
	}
	for _, d := range defaults {
		if _, err := database.ExecContext(ctx, `
INSERT INTO instruments (symbol, name) VALUES ($1, $2)
ON CONFLICT (symbol) DO NOTHING`, d.symbol, d.name); err != nil {
			return fmt.Errorf("insert instrument %s: %w", d.symbol, err)
		}
	}
	return nil
}
