package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken       string
	DatabaseURL    string
	AdminIDs       []int64
	Location       *time.Location // гражданская зона всех календарных границ
	HTTPAddr       string
	LogLevel       string
	Env            string // dev|prod
	SentryDSN      string
	PricefeedURL   string
	SettleInterval time.Duration
}

func Load() (*Config, error) {
	// Продукт живёт в центральноевропейском времени: одни и те же границы
	// недель/месяцев/кварталов для всех игроков.
	tz := getenv("TZ", "Europe/Berlin")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TZ %q: %w", tz, err)
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	settle, err := time.ParseDuration(getenv("SETTLE_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("SETTLE_INTERVAL: %w", err)
	}

	cfg := &Config{
		BotToken:       mustEnv("BOT_TOKEN"),
		DatabaseURL:    mustEnv("DATABASE_URL"),
		AdminIDs:       adminIDs,
		Location:       loc,
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		PricefeedURL:   getenv("PRICEFEED_URL", "http://pricefeed:8090"),
		SettleInterval: settle,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
