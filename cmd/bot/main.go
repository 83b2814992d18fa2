package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Spok95/telegram-forecast-bot/internal/app"
	"github.com/Spok95/telegram-forecast-bot/internal/config"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/jobs"
	"github.com/Spok95/telegram-forecast-bot/internal/logging"
	"github.com/Spok95/telegram-forecast-bot/internal/observability"
	"github.com/Spok95/telegram-forecast-bot/internal/pricefeed"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	release := "telegram-forecast-bot@" + getenv("RELEASE", "dev")
	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализировался", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Init(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("подключение к БД не удалось", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("миграция не удалась", "err", err)
	}
	if err := db.SeedInstruments(ctx, database); err != nil {
		lg.Sugar.Fatalw("наполнение справочника не удалось", "err", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Sugar.Fatalw("запуск бота не удался", "err", err)
	}
	lg.Sugar.Infow("бот запущен", "username", bot.Self.UserName, "tz", cfg.Location.String())

	app.StartHTTP(ctx, cfg.HTTPAddr, database)

	prices := pricefeed.NewClient(cfg.PricefeedURL)

	settler := &jobs.Settler{DB: database, Bot: bot, Prices: prices, Log: lg.Named("settle")}
	runner := jobs.New(ctx)
	runner.Every(cfg.SettleInterval, "settle", settler.Run)

	app.StartPeriodNotifier(ctx, bot, database, cfg.Location, lg.Named("periods"))

	dispatcher := app.NewDispatcher(bot, database, cfg, prices, lg.Named("dispatcher"))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			lg.Sugar.Info("остановка по сигналу")
			return
		case update := <-updates:
			dispatcher.HandleUpdate(ctx, update)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
