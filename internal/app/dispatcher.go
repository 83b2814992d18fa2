package app

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Spok95/telegram-forecast-bot/internal/bot/handlers"
	"github.com/Spok95/telegram-forecast-bot/internal/config"
	"github.com/Spok95/telegram-forecast-bot/internal/ctxutil"
	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/metrics"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/pricefeed"
	"github.com/Spok95/telegram-forecast-bot/internal/tg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Dispatcher маршрутизирует апдейты Telegram по хендлерам.
type Dispatcher struct {
	bot     *tgbotapi.BotAPI
	db      *sql.DB
	cfg     *config.Config
	prices  pricefeed.Source
	log     *zap.Logger
	limiter *ChatLimiter
}

func NewDispatcher(bot *tgbotapi.BotAPI, database *sql.DB, cfg *config.Config, prices pricefeed.Source, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		bot:     bot,
		db:      database,
		cfg:     cfg,
		prices:  prices,
		log:     log,
		limiter: NewChatLimiter(),
	}
}

func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	metrics.BotUpdates.Inc()

	if update.CallbackQuery != nil {
		d.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		d.handleMessage(ctx, update.Message)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.From.ID
	ctx = ctxutil.WithChatID(ctx, chatID)
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "predict_"):
		ctx = ctxutil.WithOp(ctx, "predict")
		handlers.HandlePredictCallback(ctx, d.bot, d.db, cq, d.cfg.Location, d.prices)
	case strings.HasPrefix(data, "inst_"):
		if !d.isAdmin(ctx, chatID) {
			return
		}
		ctx = ctxutil.WithOp(ctx, "instruments")
		handlers.HandleInstrumentsCallback(ctx, d.bot, d.db, cq)
	case strings.HasPrefix(data, "export_"):
		if !d.isAdmin(ctx, chatID) {
			return
		}
		ctx = ctxutil.WithOp(ctx, "export")
		handlers.HandleExportCallback(ctx, d.bot, d.db, cq, d.cfg.Location)
	default:
		d.log.Debug("неизвестный callback", zap.String("data", data))
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)
	text := msg.Text

	if text == "/start" {
		handlers.HandleStart(ctx, d.bot, d.db, msg, d.cfg.AdminIDs)
		return
	}

	user, err := db.GetUserByTelegramID(ctx, d.db, chatID)
	if err != nil || user == nil {
		_, _ = tg.Send(d.bot, tgbotapi.NewMessage(chatID, "⚠️ Вы не зарегистрированы. Нажмите /start для начала."))
		return
	}
	// 🔒 Неактивным — ни одну команду
	if !user.IsActive {
		rm := tgbotapi.NewMessage(chatID, "🚫 Доступ к боту временно закрыт. Обратитесь к администратору.")
		rm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, _ = tg.Send(d.bot, rm)
		return
	}

	// Текстовые шаги активных сценариев
	if st := handlers.GetInstrumentsState(chatID); st != nil && st.AwaitingAdd {
		handlers.HandleInstrumentsText(ctx, d.bot, d.db, msg)
		return
	}

	switch text {
	case "/predict", "🎯 Сделать прогноз":
		go d.limiter.Do(chatID, func() {
			handlers.StartPredictFSM(ctx, d.bot, d.db, msg)
		})
	case "/my_score", "📊 Мой рейтинг":
		go handlers.HandleMyScore(ctx, d.bot, d.db, msg)
	case "/leaders", "🏆 Лидеры":
		go handlers.HandleLeaderboard(ctx, d.bot, d.db, msg, d.cfg.Location)
	case "/periods", "📅 Периоды":
		go handlers.HandlePeriods(d.bot, msg, d.cfg.Location)
	case "🗂 Инструменты":
		if user.Role == models.Admin {
			go d.limiter.Do(chatID, func() {
				handlers.StartInstrumentsFSM(ctx, d.bot, d.db, msg)
			})
		}
	case "/export", "📥 Экспорт отчёта":
		if user.Role == models.Admin {
			go d.limiter.Do(chatID, func() {
				handlers.StartExportFSM(d.bot, msg)
			})
		}
	default:
		_, _ = tg.Send(d.bot, tgbotapi.NewMessage(chatID, "⚠️ Неизвестная команда. Используйте меню или /start."))
	}
}

func (d *Dispatcher) isAdmin(ctx context.Context, chatID int64) bool {
	user, err := db.GetUserByTelegramID(ctx, d.db, chatID)
	return err == nil && user != nil && user.Role == models.Admin
}
