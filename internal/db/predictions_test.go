//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/db"
	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/Spok95/telegram-forecast-bot/internal/period"
	"github.com/Spok95/telegram-forecast-bot/internal/testutil/testdb"
)

func TestPredictions_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	user, err := db.UpsertPlayer(ctx, h.DB, 4242, "Игрок Тестовый")
	if err != nil {
		t.Fatal(err)
	}
	instID, err := db.AddInstrument(ctx, h.DB, "BTCUSD", "Биткоин")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().In(loc)
	p, err := period.Current(period.Short, now, loc)
	if err != nil {
		t.Fatal(err)
	}
	firstHalf := p.IsFirstHalf(now)
	pts, _ := period.Points(period.Short, firstHalf)
	pen, _ := period.Penalty(period.Short)

	pred := models.Prediction{
		UserID:       user.ID,
		InstrumentID: instID,
		Class:        period.Short.String(),
		Direction:    models.Up,
		PeriodStart:  p.Start,
		PeriodEnd:    p.End,
		PeriodLabel:  p.Label,
		FirstHalf:    firstHalf,
		Potential:    pts,
		Penalty:      pen,
		EntryPrice:   50000,
		CreatedAt:    now,
	}

	id, err := db.AddPrediction(ctx, h.DB, pred)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("ожидали ненулевой id прогноза")
	}

	// Повторный прогноз по тому же инструменту в том же периоде запрещён.
	if _, err := db.AddPrediction(ctx, h.DB, pred); !errors.Is(err, db.ErrDuplicatePrediction) {
		t.Fatalf("ожидали ErrDuplicatePrediction, получили %v", err)
	}

	// Пока период не закрыт — рассчитывать нечего.
	due, err := db.PendingDue(ctx, h.DB, now, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("до конца периода расчёту подлежит 0 прогнозов, получили %d", len(due))
	}

	// Миллисекунда после конца периода — прогноз пора рассчитать.
	due, err = db.PendingDue(ctx, h.DB, p.End.Add(time.Millisecond), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("после конца периода ожидали 1 прогноз, получили %d", len(due))
	}
	if due[0].Symbol != "BTCUSD" || due[0].Potential != pts {
		t.Fatalf("прогноз прочитался неверно: %+v", due[0])
	}

	settledAt := p.End.Add(time.Minute)
	if err := db.Settle(ctx, h.DB, id, 51000, pts, models.StatusWon, settledAt); err != nil {
		t.Fatal(err)
	}
	// Повторный расчёт того же прогноза — ошибка, баллы не задваиваются.
	if err := db.Settle(ctx, h.DB, id, 51000, pts, models.StatusWon, settledAt); err == nil {
		t.Fatal("повторный расчёт должен был завершиться ошибкой")
	}

	points, total, won, err := db.UserTotal(ctx, h.DB, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if points != pts || total != 1 || won != 1 {
		t.Fatalf("итоги игрока: points=%d total=%d won=%d, ожидали %d/1/1", points, total, won, pts)
	}

	top, err := db.Top(ctx, h.DB, p.Start, p.End.Add(time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Rank != 1 || top[0].Points != pts {
		t.Fatalf("таблица лидеров: %+v", top)
	}

	rank, players, err := db.UserRank(ctx, h.DB, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rank != 1 || players != 1 {
		t.Fatalf("место игрока: %d из %d, ожидали 1 из 1", rank, players)
	}

	// Чат для уведомления об итоге находится по внутреннему id игрока.
	chatID, err := db.TelegramIDByUserID(ctx, h.DB, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if chatID != 4242 {
		t.Fatalf("telegram id игрока: %d, ожидали 4242", chatID)
	}
}

func TestInstruments_Catalog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if err := db.SeedInstruments(ctx, h.DB); err != nil {
		t.Fatal(err)
	}
	all, err := db.ListInstruments(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("после наполнения справочник пуст")
	}
	// Повторное наполнение не плодит дубликаты.
	if err := db.SeedInstruments(ctx, h.DB); err != nil {
		t.Fatal(err)
	}
	again, _ := db.ListInstruments(ctx, h.DB)
	if len(again) != len(all) {
		t.Fatalf("повторный seed изменил справочник: было %d, стало %d", len(all), len(again))
	}

	if err := db.SetInstrumentActive(ctx, h.DB, all[0].ID, false); err != nil {
		t.Fatal(err)
	}
	active, err := db.ListActiveInstruments(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != len(all)-1 {
		t.Fatalf("после выключения ожидали %d активных, получили %d", len(all)-1, len(active))
	}
}
