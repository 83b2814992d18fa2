package export

import (
	"testing"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

func TestNewWorkbook_Leaderboard(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{Rank: 1, UserID: 1, Name: "Анна", Points: 72, Predictions: 4, Won: 3},
		{Rank: 2, UserID: 2, Name: "Борис", Points: 12, Predictions: 2, Won: 1},
	}
	closePrice := 51000.0
	points := 12
	preds := []models.PredictionWithUser{
		{
			Prediction: models.Prediction{
				Symbol:      "BTCUSD",
				Class:       "short",
				Direction:   models.Up,
				PeriodLabel: "Неделя 10.06.2024–16.06.2024",
				FirstHalf:   true,
				Potential:   12,
				Penalty:     -6,
				EntryPrice:  50000,
				ClosePrice:  &closePrice,
				Points:      &points,
				Status:      models.StatusWon,
				CreatedAt:   time.Date(2024, 6, 11, 9, 30, 0, 0, time.UTC),
			},
			PlayerName: "Анна",
		},
	}

	wb, err := NewWorkbook([]SheetSpec{
		LeaderboardSheet(entries),
		PredictionsSheet(preds),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, sheet := range []string{"Лидеры", "Прогнозы"} {
		if idx, err := wb.File.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("лист %q не найден (idx=%d, err=%v)", sheet, idx, err)
		}
	}

	if v, _ := wb.File.GetCellValue("Лидеры", "B2"); v != "Анна" {
		t.Errorf("Лидеры!B2 = %q, ожидали Анна", v)
	}
	if v, _ := wb.File.GetCellValue("Лидеры", "C3"); v != "12" {
		t.Errorf("Лидеры!C3 = %q, ожидали 12", v)
	}
	if v, _ := wb.File.GetCellValue("Прогнозы", "C2"); v != "BTCUSD" {
		t.Errorf("Прогнозы!C2 = %q, ожидали BTCUSD", v)
	}
	if v, _ := wb.File.GetCellValue("Прогнозы", "G2"); v != "первая" {
		t.Errorf("Прогнозы!G2 = %q, ожидали первая", v)
	}
}

func TestBuildLeaderboardFilename(t *testing.T) {
	got := BuildLeaderboardFilename("Неделя 10.06.2024–16.06.2024")
	want := "Таблица лидеров — Неделя 10.06.2024–16.06.2024.xlsx"
	if got != want {
		t.Errorf("имя файла %q, ожидали %q", got, want)
	}
	if BuildLeaderboardFilename("a/b:c") == "a/b:c.xlsx" {
		t.Error("недопустимые символы должны вычищаться")
	}
}
