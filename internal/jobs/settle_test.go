package jobs

import (
	"testing"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
)

func TestCorrect(t *testing.T) {
	cases := []struct {
		name  string
		dir   models.Direction
		entry float64
		close float64
		want  bool
	}{
		{"вверх и выросло", models.Up, 100, 101, true},
		{"вверх и упало", models.Up, 100, 99, false},
		{"вниз и упало", models.Down, 100, 99, true},
		{"вниз и выросло", models.Down, 100, 101, false},
		{"вверх без движения", models.Up, 100, 100, false},
		{"вниз без движения", models.Down, 100, 100, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := correct(tc.dir, tc.entry, tc.close); got != tc.want {
				t.Errorf("correct(%s, %v, %v) = %v, ожидали %v",
					tc.dir, tc.entry, tc.close, got, tc.want)
			}
		})
	}
}
