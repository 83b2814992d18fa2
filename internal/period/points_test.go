package period_test

import (
	"testing"

	"github.com/Spok95/telegram-forecast-bot/internal/period"
)

// Таблица баллов конфигурируется, а не выводится, поэтому продуктовый
// порядок закрепляем тестом: внутри класса первая половина дороже второй,
// штраф отрицательный, ранний вход в более длинный период дороже.
func TestPointsOrdering(t *testing.T) {
	prevFirst := 0
	for _, class := range period.Classes() {
		first, err := period.Points(class, true)
		if err != nil {
			t.Fatal(err)
		}
		second, err := period.Points(class, false)
		if err != nil {
			t.Fatal(err)
		}
		penalty, err := period.Penalty(class)
		if err != nil {
			t.Fatal(err)
		}

		if !(first > second && second > 0 && penalty < 0) {
			t.Errorf("%s: нарушен порядок first=%d second=%d penalty=%d",
				class, first, second, penalty)
		}
		if first <= prevFirst {
			t.Errorf("%s: первая половина (%d) должна стоить дороже, чем у более короткого класса (%d)",
				class, first, prevFirst)
		}
		prevFirst = first
	}
}

func TestRuleForMatchesPoints(t *testing.T) {
	for _, class := range period.Classes() {
		r, err := period.RuleFor(class)
		if err != nil {
			t.Fatal(err)
		}
		first, _ := period.Points(class, true)
		second, _ := period.Points(class, false)
		penalty, _ := period.Penalty(class)
		if r.FirstHalf != first || r.SecondHalf != second || r.Penalty != penalty {
			t.Errorf("%s: RuleFor %+v расходится с Points/Penalty (%d/%d/%d)",
				class, r, first, second, penalty)
		}
	}
}
