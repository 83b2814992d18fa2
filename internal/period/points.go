package period

import "fmt"

// Rule — баллы класса длительности: за прогноз в первой половине периода,
// во второй половине и штраф за неверный прогноз. Таблица фиксируется на
// деплое и не зависит от конкретного периода.
type Rule struct {
	FirstHalf  int
	SecondHalf int
	Penalty    int // всегда < 0
}

// Продуктовый инвариант таблицы: внутри класса первая половина дороже
// второй, а ранний вход в длинный период дороже раннего входа в короткий.
var rules = map[Class]Rule{
	Short:  {FirstHalf: 12, SecondHalf: 6, Penalty: -6},
	Medium: {FirstHalf: 30, SecondHalf: 15, Penalty: -10},
	Long:   {FirstHalf: 60, SecondHalf: 30, Penalty: -20},
}

// RuleFor возвращает таблицу баллов класса.
func RuleFor(class Class) (Rule, error) {
	r, ok := rules[class]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %d", ErrInvalidClass, int(class))
	}
	return r, nil
}

// Points — сколько баллов принесёт верный прогноз, поданный в указанной
// половине периода.
func Points(class Class, firstHalf bool) (int, error) {
	r, err := RuleFor(class)
	if err != nil {
		return 0, err
	}
	if firstHalf {
		return r.FirstHalf, nil
	}
	return r.SecondHalf, nil
}

// Penalty — штраф за неверный прогноз, одинаковый для обеих половин.
func Penalty(class Class) (int, error) {
	r, err := RuleFor(class)
	if err != nil {
		return 0, err
	}
	return r.Penalty, nil
}
