// Package period — движок скоринговых периодов: по моменту времени и классу
// длительности детерминированно вычисляет активный период, половину периода
// и количество баллов за прогноз. Чистые функции: часы не читаем, состояния
// не держим, одинаковые входы всегда дают одинаковый результат.
package period

import (
	"fmt"
	"time"
)

// Период нумеруется слотом 1: активный период каждого класса ровно один,
// исторические периоды по id не адресуются.
const currentSlotID = 1

// Period — один конкретный период класса длительности.
// Границы включительные, обе в гражданской таймзоне продукта;
// End — последняя миллисекунда последнего календарного дня.
type Period struct {
	Class Class
	Start time.Time
	End   time.Time
	Label string
}

// Current вычисляет период, содержащий ref, по календарным правилам класса:
// Short — неделя Пн–Вс, Medium — месяц, Long — квартал. Арифметика ведётся
// в loc через календарные операции, а не фиксированные смещения, поэтому
// переходы на летнее/зимнее время границы не сдвигают.
func Current(class Class, ref time.Time, loc *time.Location) (Period, error) {
	if !class.Valid() {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidClass, int(class))
	}

	ref = ref.In(loc)
	y, m, d := ref.Date()

	var start, next time.Time
	switch class {
	case Short:
		// Сдвиг до ближайшего прошедшего понедельника: Monday=0 … Sunday=6.
		offset := (int(ref.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 0, 7)
	case Medium:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 1, 0)
	case Long:
		qm := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, qm, 1, 0, 0, 0, 0, loc)
		next = start.AddDate(0, 3, 0)
	}

	p := Period{
		Class: class,
		Start: start,
		End:   next.Add(-time.Millisecond),
	}
	p.Label = label(p)
	return p, nil
}

// Contains — попадает ли момент в период. End хранится с точностью до
// миллисекунды, а моменты несут наносекунды, поэтому правую границу
// проверяем полуоткрыто против начала следующего периода: момент внутри
// последней миллисекунды — ещё наш.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End.Add(time.Millisecond))
}

// IsFirstHalf — первая ли половина периода. Сравниваем моменты, а не
// календарные дни: середина месяца из 31 дня — это настоящая временная
// середина. Ровно в середине — ещё первая половина (сравнение нестрогое).
func (p Period) IsFirstHalf(ref time.Time) bool {
	return ref.Sub(p.Start) <= p.End.Sub(p.Start)/2
}

// IsCurrent проверяет присланный клиентом идентификатор периода: валиден
// только слот 1, и только пока ref лежит внутри текущего периода класса,
// пересчитанного вокруг now. Для свежей заявки ref и now совпадают; для
// сохранённой ранее заявки now уезжает вперёд, и неделю спустя тот же ref
// перестаёт быть валидным.
func IsCurrent(class Class, candidateID int64, ref, now time.Time, loc *time.Location) (bool, error) {
	p, err := Current(class, now, loc)
	if err != nil {
		return false, err
	}
	return candidateID == currentSlotID && p.Contains(ref), nil
}
