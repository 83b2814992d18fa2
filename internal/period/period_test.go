package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/period"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("не удалось загрузить таймзону: %v", err)
	}
	return loc
}

func mustCurrent(t *testing.T, class period.Class, ref time.Time, loc *time.Location) period.Period {
	t.Helper()
	p, err := period.Current(class, ref, loc)
	if err != nil {
		t.Fatalf("Current(%s, %s): %v", class, ref, err)
	}
	return p
}

func TestCurrent_Containment(t *testing.T) {
	loc := berlin(t)

	refs := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		time.Date(2024, 2, 29, 12, 0, 0, 0, loc), // високосный день
		time.Date(2024, 6, 16, 23, 59, 59, int(999*time.Millisecond), loc),
		time.Date(2024, 12, 31, 23, 59, 59, int(999*time.Millisecond), loc),
		time.Date(2025, 3, 30, 3, 0, 0, 0, loc), // сразу после перевода часов
	}
	for _, class := range period.Classes() {
		for _, ref := range refs {
			p := mustCurrent(t, class, ref, loc)
			if !p.Contains(ref) {
				t.Errorf("%s: %s вне периода [%s, %s]", class, ref, p.Start, p.End)
			}
		}
	}
}

func TestCurrent_MediumConcrete(t *testing.T) {
	loc := berlin(t)

	ref := time.Date(2024, 1, 15, 12, 30, 0, 0, loc)
	p := mustCurrent(t, period.Medium, ref, loc)

	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), loc)
	if !p.Start.Equal(wantStart) {
		t.Errorf("начало: получили %s, ожидали %s", p.Start, wantStart)
	}
	if !p.End.Equal(wantEnd) {
		t.Errorf("конец: получили %s, ожидали %s", p.End, wantEnd)
	}
	if !p.IsFirstHalf(ref) {
		t.Error("15 января 12:30 должно попадать в первую половину месяца")
	}
	pts, err := period.Points(period.Medium, p.IsFirstHalf(ref))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := period.Points(period.Medium, true)
	if pts != want {
		t.Errorf("баллы: получили %d, ожидали %d", pts, want)
	}
}

func TestCurrent_QuarterBoundary(t *testing.T) {
	loc := berlin(t)

	// Ровно полночь 1 апреля — уже второй квартал, без заползания в первый.
	ref := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)
	p := mustCurrent(t, period.Long, ref, loc)

	wantStart := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, 6, 30, 23, 59, 59, int(999*time.Millisecond), loc)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("квартал: [%s, %s], ожидали [%s, %s]", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestCurrent_WeekBoundaries(t *testing.T) {
	loc := berlin(t)

	// 2024-06-12 — среда; неделя Пн 10.06 — Вс 16.06.
	ref := time.Date(2024, 6, 12, 9, 0, 0, 0, loc)
	p := mustCurrent(t, period.Short, ref, loc)

	wantStart := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, 6, 16, 23, 59, 59, int(999*time.Millisecond), loc)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("неделя: [%s, %s], ожидали [%s, %s]", p.Start, p.End, wantStart, wantEnd)
	}

	// Понедельник и воскресенье той же недели дают тот же период.
	for _, r := range []time.Time{wantStart, wantEnd} {
		q := mustCurrent(t, period.Short, r, loc)
		if q != p {
			t.Errorf("край недели %s дал другой период: %+v", r, q)
		}
	}
}

func TestCurrent_Tiling(t *testing.T) {
	loc := berlin(t)

	for _, class := range period.Classes() {
		ref := time.Date(2024, 3, 20, 15, 0, 0, 0, loc)
		p := mustCurrent(t, class, ref, loc)

		// Все моменты внутри окна дают один и тот же период.
		inside := []time.Time{p.Start, ref, p.End}
		for _, r := range inside {
			if q := mustCurrent(t, class, r, loc); q != p {
				t.Errorf("%s: %s дал другой период", class, r)
			}
		}

		// Миллисекунда за концом — строго следующий период, встык без зазора.
		next := mustCurrent(t, class, p.End.Add(time.Millisecond), loc)
		if !next.Start.Equal(p.End.Add(time.Millisecond)) {
			t.Errorf("%s: следующий период начинается в %s, ожидали %s",
				class, next.Start, p.End.Add(time.Millisecond))
		}
		if next == p {
			t.Errorf("%s: за концом периода вернулся тот же период", class)
		}
	}
}

func TestContains_SubMillisecondTail(t *testing.T) {
	loc := berlin(t)

	// Моменты несут наносекунды, End хранится с точностью до миллисекунды:
	// момент внутри последней миллисекунды воскресенья — всё ещё эта неделя.
	ref := time.Date(2024, 6, 16, 23, 59, 59, 999_500_000, loc)
	for _, class := range period.Classes() {
		p := mustCurrent(t, class, ref, loc)
		if !p.Contains(ref) {
			t.Errorf("%s: %s вне собственного периода [%s, %s]", class, ref, p.Start, p.End)
		}
		ok, err := period.IsCurrent(class, 1, ref, ref, loc)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("%s: свежая заявка в последней миллисекунде периода должна быть валидной", class)
		}
	}

	// Первая наносекунда следующего периода — уже не наш.
	w := mustCurrent(t, period.Short, ref, loc)
	if w.Contains(w.End.Add(time.Millisecond)) {
		t.Error("начало следующей недели не должно попадать в текущую")
	}
}

func TestCurrent_DSTTransitions(t *testing.T) {
	loc := berlin(t)

	// Весенний перевод: ночь 31.03.2024, час 02:00–03:00 отсутствует.
	spring := time.Date(2024, 3, 31, 3, 0, 0, 0, loc)
	w := mustCurrent(t, period.Short, spring, loc)
	wantStart := time.Date(2024, 3, 25, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2024, 3, 31, 23, 59, 59, int(999*time.Millisecond), loc)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Errorf("неделя перевода часов: [%s, %s], ожидали [%s, %s]", w.Start, w.End, wantStart, wantEnd)
	}
	// Календарная длина недели — ровно 7 гражданских дней, в моментах — на час короче.
	if got, want := w.End.Sub(w.Start)+time.Millisecond, 7*24*time.Hour-time.Hour; got != want {
		t.Errorf("длительность недели с переводом: %s, ожидали %s", got, want)
	}

	// Март стыкуется с апрелем без зазора и перекрытия.
	march := mustCurrent(t, period.Medium, spring, loc)
	april := mustCurrent(t, period.Medium, march.End.Add(time.Millisecond), loc)
	if !april.Start.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("апрель начинается в %s", april.Start)
	}

	// Осенний перевод: 27.10.2024, час 02:00–03:00 проживается дважды.
	fall := time.Date(2024, 10, 27, 12, 0, 0, 0, loc)
	m := mustCurrent(t, period.Medium, fall, loc)
	if !m.Start.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, loc)) ||
		!m.End.Equal(time.Date(2024, 10, 31, 23, 59, 59, int(999*time.Millisecond), loc)) {
		t.Errorf("октябрь с осенним переводом: [%s, %s]", m.Start, m.End)
	}
}

func TestIsFirstHalf_MidpointTieBreak(t *testing.T) {
	loc := berlin(t)

	for _, class := range period.Classes() {
		p := mustCurrent(t, class, time.Date(2024, 1, 10, 0, 0, 0, 0, loc), loc)
		mid := p.Start.Add(p.End.Sub(p.Start) / 2)

		if !p.IsFirstHalf(mid) {
			t.Errorf("%s: ровно середина должна считаться первой половиной", class)
		}
		if p.IsFirstHalf(mid.Add(time.Millisecond)) {
			t.Errorf("%s: миллисекунда за серединой — уже вторая половина", class)
		}
		if !p.IsFirstHalf(p.Start) {
			t.Errorf("%s: начало периода — первая половина", class)
		}
		if p.IsFirstHalf(p.End) {
			t.Errorf("%s: конец периода — вторая половина", class)
		}
	}
}

func TestCurrent_Idempotent(t *testing.T) {
	loc := berlin(t)

	ref := time.Date(2024, 7, 4, 18, 45, 12, 0, loc)
	for _, class := range period.Classes() {
		a := mustCurrent(t, class, ref, loc)
		b := mustCurrent(t, class, ref, loc)
		if a != b {
			t.Errorf("%s: повторный вызов дал другой результат: %+v != %+v", class, a, b)
		}
	}
}

func TestCurrent_UTCRefNormalized(t *testing.T) {
	loc := berlin(t)

	// Момент, переданный в UTC, приводится к гражданской зоне:
	// 23:30 UTC 30 июня — это уже 1 июля в Берлине.
	ref := time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)
	p := mustCurrent(t, period.Medium, ref, loc)
	if !p.Start.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("ожидали июль, получили период с началом %s", p.Start)
	}
}

func TestIsCurrent(t *testing.T) {
	loc := berlin(t)

	now := time.Date(2024, 6, 12, 10, 0, 0, 0, loc)

	ok, err := period.IsCurrent(period.Short, 1, now, now, loc)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("свежая заявка со слотом 1 должна быть валидной")
	}

	// Тот же сохранённый момент неделю спустя уже не валиден.
	later := now.AddDate(0, 0, 7)
	ok, err = period.IsCurrent(period.Short, 1, now, later, loc)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("заявка прошлой недели не должна быть валидной в новой")
	}

	// Модель одного активного периода: других слотов не существует.
	ok, err = period.IsCurrent(period.Short, 3, now, now, loc)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("слот 3 не должен существовать")
	}
}

func TestInvalidClass(t *testing.T) {
	loc := berlin(t)
	now := time.Now()

	if _, err := period.Current(period.Class(42), now, loc); !errors.Is(err, period.ErrInvalidClass) {
		t.Errorf("Current: ожидали ErrInvalidClass, получили %v", err)
	}
	if _, err := period.Points(period.Class(0), true); !errors.Is(err, period.ErrInvalidClass) {
		t.Errorf("Points: ожидали ErrInvalidClass, получили %v", err)
	}
	if _, err := period.Penalty(period.Class(-1)); !errors.Is(err, period.ErrInvalidClass) {
		t.Errorf("Penalty: ожидали ErrInvalidClass, получили %v", err)
	}
	if _, err := period.IsCurrent(period.Class(7), 1, now, now, loc); !errors.Is(err, period.ErrInvalidClass) {
		t.Errorf("IsCurrent: ожидали ErrInvalidClass, получили %v", err)
	}
	if _, err := period.Parse("fortnight"); !errors.Is(err, period.ErrInvalidClass) {
		t.Errorf("Parse: ожидали ErrInvalidClass, получили %v", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, class := range period.Classes() {
		got, err := period.Parse(class.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", class.String(), err)
		}
		if got != class {
			t.Errorf("Parse(%q) = %v, ожидали %v", class.String(), got, class)
		}
	}
}

func TestLabels(t *testing.T) {
	loc := berlin(t)
	ref := time.Date(2024, 6, 12, 9, 0, 0, 0, loc)

	cases := map[period.Class]string{
		period.Short:  "Неделя 10.06.2024–16.06.2024",
		period.Medium: "Июнь 2024",
		period.Long:   "2-й квартал 2024",
	}
	for class, want := range cases {
		p := mustCurrent(t, class, ref, loc)
		if p.Label != want {
			t.Errorf("%s: подпись %q, ожидали %q", class, p.Label, want)
		}
	}
}
