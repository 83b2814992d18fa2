package period

import (
	"errors"
	"fmt"
)

// Class — класс длительности скорингового периода.
// Набор закрытый: неделя, месяц, квартал. Любое другое значение —
// ошибка вызывающего кода, а не повод молча взять значение по умолчанию.
type Class int

const (
	Short  Class = iota + 1 // календарная неделя (Пн–Вс)
	Medium                  // календарный месяц
	Long                    // календарный квартал
)

var ErrInvalidClass = errors.New("неизвестный класс длительности")

func (c Class) Valid() bool {
	return c == Short || c == Medium || c == Long
}

func (c Class) String() string {
	switch c {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Title — человекочитаемое имя класса для меню и уведомлений.
func (c Class) Title() string {
	switch c {
	case Short:
		return "Неделя"
	case Medium:
		return "Месяц"
	case Long:
		return "Квартал"
	default:
		return c.String()
	}
}

// Parse разбирает строковое значение на границе системы (callback-данные,
// колонка в БД). Внутри кода класс всегда ходит как Class.
func Parse(s string) (Class, error) {
	switch s {
	case "short":
		return Short, nil
	case "medium":
		return Medium, nil
	case "long":
		return Long, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidClass, s)
	}
}

// Classes — все классы в порядке возрастания длительности.
func Classes() []Class {
	return []Class{Short, Medium, Long}
}
