package period

import "fmt"

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// label — подпись периода для сообщений бота и экспорта.
func label(p Period) string {
	switch p.Class {
	case Short:
		return fmt.Sprintf("Неделя %s–%s",
			p.Start.Format("02.01.2006"), p.End.Format("02.01.2006"))
	case Medium:
		return fmt.Sprintf("%s %d", monthNames[p.Start.Month()-1], p.Start.Year())
	case Long:
		q := (int(p.Start.Month())-1)/3 + 1
		return fmt.Sprintf("%d-й квартал %d", q, p.Start.Year())
	default:
		return p.Class.String()
	}
}
