package models

import "time"

// Direction — направление прогноза.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Статусы прогноза: pending — период ещё не закрыт.
const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Prediction — прогноз игрока внутри одного скорингового периода.
// Потенциальные баллы и штраф фиксируются в момент подачи по таблице
// движка периодов; при закрытии периода одно из двух значений становится
// начисленным (points).
type Prediction struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	InstrumentID int64      `db:"instrument_id"`
	Symbol       string     `db:"symbol"`
	Class        string     `db:"class"`
	Direction    Direction  `db:"direction"`
	PeriodStart  time.Time  `db:"period_start"`
	PeriodEnd    time.Time  `db:"period_end"`
	PeriodLabel  string     `db:"period_label"`
	FirstHalf    bool       `db:"first_half"`
	Potential    int        `db:"potential"`
	Penalty      int        `db:"penalty"`
	EntryPrice   float64    `db:"entry_price"`
	ClosePrice   *float64   `db:"close_price"`
	Points       *int       `db:"points"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	SettledAt    *time.Time `db:"settled_at"`
}

// PredictionWithUser — строка отчёта: прогноз вместе с именем игрока.
type PredictionWithUser struct {
	Prediction
	PlayerName string `db:"player_name"`
}
