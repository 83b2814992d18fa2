package models

// Instrument — инструмент из справочника, по которому принимаются прогнозы.
type Instrument struct {
	ID       int64  `db:"id"`
	Symbol   string `db:"symbol"`
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}
