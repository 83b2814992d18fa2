// Package pricefeed — источник котировок для расчёта прогнозов.
// Движок периодов о ценах не знает; котировки нужны только при подаче
// прогноза (цена входа) и при закрытии периода (цена закрытия).
package pricefeed

import "context"

type Source interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}
