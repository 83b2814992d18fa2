package models

type Role string

const (
	Player Role = "player"
	Admin  Role = "admin"
)

type User struct {
	ID         int64  `db:"id"`
	TelegramID int64  `db:"telegram_id"`
	Name       string `db:"name"`
	Role       Role   `db:"role"`
	IsActive   bool   `db:"is_active"`
}
