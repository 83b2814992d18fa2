package models

// LeaderboardEntry — строка таблицы лидеров по начисленным баллам.
type LeaderboardEntry struct {
	Rank        int    `db:"rank"`
	UserID      int64  `db:"user_id"`
	Name        string `db:"name"`
	Points      int    `db:"points"`
	Predictions int    `db:"predictions"`
	Won         int    `db:"won"`
}
