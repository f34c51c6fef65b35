package models

import "time"

// Tournament представляет турнир.
type Tournament struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Poster      string    `json:"poster" db:"poster"`
	Location    string    `json:"location" db:"location"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Price       string    `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Команды, зарегистрированные на турнир (не мапится напрямую).
	Participants []Team `json:"participants,omitempty" db:"-"`
}
