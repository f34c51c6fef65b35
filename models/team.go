package models

import (
	"time"

	"github.com/lib/pq"
)

// PaymentStatus represents team payment statuses, matching the CHECK constraint in the DB.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type Team struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Contact         string         `json:"contact" db:"contact"`
	Logo            string         `json:"logo" db:"logo"`
	Players         pq.StringArray `json:"player" db:"players"`
	PaymentStatus   PaymentStatus  `json:"payment_status" db:"payment_status"`
	PaymentQuantity int            `json:"payment_quantity" db:"payment_quantity"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}
