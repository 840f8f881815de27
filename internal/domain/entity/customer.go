package entity

import "time"

// Customer cliente que recibe envíos de producto acabado.
type Customer struct {
	ID        string
	Code      string // único (CLI-0001...)
	Name      string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
}
