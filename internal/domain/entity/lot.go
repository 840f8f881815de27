package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus estado derivado de un lote. Nunca se persiste: se calcula a
// partir de blocked, current_quantity y expiration_date, en ese orden de
// precedencia (bloqueado > agotado > caducado > activo).
type LotStatus string

const (
	LotStatusActive   LotStatus = "active"
	LotStatusExpired  LotStatus = "expired"
	LotStatusDepleted LotStatus = "depleted"
	LotStatusBlocked  LotStatus = "blocked"
)

// Lot representa una cantidad numerada de un producto con fechas de
// fabricación/caducidad. Se crea por recepción o por cierre de orden de
// producción y solo muta a través del libro de movimientos.
type Lot struct {
	ID                string
	ProductID         string
	LotNumber         string // único por producto
	ManufacturingDate time.Time
	ExpirationDate    *time.Time
	InitialQuantity   decimal.Decimal // inmutable
	CurrentQuantity   decimal.Decimal // en unidad de almacén del producto
	Unit              string
	Blocked           bool
	CreatedAt         time.Time
}

// StatusAt calcula el estado derivado respecto a una fecha dada.
func (l *Lot) StatusAt(today time.Time) LotStatus {
	if l.Blocked {
		return LotStatusBlocked
	}
	if l.CurrentQuantity.LessThanOrEqual(decimal.Zero) {
		return LotStatusDepleted
	}
	if l.ExpirationDate != nil && l.ExpirationDate.Before(truncateToDay(today)) {
		return LotStatusExpired
	}
	return LotStatusActive
}

// Status calcula el estado derivado a fecha de hoy.
func (l *Lot) Status() LotStatus {
	return l.StatusAt(time.Now())
}

// IsAvailable indica si el lote puede consumirse o enviarse
// (ni bloqueado, ni agotado, ni caducado).
func (l *Lot) IsAvailable() bool {
	return l.Status() == LotStatusActive
}

// DaysToExpiration días restantes hasta la caducidad; nil si no caduca.
func (l *Lot) DaysToExpiration(today time.Time) *int {
	if l.ExpirationDate == nil {
		return nil
	}
	days := int(l.ExpirationDate.Sub(truncateToDay(today)).Hours() / 24)
	return &days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
