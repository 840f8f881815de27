package entity

import "time"

// AlertType tipo de alerta de inventario.
type AlertType string

const (
	AlertLowStock     AlertType = "low_stock"
	AlertExpiringSoon AlertType = "expiring_soon"
	AlertExpired      AlertType = "expired"
	AlertBlocked      AlertType = "blocked"
)

// AlertSeverity severidad de una alerta.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert aviso generado a partir del estado actual del inventario
// (stock bajo mínimo, lotes próximos a caducar, caducados o bloqueados).
type Alert struct {
	ID          string
	Type        AlertType
	Severity    AlertSeverity
	ProductID   *string
	LotID       *string
	Message     string
	IsRead      bool
	IsDismissed bool
	CreatedAt   time.Time
}
