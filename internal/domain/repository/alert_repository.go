package repository

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// AlertFilter filtros de listado de alertas.
type AlertFilter struct {
	Type        entity.AlertType
	Severity    entity.AlertSeverity
	IsRead      *bool
	IsDismissed *bool
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	List(filter AlertFilter) ([]*entity.Alert, error)
	CountActive() (int, error)
	MarkRead(id string) error
	Dismiss(id string) error
	// DeleteAll vacía la tabla antes de regenerar.
	DeleteAll() error
}
