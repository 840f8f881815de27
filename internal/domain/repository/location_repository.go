package repository

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByCode(code string) (*entity.Location, error)
	List(activeOnly bool) ([]*entity.Location, error)
}
