package dto

import "github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"

// CreateLocationRequest alta de una ubicación auxiliar de almacén.
type CreateLocationRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=20"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	IsAvailable bool   `json:"is_available"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
	Active      bool   `json:"active"`
}

// Location convierte la entidad a su representación HTTP.
func Location(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		Code:        l.Code,
		Name:        l.Name,
		IsAvailable: l.IsAvailable,
		Active:      l.Active,
	}
}

// Locations convierte una lista de ubicaciones.
func Locations(items []*entity.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(items))
	for _, l := range items {
		out = append(out, Location(l))
	}
	return out
}
