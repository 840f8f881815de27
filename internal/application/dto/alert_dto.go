package dto

import (
	"time"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// AlertResponse aviso de inventario.
type AlertResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	ProductID   *string   `json:"product_id,omitempty"`
	LotID       *string   `json:"lot_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	IsDismissed bool      `json:"is_dismissed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Alert convierte la entidad a su representación HTTP.
func Alert(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		Type:        string(a.Type),
		Severity:    string(a.Severity),
		ProductID:   a.ProductID,
		LotID:       a.LotID,
		Message:     a.Message,
		IsRead:      a.IsRead,
		IsDismissed: a.IsDismissed,
		CreatedAt:   a.CreatedAt,
	}
}

// Alerts convierte una lista de alertas.
func Alerts(items []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(items))
	for _, a := range items {
		out = append(out, Alert(a))
	}
	return out
}
