package inventory

import (
	"sort"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// SortFEFO ordena lotes para consumo: primero caduca, primero sale (FEFO).
// Los lotes sin fecha de caducidad (ej. envases) van al final, entre ellos
// por orden de creación ascendente (FIFO). Empates de caducidad se
// resuelven también por creación ascendente. Orden estable.
func SortFEFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.ExpirationDate == nil:
			return false
		case b.ExpirationDate == nil:
			return true
		case a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
	})
}
