package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/inventory"
)

func lotExp(num string, exp string, created time.Time) *entity.Lot {
	l := &entity.Lot{LotNumber: num, CreatedAt: created}
	if exp != "" {
		d, _ := time.Parse("2006-01-02", exp)
		l.ExpirationDate = &d
	}
	return l
}

func TestSortFEFO_CaducadosPrimeroNulosAlFinal(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lotExp("A", "2026-01-01", base),
		lotExp("B", "", base.Add(time.Hour)),
		lotExp("C", "2025-06-01", base.Add(2*time.Hour)),
	}

	inventory.SortFEFO(lots)

	require.Equal(t, "C", lots[0].LotNumber, "la caducidad más próxima sale primero")
	require.Equal(t, "A", lots[1].LotNumber)
	require.Equal(t, "B", lots[2].LotNumber, "sin caducidad va al final")
}

func TestSortFEFO_FIFOEntreSinCaducidad(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lotExp("nuevo", "", base.Add(48*time.Hour)),
		lotExp("viejo", "", base),
		lotExp("medio", "", base.Add(24*time.Hour)),
	}

	inventory.SortFEFO(lots)

	require.Equal(t, "viejo", lots[0].LotNumber, "entre lotes sin caducidad manda el más antiguo")
	require.Equal(t, "medio", lots[1].LotNumber)
	require.Equal(t, "nuevo", lots[2].LotNumber)
}

func TestSortFEFO_EmpateDeCaducidadPorCreacion(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lotExp("segundo", "2025-12-31", base.Add(time.Hour)),
		lotExp("primero", "2025-12-31", base),
	}

	inventory.SortFEFO(lots)

	require.Equal(t, "primero", lots[0].LotNumber)
	require.Equal(t, "segundo", lots[1].LotNumber)
}
