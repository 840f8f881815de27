package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/inventory"
)

func productLKg(density string) *entity.Product {
	var d *decimal.Decimal
	if density != "" {
		v := decimal.RequireFromString(density)
		d = &v
	}
	return &entity.Product{
		Code:            "MP-001",
		Name:            "Aceite base",
		Category:        entity.CategoryRawMaterial,
		StorageUnit:     "l",
		ConsumptionUnit: "kg",
		Density:         d,
	}
}

func TestToStorageUnit_MismaUnidad(t *testing.T) {
	p := productLKg("1.2")
	q := decimal.NewFromInt(50)

	got := inventory.ToStorageUnit(p, q, "l")
	assert.True(t, q.Equal(got), "misma unidad debe ser identidad")

	got = inventory.ToStorageUnit(p, q, "")
	assert.True(t, q.Equal(got), "unidad vacía debe ser identidad")
}

func TestToStorageUnit_GramosAKilos(t *testing.T) {
	p := &entity.Product{StorageUnit: "kg"}
	got := inventory.ToStorageUnit(p, decimal.NewFromInt(1500), "g")
	assert.True(t, decimal.NewFromFloat(1.5).Equal(got), "1500 g = 1.5 kg sin densidad")
}

func TestToStorageUnit_KilosAGramos(t *testing.T) {
	p := &entity.Product{StorageUnit: "g"}
	got := inventory.ToStorageUnit(p, decimal.NewFromFloat(2.5), "kg")
	assert.True(t, decimal.NewFromInt(2500).Equal(got))
}

func TestToStorageUnit_ConDensidad(t *testing.T) {
	// 60 kg de consumo con densidad 1.2 kg/l → 50 l de almacén
	p := productLKg("1.2")
	got := inventory.ToStorageUnit(p, decimal.NewFromInt(60), "kg")
	assertDecimalCerca(t, decimal.NewFromInt(50), got)
}

func TestToStorageUnit_CompuestaGramosAVolumen(t *testing.T) {
	// 60000 g → 60 kg → 50 l (encadena el paso de masa primero)
	p := productLKg("1.2")
	got := inventory.ToStorageUnit(p, decimal.NewFromInt(60000), "g")
	assertDecimalCerca(t, decimal.NewFromInt(50), got)
}

func TestToStorageUnit_SinReglaDevuelveIgual(t *testing.T) {
	// sin densidad y unidades sin conversión automática: pass-through
	p := &entity.Product{StorageUnit: "l", ConsumptionUnit: "kg"}
	q := decimal.NewFromInt(7)
	got := inventory.ToStorageUnit(p, q, "kg")
	assert.True(t, q.Equal(got), "sin regla aplicable debe devolver la cantidad intacta")
}

func TestToConsumptionUnit_ConDensidad(t *testing.T) {
	// 50 l de almacén con densidad 1.2 kg/l → 60 kg de consumo
	p := productLKg("1.2")
	got := inventory.ToConsumptionUnit(p, decimal.NewFromInt(50), "l")
	assertDecimalCerca(t, decimal.NewFromInt(60), got)
}

func TestConversion_IdaYVuelta(t *testing.T) {
	// toStorage(toConsumption(q, almacén), consumo) == q dentro de tolerancia
	p := productLKg("1.37")
	q := decimal.NewFromFloat(123.456)

	enConsumo := inventory.ToConsumptionUnit(p, q, p.StorageUnit)
	vuelta := inventory.ToStorageUnit(p, enConsumo, p.ConsumptionUnit)

	assertDecimalCerca(t, q, vuelta)
}

func TestConversion_MayusculasYEspacios(t *testing.T) {
	p := &entity.Product{StorageUnit: "kg"}
	got := inventory.ToStorageUnit(p, decimal.NewFromInt(1000), " G ")
	assert.True(t, decimal.NewFromInt(1).Equal(got), "las unidades se comparan normalizadas")
}

// assertDecimalCerca compara con tolerancia 1e-9 (las divisiones decimales
// redondean a precisión finita).
func assertDecimalCerca(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-9)),
		"esperado %s, obtenido %s (diff %s)", want, got, diff)
}
