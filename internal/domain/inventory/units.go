package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

// Conversión de unidades entre la unidad de almacén y la unidad de consumo
// (receta) de un producto. Reglas, en orden:
//
//  1. misma unidad: identidad
//  2. g ↔ kg: ×1000 / ÷1000 automático, sin densidad
//  3. con densidad configurada (unidad de consumo por unidad de almacén,
//     ej. 1.2 kg/l): consumo → almacén divide, almacén → consumo multiplica
//  4. masa ↔ volumen compuesta: encadena primero el paso de masa
//     (g → kg → volumen, y el inverso)
//
// Si ninguna regla aplica, la cantidad se devuelve sin convertir: el caller
// que exija conversión debe comparar unidades por su cuenta.

var mil = decimal.NewFromInt(1000)

// ToStorageUnit convierte una cantidad expresada en fromUnit a la unidad de
// almacén del producto.
func ToStorageUnit(p *entity.Product, qty decimal.Decimal, fromUnit string) decimal.Decimal {
	from := normalizeUnit(fromUnit)
	storage := normalizeUnit(p.StorageUnit)
	if from == "" || from == storage {
		return qty
	}

	// g ↔ kg automático
	if from == "g" && storage == "kg" {
		return qty.Div(mil)
	}
	if from == "kg" && storage == "g" {
		return qty.Mul(mil)
	}

	if p.HasDensity() {
		consumption := normalizeUnit(p.ConsumptionUnit)
		// consumo → almacén: dividir por densidad (ej. 50 kg / 1.2 kg/l = 41.67 l)
		if from == consumption {
			return qty.Div(*p.Density)
		}
		// compuesta: g → kg → almacén
		if from == "g" && consumption == "kg" {
			return qty.Div(mil).Div(*p.Density)
		}
		// compuesta: kg → g → almacén
		if from == "kg" && consumption == "g" {
			return qty.Mul(mil).Div(*p.Density)
		}
	}

	return qty
}

// ToConsumptionUnit convierte una cantidad expresada en fromUnit a la unidad
// de consumo (receta) del producto.
func ToConsumptionUnit(p *entity.Product, qty decimal.Decimal, fromUnit string) decimal.Decimal {
	from := normalizeUnit(fromUnit)
	consumption := normalizeUnit(p.ConsumptionUnit)
	if from == "" || from == consumption {
		return qty
	}

	// g ↔ kg automático
	if from == "kg" && consumption == "g" {
		return qty.Mul(mil)
	}
	if from == "g" && consumption == "kg" {
		return qty.Div(mil)
	}

	if p.HasDensity() {
		storage := normalizeUnit(p.StorageUnit)
		// almacén → consumo: multiplicar por densidad (ej. 50 l × 1.2 kg/l = 60 kg)
		if from == storage {
			return qty.Mul(*p.Density)
		}
		// compuesta: g → kg → consumo vía almacén no aplica; el paso de masa
		// ya se resolvió arriba cuando la unidad de consumo es masa
	}

	return qty
}

func normalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}
