package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
)

func TestLotStatus_Precedencia(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		blocked bool
		qty     string
		exp     *time.Time
		want    entity.LotStatus
	}{
		{"activo", false, "10", &future, entity.LotStatusActive},
		{"activo sin caducidad", false, "10", nil, entity.LotStatusActive},
		{"caducado", false, "10", &past, entity.LotStatusExpired},
		{"agotado", false, "0", &future, entity.LotStatusDepleted},
		{"agotado gana a caducado", false, "0", &past, entity.LotStatusDepleted},
		{"bloqueado gana a todo", true, "0", &past, entity.LotStatusBlocked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lot := &entity.Lot{
				CurrentQuantity: decimal.RequireFromString(tc.qty),
				ExpirationDate:  tc.exp,
				Blocked:         tc.blocked,
			}
			assert.Equal(t, tc.want, lot.StatusAt(today))
		})
	}
}

func TestLotStatus_CaducaHoyNoEsCaducado(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	exp := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	lot := &entity.Lot{CurrentQuantity: decimal.NewFromInt(5), ExpirationDate: &exp}

	// caduca estrictamente cuando la fecha queda por detrás del día actual
	assert.Equal(t, entity.LotStatusActive, lot.StatusAt(today))
}

func TestLot_DaysToExpiration(t *testing.T) {
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	exp := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	lot := &entity.Lot{ExpirationDate: &exp}

	days := lot.DaysToExpiration(today)
	if assert.NotNil(t, days) {
		assert.Equal(t, 7, *days)
	}

	lot.ExpirationDate = nil
	assert.Nil(t, lot.DaysToExpiration(today), "sin caducidad no hay cuenta atrás")
}
