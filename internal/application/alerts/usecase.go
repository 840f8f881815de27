package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

// Umbral por defecto del aviso de caducidad próxima.
const defaultExpiringSoonDays = 30

// AlertUseCase regenera y consulta las alertas de inventario: stock bajo
// mínimo, lotes próximos a caducar, caducados y bloqueados. Las alertas
// son una foto derivada del estado actual, no un histórico.
type AlertUseCase struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
}

// NewAlertUseCase construye el caso de uso de alertas.
func NewAlertUseCase(
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo, productRepo: productRepo, lotRepo: lotRepo}
}

// Regenerate recalcula todas las alertas desde cero a partir del estado
// actual de productos y lotes. windowDays fija el umbral de caducidad
// próxima; con cero o negativo aplica el de por defecto. Devuelve cuántas
// quedaron activas.
func (uc *AlertUseCase) Regenerate(ctx context.Context, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = defaultExpiringSoonDays
	}
	if err := uc.alertRepo.DeleteAll(); err != nil {
		return 0, err
	}
	now := time.Now()
	count := 0

	products, err := uc.productRepo.List(repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return 0, err
	}
	for _, product := range products {
		if product.MinStock == nil {
			continue
		}
		total, err := uc.lotRepo.SumCurrentByProduct(product.ID)
		if err != nil {
			return 0, err
		}
		if total.LessThan(*product.MinStock) {
			productID := product.ID
			if err := uc.alertRepo.Create(&entity.Alert{
				ID:        uuid.New().String(),
				Type:      entity.AlertLowStock,
				Severity:  entity.SeverityWarning,
				ProductID: &productID,
				Message: fmt.Sprintf("%s por debajo del mínimo: %s %s (mínimo %s)",
					product.Name, total.String(), product.StorageUnit, product.MinStock.String()),
				CreatedAt: now,
			}); err != nil {
				return 0, err
			}
			count++
		}
	}

	lots, err := uc.lotRepo.ListFEFO(repository.LotFilter{OnlyWithStock: true})
	if err != nil {
		return 0, err
	}
	for _, lot := range lots {
		alert := uc.lotAlert(lot, now, windowDays)
		if alert == nil {
			continue
		}
		if err := uc.alertRepo.Create(alert); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// lotAlert decide la alerta que genera un lote, si genera alguna.
func (uc *AlertUseCase) lotAlert(lot *entity.Lot, now time.Time, windowDays int) *entity.Alert {
	lotID := lot.ID
	productID := lot.ProductID
	base := entity.Alert{
		ID:        uuid.New().String(),
		ProductID: &productID,
		LotID:     &lotID,
		CreatedAt: now,
	}
	switch lot.StatusAt(now) {
	case entity.LotStatusBlocked:
		base.Type = entity.AlertBlocked
		base.Severity = entity.SeverityWarning
		base.Message = fmt.Sprintf("lote %s bloqueado con %s %s en stock",
			lot.LotNumber, lot.CurrentQuantity.String(), lot.Unit)
		return &base
	case entity.LotStatusExpired:
		base.Type = entity.AlertExpired
		base.Severity = entity.SeverityCritical
		base.Message = fmt.Sprintf("lote %s caducado el %s con %s %s en stock",
			lot.LotNumber, lot.ExpirationDate.Format("2006-01-02"), lot.CurrentQuantity.String(), lot.Unit)
		return &base
	case entity.LotStatusActive:
		days := lot.DaysToExpiration(now)
		if days != nil && *days <= windowDays {
			base.Type = entity.AlertExpiringSoon
			base.Severity = entity.SeverityInfo
			if *days <= 7 {
				base.Severity = entity.SeverityWarning
			}
			base.Message = fmt.Sprintf("lote %s caduca en %d días", lot.LotNumber, *days)
			return &base
		}
	}
	return nil
}

// List lista alertas según el filtro dado.
func (uc *AlertUseCase) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	return uc.alertRepo.List(filter)
}

// CountActive devuelve el número de alertas ni leídas ni descartadas.
func (uc *AlertUseCase) CountActive(ctx context.Context) (int, error) {
	return uc.alertRepo.CountActive()
}

// MarkRead marca una alerta como leída.
func (uc *AlertUseCase) MarkRead(ctx context.Context, id string) error {
	if _, err := uc.alertRepo.GetByID(id); err != nil {
		return err
	}
	return uc.alertRepo.MarkRead(id)
}

// Dismiss descarta una alerta.
func (uc *AlertUseCase) Dismiss(ctx context.Context, id string) error {
	if _, err := uc.alertRepo.GetByID(id); err != nil {
		return err
	}
	return uc.alertRepo.Dismiss(id)
}
