package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, lot_number, manufacturing_date, expiration_date, initial_quantity, current_quantity, unit, blocked, created_at`

// fefoOrder orden de consumo: caducidad ascendente con nulos al final,
// creación ascendente para desempatar.
const fefoOrder = ` ORDER BY expiration_date ASC NULLS LAST, created_at ASC`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.LotNumber, &l.ManufacturingDate, &l.ExpirationDate,
		&l.InitialQuantity, &l.CurrentQuantity, &l.Unit, &l.Blocked, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan lot: %w", err)
	}
	return &l, nil
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.LotNumber, lot.ManufacturingDate, lot.ExpirationDate,
		lot.InitialQuantity, lot.CurrentQuantity, lot.Unit, lot.Blocked, lot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return scanLot(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene un lote y bloquea su fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return scanLot(r.q.QueryRow(context.Background(), query, id))
}

// GetByProductAndNumber obtiene el lote más antiguo con ese número para el
// producto dado.
func (r *LotRepo) GetByProductAndNumber(productID, lotNumber string) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + ` FROM lots
		WHERE product_id = $1 AND lot_number = $2
		ORDER BY created_at ASC LIMIT 1`
	return scanLot(r.q.QueryRow(context.Background(), query, productID, lotNumber))
}

// ListFEFO lista lotes según filtro, en orden FEFO.
func (r *LotRepo) ListFEFO(filter repository.LotFilter) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	args := []any{}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if filter.LotNumber != "" {
		args = append(args, "%"+filter.LotNumber+"%")
		query += fmt.Sprintf(" AND lot_number ILIKE $%d", len(args))
	}
	if filter.OnlyWithStock {
		query += " AND current_quantity > 0"
	}
	query += fefoOrder

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persiste número, fechas y bloqueo. Las cantidades no se tocan aquí.
func (r *LotRepo) Update(lot *entity.Lot) error {
	query := `
		UPDATE lots
		SET lot_number = $2, manufacturing_date = $3, expiration_date = $4, blocked = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.LotNumber, lot.ManufacturingDate, lot.ExpirationDate, lot.Blocked,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija la cantidad total actual del lote.
func (r *LotRepo) UpdateQuantity(lotID string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE lots SET current_quantity = $2 WHERE id = $1`, lotID, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumCurrentByProduct suma el stock vivo de todos los lotes de un producto.
func (r *LotRepo) SumCurrentByProduct(productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(current_quantity), 0) FROM lots WHERE product_id = $1 AND current_quantity > 0`,
		productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock by product: %w", err)
	}
	return total, nil
}

// Delete elimina un lote por ID.
func (r *LotRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
