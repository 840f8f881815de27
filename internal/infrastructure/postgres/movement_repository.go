package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, lot_id, type, quantity, movement_date, from_location_id, to_location_id, reference_id, reference_type, notes`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.LotID, &m.Type, &m.Quantity, &m.MovementDate,
		&m.FromLocationID, &m.ToLocationID, &m.ReferenceID, &m.ReferenceType, &m.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}

// Create persiste un movimiento. Los movimientos nunca se actualizan.
func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.LotID, movement.Type, movement.Quantity, movement.MovementDate,
		movement.FromLocationID, movement.ToLocationID, movement.ReferenceID, movement.ReferenceType,
		movement.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByLot historial completo de un lote, más antiguo primero.
func (r *MovementRepo) ListByLot(lotID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE lot_id = $1 ORDER BY movement_date ASC, id ASC`
	return r.list(query, lotID)
}

// ListByLotAndType historial de un lote filtrado por tipo.
func (r *MovementRepo) ListByLotAndType(lotID string, movementType entity.MovementType) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE lot_id = $1 AND type = $2 ORDER BY movement_date ASC, id ASC`
	return r.list(query, lotID, movementType)
}

// FirstByLotAndType primer movimiento (más antiguo) del tipo dado.
func (r *MovementRepo) FirstByLotAndType(lotID string, movementType entity.MovementType) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE lot_id = $1 AND type = $2 ORDER BY movement_date ASC, id ASC LIMIT 1`
	return scanMovement(r.q.QueryRow(context.Background(), query, lotID, movementType))
}

// DeleteByLot borra el historial de un lote. Solo se usa al eliminar un
// lote nunca referenciado.
func (r *MovementRepo) DeleteByLot(lotID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE lot_id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
