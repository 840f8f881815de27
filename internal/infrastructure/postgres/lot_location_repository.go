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

var _ repository.LotLocationRepository = (*LotLocationRepo)(nil)

// LotLocationRepo implementación del puerto LotLocationRepository sobre PostgreSQL (usable con pool o tx).
type LotLocationRepo struct {
	q Querier
}

// NewLotLocationRepository construye el adaptador de stock por ubicación. Pasar pool o tx (Querier).
func NewLotLocationRepository(q Querier) *LotLocationRepo {
	return &LotLocationRepo{q: q}
}

// Get obtiene la fila de stock de un lote en una ubicación.
func (r *LotLocationRepo) Get(lotID, locationID string) (*entity.LotLocation, error) {
	query := `
		SELECT id, lot_id, location_id, quantity
		FROM lot_locations WHERE lot_id = $1 AND location_id = $2`
	var row entity.LotLocation
	err := r.q.QueryRow(context.Background(), query, lotID, locationID).Scan(
		&row.ID, &row.LotID, &row.LocationID, &row.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot location: %w", err)
	}
	return &row, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Si no
// existe devuelve una fila a cero sin persistir.
func (r *LotLocationRepo) GetForUpdate(lotID, locationID string) (*entity.LotLocation, error) {
	query := `
		SELECT id, lot_id, location_id, quantity
		FROM lot_locations WHERE lot_id = $1 AND location_id = $2
		FOR UPDATE`
	var row entity.LotLocation
	err := r.q.QueryRow(context.Background(), query, lotID, locationID).Scan(
		&row.ID, &row.LotID, &row.LocationID, &row.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LotLocation{LotID: lotID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get lot location for update: %w", err)
	}
	return &row, nil
}

// Upsert inserta o actualiza la cantidad por (lote, ubicación).
func (r *LotLocationRepo) Upsert(row *entity.LotLocation) error {
	query := `
		INSERT INTO lot_locations (id, lot_id, location_id, quantity)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4)
		ON CONFLICT (lot_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`
	_, err := r.q.Exec(context.Background(), query, row.ID, row.LotID, row.LocationID, row.Quantity)
	if err != nil {
		return fmt.Errorf("upsert lot location: %w", err)
	}
	return nil
}

// ListByLot lista todas las filas de stock de un lote.
func (r *LotLocationRepo) ListByLot(lotID string) ([]*entity.LotLocation, error) {
	query := `
		SELECT ll.id, ll.lot_id, ll.location_id, ll.quantity
		FROM lot_locations ll
		JOIN locations loc ON loc.id = ll.location_id
		WHERE ll.lot_id = $1
		ORDER BY loc.code`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list lot locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.LotLocation
	for rows.Next() {
		var row entity.LotLocation
		if err := rows.Scan(&row.ID, &row.LotID, &row.LocationID, &row.Quantity); err != nil {
			return nil, fmt.Errorf("scan lot location: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// ListAvailableAt lotes con stock positivo en una ubicación, en orden FEFO.
// productID vacío = todos los productos.
func (r *LotLocationRepo) ListAvailableAt(locationID, productID string) ([]*repository.LotAtLocation, error) {
	query := `
		SELECT l.id, l.product_id, l.lot_number, l.manufacturing_date, l.expiration_date,
		       l.initial_quantity, l.current_quantity, l.unit, l.blocked, l.created_at,
		       ll.quantity
		FROM lot_locations ll
		JOIN lots l ON l.id = ll.lot_id
		WHERE ll.location_id = $1 AND ll.quantity > 0`
	args := []any{locationID}
	if productID != "" {
		args = append(args, productID)
		query += fmt.Sprintf(" AND l.product_id = $%d", len(args))
	}
	query += ` ORDER BY l.expiration_date ASC NULLS LAST, l.created_at ASC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock at location: %w", err)
	}
	defer rows.Close()

	var out []*repository.LotAtLocation
	for rows.Next() {
		var l entity.Lot
		var qty decimal.Decimal
		err := rows.Scan(
			&l.ID, &l.ProductID, &l.LotNumber, &l.ManufacturingDate, &l.ExpirationDate,
			&l.InitialQuantity, &l.CurrentQuantity, &l.Unit, &l.Blocked, &l.CreatedAt,
			&qty,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stock at location: %w", err)
		}
		out = append(out, &repository.LotAtLocation{Lot: &l, Quantity: qty})
	}
	return out, rows.Err()
}

// DeleteByLot elimina todas las filas de stock de un lote.
func (r *LotLocationRepo) DeleteByLot(lotID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lot_locations WHERE lot_id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("delete lot locations: %w", err)
	}
	return nil
}
