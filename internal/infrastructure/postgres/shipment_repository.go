package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación del puerto ShipmentRepository sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador de envíos. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `id, customer_id, shipment_number, shipment_date, notes, created_at`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	err := row.Scan(&s.ID, &s.CustomerID, &s.ShipmentNumber, &s.ShipmentDate, &s.Notes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	return &s, nil
}

// Create persiste cabecera y detalles del envío.
func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	ctx := context.Background()
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		shipment.ID, shipment.CustomerID, shipment.ShipmentNumber,
		shipment.ShipmentDate, shipment.Notes, shipment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	for _, detail := range shipment.Details {
		_, err := r.q.Exec(ctx,
			`INSERT INTO shipment_details (id, shipment_id, lot_id, quantity, unit)
			 VALUES ($1, $2, $3, $4, $5)`,
			detail.ID, detail.ShipmentID, detail.LotID, detail.Quantity, detail.Unit)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert shipment detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un envío con sus detalles.
func (r *ShipmentRepo) GetByID(id string) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	shipment, err := scanShipment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, err
	}
	if shipment.Details, err = r.listDetails(shipment.ID); err != nil {
		return nil, err
	}
	return shipment, nil
}

// GetByNumber obtiene un envío por su número, con detalles.
func (r *ShipmentRepo) GetByNumber(shipmentNumber string) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE shipment_number = $1`
	shipment, err := scanShipment(r.q.QueryRow(context.Background(), query, shipmentNumber))
	if err != nil {
		return nil, err
	}
	if shipment.Details, err = r.listDetails(shipment.ID); err != nil {
		return nil, err
	}
	return shipment, nil
}

func (r *ShipmentRepo) listDetails(shipmentID string) ([]*entity.ShipmentDetail, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, shipment_id, lot_id, quantity, unit FROM shipment_details
		 WHERE shipment_id = $1 ORDER BY id`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment details: %w", err)
	}
	defer rows.Close()

	var out []*entity.ShipmentDetail
	for rows.Next() {
		var d entity.ShipmentDetail
		if err := rows.Scan(&d.ID, &d.ShipmentID, &d.LotID, &d.Quantity, &d.Unit); err != nil {
			return nil, fmt.Errorf("scan shipment detail: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// List lista envíos según filtro, más recientes primero. Solo cabeceras.
func (r *ShipmentRepo) List(filter repository.ShipmentFilter) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE 1=1`
	args := []any{}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND shipment_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND shipment_date <= $%d", len(args))
	}
	query += ` ORDER BY shipment_date DESC, shipment_number DESC`
	return r.listHeaders(query, args...)
}

// ListByCustomer envíos de un cliente, más recientes primero.
func (r *ShipmentRepo) ListByCustomer(customerID string) ([]*entity.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + ` FROM shipments
		WHERE customer_id = $1 ORDER BY shipment_date DESC, shipment_number DESC`
	return r.listHeaders(query, customerID)
}

func (r *ShipmentRepo) listHeaders(query string, args ...any) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		if s.Details, err = r.listDetails(s.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListByLot envíos que contienen un lote, con el cliente resuelto.
func (r *ShipmentRepo) ListByLot(lotID string) ([]*repository.LotShipment, error) {
	query := `
		SELECT d.id, d.shipment_id, d.lot_id, d.quantity, d.unit,
		       s.id, s.customer_id, s.shipment_number, s.shipment_date, s.notes, s.created_at,
		       c.id, c.code, c.name, c.email, c.phone, c.address, c.active, c.created_at
		FROM shipment_details d
		JOIN shipments s ON s.id = d.shipment_id
		JOIN customers c ON c.id = s.customer_id
		WHERE d.lot_id = $1
		ORDER BY s.shipment_date DESC`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list shipments by lot: %w", err)
	}
	defer rows.Close()

	var out []*repository.LotShipment
	for rows.Next() {
		var d entity.ShipmentDetail
		var s entity.Shipment
		var c entity.Customer
		err := rows.Scan(
			&d.ID, &d.ShipmentID, &d.LotID, &d.Quantity, &d.Unit,
			&s.ID, &s.CustomerID, &s.ShipmentNumber, &s.ShipmentDate, &s.Notes, &s.CreatedAt,
			&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Active, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan shipment by lot: %w", err)
		}
		out = append(out, &repository.LotShipment{Detail: &d, Shipment: &s, Customer: &c})
	}
	return out, rows.Err()
}

// HasDetailsForLot indica si el lote aparece en algún envío.
func (r *ShipmentRepo) HasDetailsForLot(lotID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM shipment_details WHERE lot_id = $1)`, lotID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check shipment details: %w", err)
	}
	return exists, nil
}
