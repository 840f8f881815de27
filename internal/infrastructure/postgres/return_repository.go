package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación del puerto ReturnRepository sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, customer_id, return_number, return_date, reason, notes, created_at`

func scanReturn(row pgx.Row) (*entity.Return, error) {
	var ret entity.Return
	err := row.Scan(&ret.ID, &ret.CustomerID, &ret.ReturnNumber, &ret.ReturnDate, &ret.Reason, &ret.Notes, &ret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan return: %w", err)
	}
	return &ret, nil
}

// Create persiste cabecera y detalles de la devolución.
func (r *ReturnRepo) Create(ret *entity.Return) error {
	ctx := context.Background()
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.CustomerID, ret.ReturnNumber, ret.ReturnDate, ret.Reason, ret.Notes, ret.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert return: %w", err)
	}
	for _, detail := range ret.Details {
		_, err := r.q.Exec(ctx,
			`INSERT INTO return_details (id, return_id, lot_id, quantity, unit)
			 VALUES ($1, $2, $3, $4, $5)`,
			detail.ID, detail.ReturnID, detail.LotID, detail.Quantity, detail.Unit)
		if err != nil {
			return fmt.Errorf("insert return detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una devolución con sus detalles.
func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	ret, err := scanReturn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, err
	}
	if ret.Details, err = r.listDetails(ret.ID); err != nil {
		return nil, err
	}
	return ret, nil
}

// GetByNumber obtiene una devolución por su número, con detalles.
func (r *ReturnRepo) GetByNumber(returnNumber string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE return_number = $1`
	ret, err := scanReturn(r.q.QueryRow(context.Background(), query, returnNumber))
	if err != nil {
		return nil, err
	}
	if ret.Details, err = r.listDetails(ret.ID); err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *ReturnRepo) listDetails(returnID string) ([]*entity.ReturnDetail, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, return_id, lot_id, quantity, unit FROM return_details
		 WHERE return_id = $1 ORDER BY id`, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return details: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReturnDetail
	for rows.Next() {
		var d entity.ReturnDetail
		if err := rows.Scan(&d.ID, &d.ReturnID, &d.LotID, &d.Quantity, &d.Unit); err != nil {
			return nil, fmt.Errorf("scan return detail: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// List lista devoluciones según filtro, más recientes primero.
func (r *ReturnRepo) List(filter repository.ReturnFilter) ([]*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE 1=1`
	args := []any{}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.Reason != "" {
		args = append(args, filter.Reason)
		query += fmt.Sprintf(" AND reason = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND return_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND return_date <= $%d", len(args))
	}
	query += ` ORDER BY return_date DESC, return_number DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var out []*entity.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ret := range out {
		if ret.Details, err = r.listDetails(ret.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListByLot devoluciones que contienen un lote, con el cliente resuelto
// (puede no haberlo en retiradas internas).
func (r *ReturnRepo) ListByLot(lotID string) ([]*repository.LotReturn, error) {
	query := `
		SELECT d.id, d.return_id, d.lot_id, d.quantity, d.unit,
		       ret.id, ret.customer_id, ret.return_number, ret.return_date, ret.reason, ret.notes, ret.created_at,
		       c.id, c.code, c.name, c.email, c.phone, c.address, c.active, c.created_at
		FROM return_details d
		JOIN returns ret ON ret.id = d.return_id
		LEFT JOIN customers c ON c.id = ret.customer_id
		WHERE d.lot_id = $1
		ORDER BY ret.return_date DESC`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list returns by lot: %w", err)
	}
	defer rows.Close()

	var out []*repository.LotReturn
	for rows.Next() {
		var d entity.ReturnDetail
		var ret entity.Return
		var cID, cCode, cName, cEmail, cPhone, cAddress *string
		var cActive *bool
		var cCreatedAt *time.Time
		err := rows.Scan(
			&d.ID, &d.ReturnID, &d.LotID, &d.Quantity, &d.Unit,
			&ret.ID, &ret.CustomerID, &ret.ReturnNumber, &ret.ReturnDate, &ret.Reason, &ret.Notes, &ret.CreatedAt,
			&cID, &cCode, &cName, &cEmail, &cPhone, &cAddress, &cActive, &cCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan return by lot: %w", err)
		}
		item := &repository.LotReturn{Detail: &d, Return: &ret}
		if cID != nil {
			item.Customer = &entity.Customer{
				ID: *cID, Code: *cCode, Name: *cName, Email: *cEmail,
				Phone: *cPhone, Address: *cAddress, Active: *cActive, CreatedAt: *cCreatedAt,
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// LastNumberWithPrefix último número de devolución con el prefijo dado.
// Vacío si no hay ninguno.
func (r *ReturnRepo) LastNumberWithPrefix(prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT return_number FROM returns WHERE return_number LIKE $1 || '%'
		 ORDER BY return_number DESC LIMIT 1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last return number: %w", err)
	}
	return last, nil
}
