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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de clientes. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, code, name, email, phone, address, active, created_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}

// Create persiste un cliente nuevo.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Code, customer.Name, customer.Email,
		customer.Phone, customer.Address, customer.Active, customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un cliente por código.
func (r *CustomerRepo) GetByCode(code string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE code = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, code))
}

// List lista clientes ordenados por código.
func (r *CustomerRepo) List(activeOnly bool) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY code`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LastCodeWithPrefix último código de cliente con el prefijo dado.
// Vacío si no hay ninguno.
func (r *CustomerRepo) LastCodeWithPrefix(prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT code FROM customers WHERE code LIKE $1 || '%'
		 ORDER BY code DESC LIMIT 1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last customer code: %w", err)
	}
	return last, nil
}
