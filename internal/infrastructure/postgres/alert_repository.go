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

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, type, severity, product_id, lot_id, message, is_read, is_dismissed, created_at`

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(
		&a.ID, &a.Type, &a.Severity, &a.ProductID, &a.LotID,
		&a.Message, &a.IsRead, &a.IsDismissed, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return &a, nil
}

// Create persiste una alerta.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Type, alert.Severity, alert.ProductID, alert.LotID,
		alert.Message, alert.IsRead, alert.IsDismissed, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	return scanAlert(r.q.QueryRow(context.Background(), query, id))
}

// List lista alertas según filtro, las más graves y recientes primero.
func (r *AlertRepo) List(filter repository.AlertFilter) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE 1=1`
	args := []any{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		query += fmt.Sprintf(" AND is_read = $%d", len(args))
	}
	if filter.IsDismissed != nil {
		args = append(args, *filter.IsDismissed)
		query += fmt.Sprintf(" AND is_dismissed = $%d", len(args))
	}
	query += `
		ORDER BY CASE severity WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END,
		         created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountActive alertas ni leídas ni descartadas.
func (r *AlertRepo) CountActive() (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM alerts WHERE is_read = false AND is_dismissed = false`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return count, nil
}

// MarkRead marca una alerta como leída.
func (r *AlertRepo) MarkRead(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Dismiss descarta una alerta.
func (r *AlertRepo) Dismiss(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET is_dismissed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll vacía la tabla. Se usa al regenerar las alertas.
func (r *AlertRepo) DeleteAll() error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM alerts`)
	if err != nil {
		return fmt.Errorf("delete alerts: %w", err)
	}
	return nil
}
