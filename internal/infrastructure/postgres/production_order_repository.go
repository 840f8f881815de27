package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo implementación del puerto ProductionOrderRepository
// sobre PostgreSQL (usable con pool o tx). Las órdenes del esquema antiguo
// de un solo producto (columnas legacy_*) se normalizan al leerlas como
// una línea de acabado sintética con Legacy=true.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const orderColumns = `id, order_number, base_product_name, base_lot_number, production_date, expiration_date, status, notes, created_at, closed_at, legacy_product_id, legacy_lot_id`

type orderRow struct {
	entity.ProductionOrder
	legacyProductID *string
	legacyLotID     *string
}

func scanOrder(row pgx.Row) (*orderRow, error) {
	var o orderRow
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.BaseProductName, &o.BaseLotNumber, &o.ProductionDate,
		&o.ExpirationDate, &o.Status, &o.Notes, &o.CreatedAt, &o.ClosedAt,
		&o.legacyProductID, &o.legacyLotID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan production order: %w", err)
	}
	return &o, nil
}

// legacyLineID identificador estable de la línea sintética de una orden
// del esquema antiguo.
func legacyLineID(orderID string) string { return "legacy-" + orderID }

func (o *orderRow) toEntity() *entity.ProductionOrder {
	order := o.ProductionOrder
	if len(order.FinishedProducts) == 0 && o.legacyProductID != nil {
		order.FinishedProducts = []*entity.OrderFinishedProduct{{
			ID:        legacyLineID(order.ID),
			OrderID:   order.ID,
			ProductID: *o.legacyProductID,
			LotNumber: order.BaseLotNumber,
			LotID:     o.legacyLotID,
			Legacy:    true,
			CreatedAt: order.CreatedAt,
		}}
	}
	return &order
}

// Create persiste cabecera y líneas de acabado en sus tablas.
func (r *ProductionOrderRepo) Create(order *entity.ProductionOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO production_orders
			(id, order_number, base_product_name, base_lot_number, production_date, expiration_date, status, notes, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNumber, order.BaseProductName, order.BaseLotNumber,
		order.ProductionDate, order.ExpirationDate, order.Status, order.Notes,
		order.CreatedAt, order.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production order: %w", err)
	}
	for _, line := range order.FinishedProducts {
		if err := r.insertFinishedProduct(ctx, line); err != nil {
			return err
		}
	}
	for _, material := range order.Materials {
		if err := r.AddMaterial(material); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductionOrderRepo) insertFinishedProduct(ctx context.Context, line *entity.OrderFinishedProduct) error {
	query := `
		INSERT INTO order_finished_products
			(id, order_id, product_id, lot_number, target_quantity, produced_qty, unit, expiration_date, lot_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.OrderID, line.ProductID, line.LotNumber, line.TargetQuantity,
		line.ProducedQty, line.Unit, line.ExpirationDate, line.LotID, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert finished product line: %w", err)
	}
	return nil
}

// GetByID obtiene una orden con sus líneas y materiales.
func (r *ProductionOrderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene una orden bloqueando la cabecera (SELECT FOR UPDATE).
func (r *ProductionOrderRepo) GetForUpdate(id string) (*entity.ProductionOrder, error) {
	return r.get(id, true)
}

func (r *ProductionOrderRepo) get(id string, forUpdate bool) (*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	row, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(row); err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// GetByOrderNumber obtiene una orden por su número.
func (r *ProductionOrderRepo) GetByOrderNumber(orderNumber string) (*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders WHERE order_number = $1`
	row, err := scanOrder(r.q.QueryRow(context.Background(), query, orderNumber))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(row); err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *ProductionOrderRepo) loadLines(row *orderRow) error {
	lines, err := r.listFinishedProducts(row.ID)
	if err != nil {
		return err
	}
	row.FinishedProducts = lines
	materials, err := r.listMaterials(row.ID)
	if err != nil {
		return err
	}
	row.Materials = materials
	return nil
}

const finishedProductColumns = `id, order_id, product_id, lot_number, target_quantity, produced_qty, unit, expiration_date, lot_id, created_at`

func scanFinishedProduct(row pgx.Row) (*entity.OrderFinishedProduct, error) {
	var line entity.OrderFinishedProduct
	err := row.Scan(
		&line.ID, &line.OrderID, &line.ProductID, &line.LotNumber, &line.TargetQuantity,
		&line.ProducedQty, &line.Unit, &line.ExpirationDate, &line.LotID, &line.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan finished product line: %w", err)
	}
	return &line, nil
}

func (r *ProductionOrderRepo) listFinishedProducts(orderID string) ([]*entity.OrderFinishedProduct, error) {
	query := `
		SELECT ` + finishedProductColumns + ` FROM order_finished_products
		WHERE order_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list finished product lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderFinishedProduct
	for rows.Next() {
		line, err := scanFinishedProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

const materialColumns = `id, order_id, lot_id, quantity_consumed, unit, original_quantity, original_unit, related_finished_product_id`

func scanMaterial(row pgx.Row) (*entity.OrderMaterial, error) {
	var m entity.OrderMaterial
	err := row.Scan(
		&m.ID, &m.OrderID, &m.LotID, &m.QuantityConsumed, &m.Unit,
		&m.OriginalQuantity, &m.OriginalUnit, &m.RelatedFinishedProductID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan order material: %w", err)
	}
	return &m, nil
}

func (r *ProductionOrderRepo) listMaterials(orderID string) ([]*entity.OrderMaterial, error) {
	query := `
		SELECT ` + materialColumns + ` FROM order_materials
		WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order materials: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List lista órdenes por estado (vacío = todas), más recientes primero.
// Solo cabeceras con sus líneas de acabado; los materiales se cargan al
// pedir la orden concreta.
func (r *ProductionOrderRepo) List(status entity.OrderStatus) ([]*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()

	var headers []*orderRow
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entity.ProductionOrder, 0, len(headers))
	for _, header := range headers {
		lines, err := r.listFinishedProducts(header.ID)
		if err != nil {
			return nil, err
		}
		header.FinishedProducts = lines
		out = append(out, header.toEntity())
	}
	return out, nil
}

// UpdateHeader actualiza la cabecera de una orden.
func (r *ProductionOrderRepo) UpdateHeader(order *entity.ProductionOrder) error {
	query := `
		UPDATE production_orders
		SET base_product_name = $2, base_lot_number = $3, production_date = $4,
		    expiration_date = $5, notes = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		order.ID, order.BaseProductName, order.BaseLotNumber, order.ProductionDate,
		order.ExpirationDate, order.Notes,
	)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetClosed marca la orden como cerrada.
func (r *ProductionOrderRepo) SetClosed(orderID string, closedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE production_orders SET status = $2, closed_at = $3 WHERE id = $1`,
		orderID, entity.OrderStatusClosed, closedAt)
	if err != nil {
		return fmt.Errorf("close production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddMaterial persiste una línea de material.
func (r *ProductionOrderRepo) AddMaterial(material *entity.OrderMaterial) error {
	query := `
		INSERT INTO order_materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.OrderID, material.LotID, material.QuantityConsumed,
		material.Unit, material.OriginalQuantity, material.OriginalUnit,
		material.RelatedFinishedProductID,
	)
	if err != nil {
		return fmt.Errorf("insert order material: %w", err)
	}
	return nil
}

// GetMaterial obtiene una línea de material de una orden.
func (r *ProductionOrderRepo) GetMaterial(orderID, materialID string) (*entity.OrderMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM order_materials WHERE order_id = $1 AND id = $2`
	return scanMaterial(r.q.QueryRow(context.Background(), query, orderID, materialID))
}


// DeleteMaterial elimina una línea de material.
func (r *ProductionOrderRepo) DeleteMaterial(materialID string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM order_materials WHERE id = $1`, materialID)
	if err != nil {
		return fmt.Errorf("delete order material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMaterialsByLot líneas de material de cualquier orden que consumen un lote.
func (r *ProductionOrderRepo) ListMaterialsByLot(lotID string) ([]*entity.OrderMaterial, error) {
	query := `SELECT ` + materialColumns + ` FROM order_materials WHERE lot_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list materials by lot: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetFinishedProductResult fija lote creado y cantidad producida de una línea.
func (r *ProductionOrderRepo) SetFinishedProductResult(lineID, lotID string, producedQty decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE order_finished_products SET lot_id = $2, produced_qty = $3 WHERE id = $1`,
		lineID, lotID, producedQty)
	if err != nil {
		return fmt.Errorf("set finished product result: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindFinishedProductByLotID línea de acabado con referencia directa al
// lote. Cubre también las órdenes del esquema antiguo (legacy_lot_id).
func (r *ProductionOrderRepo) FindFinishedProductByLotID(lotID string) (*entity.OrderFinishedProduct, error) {
	query := `
		SELECT ` + finishedProductColumns + ` FROM order_finished_products
		WHERE lot_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	line, err := scanFinishedProduct(r.q.QueryRow(context.Background(), query, lotID))
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.findLegacyLine(`legacy_lot_id = $1`, lotID)
}

// FindFinishedProductByProductAndNumber resolución por (producto, número
// de lote): determinista, la línea más antigua primero. Cubre también las
// órdenes del esquema antiguo.
func (r *ProductionOrderRepo) FindFinishedProductByProductAndNumber(productID, lotNumber string) (*entity.OrderFinishedProduct, error) {
	query := `
		SELECT ` + finishedProductColumns + ` FROM order_finished_products
		WHERE product_id = $1 AND lot_number = $2
		ORDER BY created_at ASC, id ASC LIMIT 1`
	line, err := scanFinishedProduct(r.q.QueryRow(context.Background(), query, productID, lotNumber))
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.findLegacyLine(`legacy_product_id = $1 AND base_lot_number = $2`, productID, lotNumber)
}

func (r *ProductionOrderRepo) findLegacyLine(where string, args ...any) (*entity.OrderFinishedProduct, error) {
	query := `
		SELECT ` + orderColumns + ` FROM production_orders
		WHERE ` + where + ` ORDER BY created_at ASC LIMIT 1`
	row, err := scanOrder(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		return nil, err
	}
	order := row.toEntity()
	if len(order.FinishedProducts) == 0 {
		return nil, domain.ErrNotFound
	}
	return order.FinishedProducts[0], nil
}

// LastOrderNumberWithPrefix último número de orden con el prefijo dado.
// Vacío si no hay ninguno.
func (r *ProductionOrderRepo) LastOrderNumberWithPrefix(prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT order_number FROM production_orders WHERE order_number LIKE $1 || '%'
		 ORDER BY order_number DESC LIMIT 1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return last, nil
}

// Delete elimina la orden y, en cascada explícita, sus líneas.
func (r *ProductionOrderRepo) Delete(orderID string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM order_materials WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order materials: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_finished_products WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete finished product lines: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM production_orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
