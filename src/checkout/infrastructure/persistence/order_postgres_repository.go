package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"checkout/src/checkout/domain/entity"
	"checkout/src/shared/domain/criteria"
	infraCriteria "checkout/src/shared/infrastructure/criteria"

	"github.com/google/uuid"
)

// OrderPostgresRepository implementa OrderRepository usando PostgreSQL
type OrderPostgresRepository struct {
	db        *sql.DB
	converter *infraCriteria.SQLCriteriaConverter
}

// NewOrderPostgresRepository crea una nueva instancia del repositorio
func NewOrderPostgresRepository(db *sql.DB) *OrderPostgresRepository {
	return &OrderPostgresRepository{
		db:        db,
		converter: infraCriteria.NewSQLCriteriaConverter(),
	}
}

// Save persiste el aggregate completo (orden + items + shippings) en una
// sola transacción; durante el checkout la orden se re-guarda en cada
// paso, por lo que items y shippings se reemplazan completos
func (r *OrderPostgresRepository) Save(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Upsert de la orden (aggregate root)
	queryOrder := `
		INSERT INTO orders (
			order_id, tenant_id, customer_email, status, payment_method_id,
			subtotal, delivery_fee, tax, total, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (order_id) DO UPDATE SET
			customer_email    = EXCLUDED.customer_email,
			status            = EXCLUDED.status,
			payment_method_id = EXCLUDED.payment_method_id,
			subtotal          = EXCLUDED.subtotal,
			delivery_fee      = EXCLUDED.delivery_fee,
			tax               = EXCLUDED.tax,
			total             = EXCLUDED.total,
			updated_at        = EXCLUDED.updated_at
	`

	var paymentMethodID interface{}
	if order.PaymentMethodID != uuid.Nil {
		paymentMethodID = order.PaymentMethodID.String()
	}

	_, err = tx.ExecContext(ctx, queryOrder,
		order.OrderID,
		order.TenantID,
		order.CustomerEmail,
		order.Status,
		paymentMethodID,
		order.Subtotal,
		order.DeliveryFee,
		order.Tax,
		order.Total,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving order: %w", err)
	}

	// 2. Reemplazar shippings
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_shippings WHERE order_id = $1`, order.OrderID); err != nil {
		return fmt.Errorf("error clearing order shippings: %w", err)
	}

	queryShipping := `
		INSERT INTO order_shippings (
			shipping_id, order_id, name, phone, postal_code, address
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, shipping := range order.Shippings {
		_, err = tx.ExecContext(ctx, queryShipping,
			shipping.ShippingID,
			order.OrderID,
			shipping.Name,
			shipping.Phone,
			shipping.PostalCode,
			shipping.Address,
		)
		if err != nil {
			return fmt.Errorf("error saving order shipping: %w", err)
		}
	}

	// 3. Reemplazar items (entities dentro del aggregate)
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.OrderID); err != nil {
		return fmt.Errorf("error clearing order items: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (
			item_id, order_id, sku, product_name, quantity, unit_price,
			subtotal, shipping_id, product_snapshot
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, item := range order.Items {
		var shippingID interface{}
		if item.ShippingID != "" {
			shippingID = item.ShippingID
		}
		_, err = tx.ExecContext(ctx, queryItem,
			item.ItemID,
			order.OrderID,
			item.SKU,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
			shippingID,
			item.ProductSnapshot,
		)
		if err != nil {
			return fmt.Errorf("error saving order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// FindByID busca una orden con sus items y shippings (load aggregate)
func (r *OrderPostgresRepository) FindByID(ctx context.Context, orderID, tenantID string) (*entity.Order, error) {
	queryOrder := `
		SELECT order_id, tenant_id, customer_email, status,
		       COALESCE(payment_method_id::text, ''),
		       subtotal, delivery_fee, tax, total, created_at, updated_at
		FROM orders
		WHERE order_id = $1 AND tenant_id = $2
	`

	order := &entity.Order{}
	var paymentMethodID string
	err := r.db.QueryRowContext(ctx, queryOrder, orderID, tenantID).Scan(
		&order.OrderID,
		&order.TenantID,
		&order.CustomerEmail,
		&order.Status,
		&paymentMethodID,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Tax,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding order: %w", err)
	}

	if paymentMethodID != "" {
		if parsed, err := uuid.Parse(paymentMethodID); err == nil {
			order.PaymentMethodID = parsed
		}
	}

	if order.Shippings, err = r.loadShippings(ctx, orderID); err != nil {
		return nil, err
	}
	if order.Items, err = r.loadItems(ctx, orderID); err != nil {
		return nil, err
	}

	return order, nil
}

// List retorna las órdenes de un tenant aplicando criteria
// (filtros, ordenamiento y paginación sanitizados por el controller)
func (r *OrderPostgresRepository) List(ctx context.Context, tenantID string, crit criteria.Criteria) ([]*entity.Order, int, error) {
	// 1. Contar total con los mismos filtros
	baseCount := `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`
	countQuery, countParams := r.converter.ToCountSQL(baseCount, 2, crit)

	var totalCount int
	params := append([]interface{}{tenantID}, countParams...)
	if err := r.db.QueryRowContext(ctx, countQuery, params...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("error counting orders: %w", err)
	}

	// 2. Obtener órdenes paginadas
	baseQuery := `
		SELECT order_id, tenant_id, customer_email, status,
		       COALESCE(payment_method_id::text, ''),
		       subtotal, delivery_fee, tax, total, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1
	`
	selectQuery, selectParams := r.converter.ToSelectSQL(baseQuery, 2, crit)

	params = append([]interface{}{tenantID}, selectParams...)
	rows, err := r.db.QueryContext(ctx, selectQuery, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order := &entity.Order{}
		var paymentMethodID string
		err := rows.Scan(
			&order.OrderID,
			&order.TenantID,
			&order.CustomerEmail,
			&order.Status,
			&paymentMethodID,
			&order.Subtotal,
			&order.DeliveryFee,
			&order.Tax,
			&order.Total,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning order: %w", err)
		}
		if paymentMethodID != "" {
			if parsed, err := uuid.Parse(paymentMethodID); err == nil {
				order.PaymentMethodID = parsed
			}
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	// 3. Cargar items de cada orden
	for _, order := range orders {
		if order.Items, err = r.loadItems(ctx, order.OrderID); err != nil {
			return nil, 0, fmt.Errorf("error loading items for order %s: %w", order.OrderID, err)
		}
	}

	return orders, totalCount, nil
}

// Confirm actualiza el estado de una orden a CONFIRMED
func (r *OrderPostgresRepository) Confirm(ctx context.Context, orderID, tenantID string) error {
	return r.transition(ctx, orderID, tenantID, entity.OrderStatusProcessing, entity.OrderStatusConfirmed)
}

// Complete actualiza el estado de una orden a COMPLETED
func (r *OrderPostgresRepository) Complete(ctx context.Context, orderID, tenantID string) error {
	return r.transition(ctx, orderID, tenantID, entity.OrderStatusConfirmed, entity.OrderStatusCompleted)
}

// Cancel actualiza el estado de una orden a CANCELED
func (r *OrderPostgresRepository) Cancel(ctx context.Context, orderID, tenantID string) error {
	query := `
		UPDATE orders
		SET status = 'CANCELED', updated_at = NOW()
		WHERE order_id = $1 AND tenant_id = $2 AND status != 'COMPLETED'
	`
	result, err := r.db.ExecContext(ctx, query, orderID, tenantID)
	if err != nil {
		return fmt.Errorf("error canceling order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("order not found or already COMPLETED")
	}
	return nil
}

// transition cambia el estado guardando por el estado actual; si otra
// request ya movió la orden, rowsAffected es 0 y la transición falla
func (r *OrderPostgresRepository) transition(ctx context.Context, orderID, tenantID string, from, to entity.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE order_id = $1 AND tenant_id = $2 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, orderID, tenantID, to, from)
	if err != nil {
		return fmt.Errorf("error updating order status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("order not found or not in %s state", from)
	}
	return nil
}

func (r *OrderPostgresRepository) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT item_id, order_id, sku, product_name, quantity, unit_price,
		       subtotal, COALESCE(shipping_id::text, ''), product_snapshot
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("error finding order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(
			&item.ItemID,
			&item.OrderID,
			&item.SKU,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.ShippingID,
			&item.ProductSnapshot,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderPostgresRepository) loadShippings(ctx context.Context, orderID string) ([]entity.Shipping, error) {
	query := `
		SELECT shipping_id, order_id, name, phone, postal_code, address
		FROM order_shippings
		WHERE order_id = $1
		ORDER BY shipping_id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("error finding order shippings: %w", err)
	}
	defer rows.Close()

	var shippings []entity.Shipping
	for rows.Next() {
		var shipping entity.Shipping
		err := rows.Scan(
			&shipping.ShippingID,
			&shipping.OrderID,
			&shipping.Name,
			&shipping.Phone,
			&shipping.PostalCode,
			&shipping.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning order shipping: %w", err)
		}
		shippings = append(shippings, shipping)
	}
	return shippings, rows.Err()
}
