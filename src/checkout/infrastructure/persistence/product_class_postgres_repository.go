package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"checkout/src/checkout/domain/entity"

	"github.com/lib/pq"
)

// ProductClassPostgresRepository implementa ProductClassRepository
// usando PostgreSQL
// Las operaciones de stock son UPDATEs condicionales de una sola
// sentencia: la condición en el WHERE elimina la race condition entre
// checkouts concurrentes sin necesidad de SELECT FOR UPDATE
type ProductClassPostgresRepository struct {
	db *sql.DB
}

// NewProductClassPostgresRepository crea una nueva instancia del repositorio
func NewProductClassPostgresRepository(db *sql.DB) *ProductClassPostgresRepository {
	return &ProductClassPostgresRepository{db: db}
}

// FindBySKU busca una variante por SKU
func (r *ProductClassPostgresRepository) FindBySKU(ctx context.Context, tenantID, sku string) (*entity.ProductClass, error) {
	query := `
		SELECT sku, tenant_id, product_name, price, stock, reserved, sale_limit
		FROM product_classes
		WHERE tenant_id = $1 AND sku = $2
	`

	pc := &entity.ProductClass{}
	var saleLimit sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, tenantID, sku).Scan(
		&pc.SKU,
		&pc.TenantID,
		&pc.ProductName,
		&pc.Price,
		&pc.Stock,
		&pc.Reserved,
		&saleLimit,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrProductClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding product_class: %w", err)
	}

	if saleLimit.Valid {
		limit := int(saleLimit.Int64)
		pc.SaleLimit = &limit
	}
	return pc, nil
}

// FindBySKUs busca varias variantes en una sola consulta
// Retorna un mapa SKU → variante; los SKU inexistentes simplemente no
// aparecen en el mapa
func (r *ProductClassPostgresRepository) FindBySKUs(ctx context.Context, tenantID string, skus []string) (map[string]*entity.ProductClass, error) {
	result := make(map[string]*entity.ProductClass, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	query := `
		SELECT sku, tenant_id, product_name, price, stock, reserved, sale_limit
		FROM product_classes
		WHERE tenant_id = $1 AND sku = ANY($2)
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, pq.Array(skus))
	if err != nil {
		return nil, fmt.Errorf("error finding product_classes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pc := &entity.ProductClass{}
		var saleLimit sql.NullInt64
		err := rows.Scan(
			&pc.SKU,
			&pc.TenantID,
			&pc.ProductName,
			&pc.Price,
			&pc.Stock,
			&pc.Reserved,
			&saleLimit,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product_class: %w", err)
		}
		if saleLimit.Valid {
			limit := int(saleLimit.Int64)
			pc.SaleLimit = &limit
		}
		result[pc.SKU] = pc
	}

	return result, rows.Err()
}

// Reserve aparta stock para un checkout en curso
// Retorna false si no hay stock disponible suficiente
func (r *ProductClassPostgresRepository) Reserve(ctx context.Context, tenantID, sku string, quantity int) (bool, error) {
	query := `
		UPDATE product_classes
		SET reserved = reserved + $3
		WHERE tenant_id = $1 AND sku = $2 AND stock - reserved >= $3
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, sku, quantity)
	if err != nil {
		return false, fmt.Errorf("error reserving stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// Release libera una reserva (rollback de checkout)
func (r *ProductClassPostgresRepository) Release(ctx context.Context, tenantID, sku string, quantity int) error {
	// GREATEST evita que reserved quede negativo si se compensa dos veces
	query := `
		UPDATE product_classes
		SET reserved = GREATEST(reserved - $3, 0)
		WHERE tenant_id = $1 AND sku = $2
	`

	_, err := r.db.ExecContext(ctx, query, tenantID, sku, quantity)
	if err != nil {
		return fmt.Errorf("error releasing stock: %w", err)
	}
	return nil
}

// Consume descuenta stock reservado (commit de checkout)
func (r *ProductClassPostgresRepository) Consume(ctx context.Context, tenantID, sku string, quantity int) error {
	query := `
		UPDATE product_classes
		SET stock = stock - $3, reserved = GREATEST(reserved - $3, 0)
		WHERE tenant_id = $1 AND sku = $2 AND reserved >= $3
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, sku, quantity)
	if err != nil {
		return fmt.Errorf("error consuming stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("no reserved stock to consume for SKU %s", sku)
	}
	return nil
}
