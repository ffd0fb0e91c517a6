package cache

import (
	"database/sql"
	"log"
	"sync"

	"github.com/google/uuid"
)

// PaymentMethod representa un método de pago en el cache
type PaymentMethod struct {
	ID   uuid.UUID
	Code string
	Name string
}

// PaymentMethodCache cache en memoria de métodos de pago globales
// El controller resuelve el adapter de pago por el Code del método
type PaymentMethodCache struct {
	methods map[uuid.UUID]PaymentMethod
	mu      sync.RWMutex
}

// NewPaymentMethodCache crea un nuevo cache de métodos de pago
func NewPaymentMethodCache() *PaymentMethodCache {
	return &PaymentMethodCache{
		methods: make(map[uuid.UUID]PaymentMethod),
	}
}

// LoadFromDB carga los métodos de pago activos desde la base de datos
func (c *PaymentMethodCache) LoadFromDB(db *sql.DB) error {
	log.Println("🔄 Loading payment methods into cache...")

	query := `
		SELECT id, code, name
		FROM payment_methods
		WHERE is_active = true
	`

	rows, err := db.Query(query)
	if err != nil {
		log.Printf("⚠️  Warning: Could not load payment methods: %v", err)
		return err
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var pm PaymentMethod
		err := rows.Scan(&pm.ID, &pm.Code, &pm.Name)
		if err != nil {
			log.Printf("⚠️  Error scanning payment method: %v", err)
			continue
		}
		c.methods[pm.ID] = pm
		count++
	}

	log.Printf("✅ Loaded %d payment methods into cache", count)
	return nil
}

// Get obtiene un método de pago por ID
func (c *PaymentMethodCache) Get(id uuid.UUID) (PaymentMethod, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pm, ok := c.methods[id]
	return pm, ok
}

// GetCode obtiene el code de un método de pago por ID
func (c *PaymentMethodCache) GetCode(id uuid.UUID) (string, bool) {
	pm, ok := c.Get(id)
	return pm.Code, ok
}
