package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkout/src/checkout/domain/entity"

	"github.com/redis/go-redis/v9"
)

const (
	cartTTL    = 24 * time.Hour
	sessionTTL = 2 * time.Hour
)

// CartRedisRepository implementa CartRepository usando Redis
// El carrito se guarda como JSON bajo cart:<tenant>:<cart_key> con TTL
type CartRedisRepository struct {
	client *redis.Client
}

// NewCartRedisRepository crea una nueva instancia del repositorio
func NewCartRedisRepository(client *redis.Client) *CartRedisRepository {
	return &CartRedisRepository{client: client}
}

// Get obtiene el carrito; si no existe retorna un carrito vacío
func (r *CartRedisRepository) Get(ctx context.Context, tenantID, cartKey string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartRedisKey(tenantID, cartKey)).Result()
	if errors.Is(err, redis.Nil) {
		return &entity.Cart{CartKey: cartKey, TenantID: tenantID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching cart: %w", err)
	}

	var cart entity.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("error unmarshalling cart: %w", err)
	}
	return &cart, nil
}

// Save persiste el carrito renovando su TTL
func (r *CartRedisRepository) Save(ctx context.Context, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("error marshalling cart: %w", err)
	}

	key := cartRedisKey(cart.TenantID, cart.CartKey)
	if err := r.client.Set(ctx, key, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("error saving cart: %w", err)
	}
	return nil
}

// Delete elimina el carrito (fin del checkout)
func (r *CartRedisRepository) Delete(ctx context.Context, tenantID, cartKey string) error {
	if err := r.client.Del(ctx, cartRedisKey(tenantID, cartKey)).Err(); err != nil {
		return fmt.Errorf("error deleting cart: %w", err)
	}
	return nil
}

func cartRedisKey(tenantID, cartKey string) string {
	return fmt.Sprintf("cart:%s:%s", tenantID, cartKey)
}

// SessionRedisRepository implementa SessionRepository usando Redis
// La sesión liga cart_key y pre_order_id entre los pasos del checkout
type SessionRedisRepository struct {
	client *redis.Client
}

// NewSessionRedisRepository crea una nueva instancia del repositorio
func NewSessionRedisRepository(client *redis.Client) *SessionRedisRepository {
	return &SessionRedisRepository{client: client}
}

// Get obtiene la sesión de checkout
func (r *SessionRedisRepository) Get(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionRedisKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching session: %w", err)
	}

	var session entity.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("error unmarshalling session: %w", err)
	}
	return &session, nil
}

// Save persiste la sesión renovando su TTL
func (r *SessionRedisRepository) Save(ctx context.Context, session *entity.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshalling session: %w", err)
	}

	key := sessionRedisKey(session.SessionID)
	if err := r.client.Set(ctx, key, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

// Delete elimina la sesión (checkout completado)
func (r *SessionRedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionRedisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func sessionRedisKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
