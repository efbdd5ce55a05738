package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// bindingTTL keeps stale device bindings from accumulating; a client that
// comes back later simply re-derives its scope from identity.
const bindingTTL = 30 * 24 * time.Hour

// ScopeBindingRepository stores the active cart-scope key per client so a
// device keeps targeting the merged user cart after login, even before its
// cookies are refreshed.
type ScopeBindingRepository struct {
	client *redis.Client
}

func NewScopeBindingRepository(client *redis.Client) *ScopeBindingRepository {
	return &ScopeBindingRepository{client: client}
}

func key(clientKey string) string {
	return fmt.Sprintf("cart:scope:%s", clientKey)
}

// Bind points clientKey (device id or guest session id) at scopeKey.
func (r *ScopeBindingRepository) Bind(ctx context.Context, clientKey, scopeKey string) error {
	return r.client.Set(ctx, key(clientKey), scopeKey, bindingTTL).Err()
}

// Get returns the bound scope key, or "" when none is bound.
func (r *ScopeBindingRepository) Get(ctx context.Context, clientKey string) (string, error) {
	val, err := r.client.Get(ctx, key(clientKey)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Unbind removes the binding for clientKey.
func (r *ScopeBindingRepository) Unbind(ctx context.Context, clientKey string) error {
	return r.client.Del(ctx, key(clientKey)).Err()
}
