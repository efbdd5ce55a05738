package scope

import (
	"fmt"
	"strings"
)

const (
	// GlobalTenantKey partitions carts that belong to no specific tenant.
	GlobalTenantKey = "__global__"

	// AnonPrefix namespaces anonymous user keys so a device id can never
	// collide with a real user id.
	AnonPrefix = "anon:"

	// PendingDeviceKey is the last-resort user key when neither a user id
	// nor a device id is available. Distinct shoppers collide on this key,
	// so upstream middleware must mint a device id before the cart is
	// touched; reaching this value is logged as a warning by callers.
	PendingDeviceKey = "pending"
)

// CartScope is the partition identity of a single cart. Two carts with the
// same Key() are the same cart.
type CartScope struct {
	TenantKey string
	UserKey   string
}

// Key serializes the scope as "<tenantKey>::<userKey>", the sole key used
// by cart storage. Stable across process restarts.
func (s CartScope) Key() string {
	return fmt.Sprintf("%s::%s", s.TenantKey, s.UserKey)
}

// IsPendingFallback reports whether the scope hit the no-user, no-device
// fallback path.
func (s CartScope) IsPendingFallback() bool {
	return s.UserKey == AnonPrefix+PendingDeviceKey
}

// Build derives the cart scope for the given tenant and shopper identity.
// Pure; safe for concurrent use.
func Build(tenantSlug, userId, deviceId string) CartScope {
	tenantKey := strings.TrimSpace(tenantSlug)
	if tenantKey == "" {
		tenantKey = GlobalTenantKey
	}

	userKey := strings.TrimSpace(userId)
	if userKey == "" {
		device := strings.TrimSpace(deviceId)
		if device == "" {
			device = PendingDeviceKey
		}
		userKey = AnonPrefix + device
	}

	return CartScope{TenantKey: tenantKey, UserKey: userKey}
}
