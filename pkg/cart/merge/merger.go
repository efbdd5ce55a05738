package merge

import (
	"context"
	"fmt"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/cart/scope"
	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"

	"github.com/google/uuid"
)

// Merger folds a shopper's anonymous cart into their user cart exactly once
// per (tenant, user). Duplicate triggers (double-fired login effects,
// hydration races) converge on a single merge via the persisted marker,
// whose unique insert runs in the same transaction as the cart writes.
type Merger struct {
	logger logger.ILogger
	events *pktNats.Publisher
}

func NewMerger(sysLogger logger.ILogger, eventPublisher *pktNats.Publisher) *Merger {
	return &Merger{
		logger: sysLogger,
		events: eventPublisher,
	}
}

// Merge reconciles the anonymous cart identified by deviceId into the cart
// of userId under tenantSlug. Idempotent; a failed run leaves the anonymous
// cart untouched so a retry converges to the same result.
func (m *Merger) Merge(ctx context.Context, uow unitofwork.UnitOfWork, tenantSlug, userId, deviceId string) error {
	userUUID, err := uuid.Parse(userId)
	if err != nil {
		return fmt.Errorf("merge requires a valid user id: %w", err)
	}

	// 1. Derive both scopes
	anonScope := scope.Build(tenantSlug, "", deviceId)
	userScope := scope.Build(tenantSlug, userId, "")
	if anonScope.Key() == userScope.Key() {
		return nil
	}
	if anonScope.IsPendingFallback() {
		m.logger.Warn("CART", "Merging the shared pending anonymous scope", map[string]interface{}{
			"tenantKey": anonScope.TenantKey,
			"userId":    userId,
		})
	}

	// 2. Marker short-circuit
	merged, err := uow.MergeMarkerRepository().Exists(ctx, userScope.TenantKey, userUUID)
	if err != nil {
		return err
	}
	if merged {
		return nil
	}

	anonCart, err := uow.CartRepository().FindByScope(ctx, anonScope.Key())
	if err != nil {
		return err
	}

	// 3. Union, clear, and marker in one transaction
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	userCart, err := uow.CartRepository().FindByScope(ctx, userScope.Key())
	if err != nil {
		return err
	}

	target := m.union(userScope, userCart, anonCart)
	if err := uow.CartRepository().Save(ctx, target); err != nil {
		return err
	}
	if err := uow.CartRepository().ClearByScope(ctx, anonScope.Key()); err != nil {
		return err
	}

	created, err := uow.MergeMarkerRepository().Create(ctx, userScope.TenantKey, userUUID)
	if err != nil {
		return err
	}
	if !created {
		// A concurrent merge won the marker insert; drop this attempt.
		return nil
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	m.logger.Info("CART", "Merged anonymous cart into user cart", map[string]interface{}{
		"tenantKey": userScope.TenantKey,
		"userId":    userId,
		"anonScope": anonScope.Key(),
		"userScope": userScope.Key(),
		"lineItems": len(target.Items),
	})

	if m.events != nil {
		evt := events.BaseEvent{
			Type: "CART_MERGED",
			Data: map[string]interface{}{
				"tenant_key":  userScope.TenantKey,
				"user_id":     userId,
				"user_scope":  userScope.Key(),
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := m.events.Publish(ctx, evt); err != nil {
			m.logger.Warn("CART", "Failed to publish CART_MERGED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

// union sums quantities for products present in both carts and copies lines
// only the anonymous cart has.
func (m *Merger) union(userScope scope.CartScope, userCart, anonCart *entity.Cart) *entity.Cart {
	target := &entity.Cart{
		ScopeKey:  userScope.Key(),
		TenantKey: userScope.TenantKey,
	}

	quantities := make(map[string]int)
	addedAt := make(map[string]time.Time)
	var order []string

	collect := func(cart *entity.Cart) {
		if cart == nil {
			return
		}
		for _, it := range cart.Items {
			if _, seen := quantities[it.ProductID]; !seen {
				order = append(order, it.ProductID)
				addedAt[it.ProductID] = it.AddedAt
			}
			quantities[it.ProductID] += it.Quantity
		}
	}
	collect(userCart)
	collect(anonCart)

	for _, productId := range order {
		target.Items = append(target.Items, entity.CartItem{
			ProductID: productId,
			Quantity:  quantities[productId],
			AddedAt:   addedAt[productId],
		})
	}
	return target
}
