package merge_test

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/pkg/cart/merge"
	"marketplace-be/pkg/cart/scope"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markerKey struct {
	tenantKey string
	userId    uuid.UUID
}

// fakeUnitOfWork backs the merger with in-memory carts and markers.
type fakeUnitOfWork struct {
	carts   map[string]*entity.Cart
	markers map[markerKey]bool
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		carts:   make(map[string]*entity.Cart),
		markers: make(map[markerKey]bool),
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository { return nil }
func (u *fakeUnitOfWork) CartRepository() contract.CartRepository   { return &fakeCartRepo{u} }
func (u *fakeUnitOfWork) MergeMarkerRepository() contract.MergeMarkerRepository {
	return &fakeMarkerRepo{u}
}
func (u *fakeUnitOfWork) RefundLedgerRepository() contract.RefundLedgerRepository { return nil }
func (u *fakeUnitOfWork) RefundRecordRepository() contract.RefundRecordRepository { return nil }

type fakeCartRepo struct{ u *fakeUnitOfWork }

func (r *fakeCartRepo) FindByScope(ctx context.Context, scopeKey string) (*entity.Cart, error) {
	return r.u.carts[scopeKey], nil
}

func (r *fakeCartRepo) Save(ctx context.Context, cart *entity.Cart) error {
	cp := *cart
	cp.UpdatedAt = time.Now()
	r.u.carts[cart.ScopeKey] = &cp
	return nil
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, scopeKey, tenantKey, productID string, quantity int) error {
	cart, ok := r.u.carts[scopeKey]
	if !ok {
		cart = &entity.Cart{ID: uuid.New(), ScopeKey: scopeKey, TenantKey: tenantKey}
		r.u.carts[scopeKey] = cart
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	cart.Items = append(cart.Items, entity.CartItem{ProductID: productID, Quantity: quantity, AddedAt: time.Now()})
	return nil
}

func (r *fakeCartRepo) ClearByScope(ctx context.Context, scopeKey string) error {
	if cart, ok := r.u.carts[scopeKey]; ok {
		cart.Items = nil
	}
	return nil
}

type fakeMarkerRepo struct{ u *fakeUnitOfWork }

func (r *fakeMarkerRepo) Exists(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error) {
	return r.u.markers[markerKey{tenantKey, userId}], nil
}

func (r *fakeMarkerRepo) Create(ctx context.Context, tenantKey string, userId uuid.UUID) (bool, error) {
	key := markerKey{tenantKey, userId}
	if r.u.markers[key] {
		return false, nil
	}
	r.u.markers[key] = true
	return true, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func seedCart(u *fakeUnitOfWork, sc scope.CartScope, items ...entity.CartItem) {
	u.carts[sc.Key()] = &entity.Cart{
		ID:        uuid.New(),
		ScopeKey:  sc.Key(),
		TenantKey: sc.TenantKey,
		Items:     items,
	}
}

func TestMerge_SumsOverlappingQuantities(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New().String()
	deviceId := "dev-1"

	anonScope := scope.Build("acme-store", "", deviceId)
	userScope := scope.Build("acme-store", userId, "")

	seedCart(uow, anonScope,
		entity.CartItem{ProductID: "prodX", Quantity: 2, AddedAt: time.Now().Add(-time.Hour)},
		entity.CartItem{ProductID: "prodY", Quantity: 1, AddedAt: time.Now()},
	)
	seedCart(uow, userScope,
		entity.CartItem{ProductID: "prodX", Quantity: 1, AddedAt: time.Now().Add(-2 * time.Hour)},
	)

	merger := merge.NewMerger(nopLogger{}, nil)
	require.NoError(t, merger.Merge(context.Background(), uow, "acme-store", userId, deviceId))

	merged := uow.carts[userScope.Key()]
	require.NotNil(t, merged)
	qty := merged.QuantityByProduct()
	assert.Equal(t, 3, qty["prodX"])
	assert.Equal(t, 1, qty["prodY"])

	// The anonymous cart is emptied, not deleted.
	anon := uow.carts[anonScope.Key()]
	require.NotNil(t, anon)
	assert.Empty(t, anon.Items)
}

func TestMerge_IsIdempotent(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New().String()
	deviceId := "dev-1"

	anonScope := scope.Build("acme-store", "", deviceId)
	userScope := scope.Build("acme-store", userId, "")

	seedCart(uow, anonScope, entity.CartItem{ProductID: "prodX", Quantity: 2, AddedAt: time.Now()})

	merger := merge.NewMerger(nopLogger{}, nil)
	require.NoError(t, merger.Merge(context.Background(), uow, "acme-store", userId, deviceId))
	assert.Equal(t, 2, uow.carts[userScope.Key()].QuantityByProduct()["prodX"])

	// A later anonymous cart on the same device must not be folded in again.
	seedCart(uow, anonScope, entity.CartItem{ProductID: "prodX", Quantity: 5, AddedAt: time.Now()})

	require.NoError(t, merger.Merge(context.Background(), uow, "acme-store", userId, deviceId))
	assert.Equal(t, 2, uow.carts[userScope.Key()].QuantityByProduct()["prodX"])
	assert.Equal(t, 5, uow.carts[anonScope.Key()].QuantityByProduct()["prodX"])
}

func TestMerge_EmptyAnonymousCartStillMarks(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New().String()
	userUUID := uuid.MustParse(userId)

	userScope := scope.Build("acme-store", userId, "")
	seedCart(uow, userScope, entity.CartItem{ProductID: "prodZ", Quantity: 1, AddedAt: time.Now()})

	merger := merge.NewMerger(nopLogger{}, nil)
	require.NoError(t, merger.Merge(context.Background(), uow, "acme-store", userId, "dev-1"))

	assert.Equal(t, 1, uow.carts[userScope.Key()].QuantityByProduct()["prodZ"])
	assert.True(t, uow.markers[markerKey{"acme-store", userUUID}])
}

func TestMerge_GlobalTenantScopes(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New().String()
	deviceId := "dev-9"

	anonScope := scope.Build("", "", deviceId)
	seedCart(uow, anonScope, entity.CartItem{ProductID: "prodG", Quantity: 1, AddedAt: time.Now()})

	merger := merge.NewMerger(nopLogger{}, nil)
	require.NoError(t, merger.Merge(context.Background(), uow, "", userId, deviceId))

	userScope := scope.Build("", userId, "")
	require.NotNil(t, uow.carts[userScope.Key()])
	assert.Equal(t, 1, uow.carts[userScope.Key()].QuantityByProduct()["prodG"])
}

func TestMerge_RejectsInvalidUserId(t *testing.T) {
	uow := newFakeUnitOfWork()
	merger := merge.NewMerger(nopLogger{}, nil)

	err := merger.Merge(context.Background(), uow, "acme-store", "not-a-uuid", "dev-1")
	require.Error(t, err)
	assert.Empty(t, uow.markers)
}

func TestMerge_ExistingMarkerShortCircuits(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New().String()
	userUUID := uuid.MustParse(userId)
	deviceId := "dev-1"

	uow.markers[markerKey{"acme-store", userUUID}] = true

	anonScope := scope.Build("acme-store", "", deviceId)
	seedCart(uow, anonScope, entity.CartItem{ProductID: "prodX", Quantity: 4, AddedAt: time.Now()})

	merger := merge.NewMerger(nopLogger{}, nil)
	require.NoError(t, merger.Merge(context.Background(), uow, "acme-store", userId, deviceId))

	// Marker already present: the anonymous cart stays untouched and no user
	// cart is created.
	assert.Equal(t, 4, uow.carts[anonScope.Key()].QuantityByProduct()["prodX"])
	userScope := scope.Build("acme-store", userId, "")
	assert.Nil(t, uow.carts[userScope.Key()])
}
