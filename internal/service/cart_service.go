package service

import (
	"context"
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/memory"
	"marketplace-be/internal/repository/redisstore"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/cart/identity"
	"marketplace-be/pkg/cart/merge"
	"marketplace-be/pkg/cart/scope"
)

// ErrUnresolvedIdentity means neither a session nor a device cookie was
// present; the request cannot be tied to any cart.
var ErrUnresolvedIdentity = errors.New("cart identity unresolved: no session and no device cookie")

type ICartService interface {
	ResolveIdentity(sessionId string, cookies identity.Cookies) identity.Identity
	GetCart(ctx context.Context, tenantSlug string, ident identity.Identity) (*dto.CartResponse, error)
	SetItem(ctx context.Context, tenantSlug string, ident identity.Identity, req *dto.SetCartItemRequest) (*dto.CartResponse, error)
	MergeOnLogin(ctx context.Context, tenantSlug string, ident identity.Identity) (*dto.MergeCartResponse, error)
}

type cartService struct {
	uowFactory unitofwork.RepositoryFactory
	merger     *merge.Merger
	sessions   *memory.SessionRepository
	bindings   *redisstore.ScopeBindingRepository
	logger     logger.ILogger
}

func NewCartService(
	uowFactory unitofwork.RepositoryFactory,
	merger *merge.Merger,
	sessions *memory.SessionRepository,
	bindings *redisstore.ScopeBindingRepository,
	sysLogger logger.ILogger,
) ICartService {
	return &cartService{
		uowFactory: uowFactory,
		merger:     merger,
		sessions:   sessions,
		bindings:   bindings,
		logger:     sysLogger,
	}
}

// ResolveIdentity looks up the server-side session (if any) and derives the
// per-request cart identity from it plus the client cookies.
func (s *cartService) ResolveIdentity(sessionId string, cookies identity.Cookies) identity.Identity {
	var session *identity.Session
	if sessionId != "" {
		if stored, ok := s.sessions.Get(sessionId); ok {
			session = &identity.Session{UserID: stored.UserID}
		}
	}
	return identity.Resolve(session, cookies)
}

// scopeFor maps an identity onto its cart scope. Guests are keyed by device
// id, falling back to the guest session id when no device cookie survived.
func (s *cartService) scopeFor(tenantSlug string, ident identity.Identity) scope.CartScope {
	if ident.Kind == identity.KindUser {
		return scope.Build(tenantSlug, ident.UserID, "")
	}
	deviceKey := ident.DeviceID
	if deviceKey == "" {
		deviceKey = ident.GuestSessionID
	}
	return scope.Build(tenantSlug, "", deviceKey)
}

// resolveScopeKey applies any redis scope binding on top of the derived
// scope, so a device that just went through a merge keeps reading the merged
// user cart even before its cookies catch up.
func (s *cartService) resolveScopeKey(ctx context.Context, tenantSlug string, ident identity.Identity) (string, string) {
	sc := s.scopeFor(tenantSlug, ident)
	if ident.Kind != identity.KindUser && ident.DeviceID != "" && s.bindings != nil {
		bound, err := s.bindings.Get(ctx, ident.DeviceID)
		if err != nil {
			s.logger.Warn("CART", "Scope binding lookup failed, using derived scope", map[string]interface{}{
				"deviceId": ident.DeviceID,
				"error":    err.Error(),
			})
		} else if bound != "" {
			return bound, sc.TenantKey
		}
	}
	return sc.Key(), sc.TenantKey
}

func (s *cartService) GetCart(ctx context.Context, tenantSlug string, ident identity.Identity) (*dto.CartResponse, error) {
	if ident.IsUnresolved() {
		return nil, ErrUnresolvedIdentity
	}

	scopeKey, tenantKey := s.resolveScopeKey(ctx, tenantSlug, ident)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	cart, err := uow.CartRepository().FindByScope(ctx, scopeKey)
	if err != nil {
		return nil, err
	}
	return toCartResponse(scopeKey, tenantKey, cart), nil
}

func (s *cartService) SetItem(ctx context.Context, tenantSlug string, ident identity.Identity, req *dto.SetCartItemRequest) (*dto.CartResponse, error) {
	if ident.IsUnresolved() {
		return nil, ErrUnresolvedIdentity
	}

	scopeKey, tenantKey := s.resolveScopeKey(ctx, tenantSlug, ident)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CartRepository().UpsertItem(ctx, scopeKey, tenantKey, req.ProductId, req.Quantity); err != nil {
		return nil, err
	}

	cart, err := uow.CartRepository().FindByScope(ctx, scopeKey)
	if err != nil {
		return nil, err
	}
	return toCartResponse(scopeKey, tenantKey, cart), nil
}

// MergeOnLogin folds the caller's anonymous cart into their user cart. Safe
// to call on every login; duplicate calls converge on the first merge.
func (s *cartService) MergeOnLogin(ctx context.Context, tenantSlug string, ident identity.Identity) (*dto.MergeCartResponse, error) {
	if ident.Kind != identity.KindUser {
		return nil, errors.New("cart merge requires an authenticated user")
	}

	deviceKey := ident.DeviceID
	if deviceKey == "" {
		deviceKey = ident.GuestSessionID
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.merger.Merge(ctx, uow, tenantSlug, ident.UserID, deviceKey); err != nil {
		return nil, err
	}

	userScope := scope.Build(tenantSlug, ident.UserID, "")
	if ident.DeviceID != "" && s.bindings != nil {
		if err := s.bindings.Bind(ctx, ident.DeviceID, userScope.Key()); err != nil {
			s.logger.Warn("CART", "Failed to bind device to merged scope", map[string]interface{}{
				"deviceId": ident.DeviceID,
				"error":    err.Error(),
			})
		}
	}

	return &dto.MergeCartResponse{
		ScopeKey: userScope.Key(),
		Merged:   true,
	}, nil
}

func toCartResponse(scopeKey, tenantKey string, cart *entity.Cart) *dto.CartResponse {
	res := &dto.CartResponse{
		ScopeKey:  scopeKey,
		TenantKey: tenantKey,
		Items:     []dto.CartItemResponse{},
	}
	if cart == nil {
		return res
	}
	res.UpdatedAt = cart.UpdatedAt
	for _, it := range cart.Items {
		res.Items = append(res.Items, dto.CartItemResponse{
			ProductId: it.ProductID,
			Quantity:  it.Quantity,
			AddedAt:   it.AddedAt,
		})
	}
	return res
}
