package controller

import (
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"
	"marketplace-be/pkg/cart/identity"

	"github.com/gofiber/fiber/v2"
)

const (
	cookieSessionId      = "session_id"
	cookieGuestSessionId = "guest_session_id"
	cookieDeviceId       = "device_id"
	headerTenantSlug     = "X-Tenant-Slug"
)

type ICartController interface {
	RegisterRoutes(r fiber.Router)
	GetCart(ctx *fiber.Ctx) error
	SetItem(ctx *fiber.Ctx) error
	Merge(ctx *fiber.Ctx) error
}

type cartController struct {
	service service.ICartService
}

func NewCartController(service service.ICartService) ICartController {
	return &cartController{service: service}
}

func (c *cartController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cart")
	h.Get("/", c.GetCart)
	h.Put("/items", c.SetItem)
	h.Post("/merge", c.Merge)
}

// identity derives the per-request cart identity. The tenant slug rides on a
// header; an absent slug targets the platform-wide storefront.
func (c *cartController) identity(ctx *fiber.Ctx) (string, identity.Identity) {
	tenantSlug := ctx.Get(headerTenantSlug)
	ident := c.service.ResolveIdentity(ctx.Cookies(cookieSessionId), identity.Cookies{
		GuestSessionID: ctx.Cookies(cookieGuestSessionId),
		DeviceID:       ctx.Cookies(cookieDeviceId),
	})
	return tenantSlug, ident
}

func (c *cartController) GetCart(ctx *fiber.Ctx) error {
	tenantSlug, ident := c.identity(ctx)

	res, err := c.service.GetCart(ctx.Context(), tenantSlug, ident)
	if err != nil {
		return cartErrorResponse(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Cart fetched", res))
}

func (c *cartController) SetItem(ctx *fiber.Ctx) error {
	var req dto.SetCartItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "malformed request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tenantSlug, ident := c.identity(ctx)

	res, err := c.service.SetItem(ctx.Context(), tenantSlug, ident, &req)
	if err != nil {
		return cartErrorResponse(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Cart updated", res))
}

func (c *cartController) Merge(ctx *fiber.Ctx) error {
	tenantSlug, ident := c.identity(ctx)
	if ident.Kind != identity.KindUser {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "cart merge requires an authenticated session"))
	}

	res, err := c.service.MergeOnLogin(ctx.Context(), tenantSlug, ident)
	if err != nil {
		return cartErrorResponse(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Cart merge completed", res))
}

func cartErrorResponse(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrUnresolvedIdentity) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}
