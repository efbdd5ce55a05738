package controller

import (
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"
	"marketplace-be/pkg/refund"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRefundController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	GetOrderState(ctx *fiber.Ctx) error
}

type refundController struct {
	service service.IRefundService
}

func NewRefundController(service service.IRefundService) IRefundController {
	return &refundController{service: service}
}

func (c *refundController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/refunds", serverutils.JwtMiddleware, serverutils.AdminOnlyMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/orders/:orderId", c.GetOrderState)
}

func (c *refundController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "BAD_REQUEST",
			"message": "malformed request body",
		})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "BAD_REQUEST",
			"message": err.Error(),
		})
	}

	res, err := c.service.CreateRefund(ctx.Context(), &req)
	if err != nil {
		return refundErrorResponse(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *refundController) GetOrderState(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("orderId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "BAD_REQUEST",
			"message": "invalid order id",
		})
	}

	res, err := c.service.GetOrderRefundState(ctx.Context(), orderId)
	if err != nil {
		return refundErrorResponse(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *refundController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListRecords(
		ctx.Context(),
		ctx.QueryInt("limit", 50),
		ctx.QueryInt("offset", 0),
		ctx.QueryBool("unreconciled", false),
	)
	if err != nil {
		return refundErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"records": res})
}

// refundErrorResponse maps engine failures onto their stable machine-readable
// codes. All engine failures surface as 500.
func refundErrorResponse(ctx *fiber.Ctx, err error) error {
	var coded refund.Coded
	if errors.As(err, &coded) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   coded.Code(),
			"message": err.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "INTERNAL",
		"message": err.Error(),
	})
}
