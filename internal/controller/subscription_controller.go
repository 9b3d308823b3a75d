package controller

import (
	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/pkg/serverutils"
	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service service.ISubscriptionService
}

func NewSubscriptionController(service service.ISubscriptionService) ISubscriptionController {
	return &subscriptionController{service: service}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscriptions")
	// The webhook is called by the payment provider, not a logged-in user.
	h.Post("/webhook", c.Webhook)

	h.Use(serverutils.JwtMiddleware)
	h.Post("/checkout", c.Checkout)
	h.Get("/status", c.GetStatus)
	h.Post("/cancel", c.Cancel)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func (c *subscriptionController) Checkout(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *subscriptionController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid payload"))
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		// The provider retries on non-200, which is what we want on failure.
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetStatus(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Cancel(ctx.Context(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription canceled", nil))
}
