package controller

import (
	"fmt"
	"os"

	"github.com/RakhimovY/AIChat/internal/pkg/serverutils"
	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, err := c.service.GetLoginURL(ctx.Params("provider"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code"))
	}

	res, err := c.service.HandleCallback(ctx.Context(), ctx.Params("provider"), code)
	if err != nil {
		return err
	}

	// The SPA picks the token up from the URL fragment.
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL != "" {
		return ctx.Redirect(fmt.Sprintf("%s/auth/callback#token=%s", frontendURL, res.Token))
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}
