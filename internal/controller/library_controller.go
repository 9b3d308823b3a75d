package controller

import (
	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/pkg/serverutils"
	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Law library management is an admin surface; the conversation path reads it
// internally through the message service.
type ILibraryController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type libraryController struct {
	service service.ILibraryService
}

func NewLibraryController(service service.ILibraryService) ILibraryController {
	return &libraryController{service: service}
}

func (c *libraryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/library")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	h.Post("/laws", c.Ingest)
	h.Get("/laws", c.List)
	h.Delete("/laws/:id", c.Delete)
}

func (c *libraryController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestLawRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.IngestLaw(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Law ingested", res))
}

func (c *libraryController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListReferences(ctx.Context(), ctx.Query("country"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Law references", res))
}

func (c *libraryController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	if err := c.service.DeleteReference(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Law reference deleted", nil))
}
