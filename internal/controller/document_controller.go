package controller

import (
	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/pkg/serverutils"
	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	GetDownloadURL(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	chatService     service.IChatService
	userService     service.IUserService
}

func NewDocumentController(
	documentService service.IDocumentService,
	chatService service.IChatService,
	userService service.IUserService,
) IDocumentController {
	return &documentController{
		documentService: documentService,
		chatService:     chatService,
		userService:     userService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/:id/url", c.GetDownloadURL)
}

func (c *documentController) GetDownloadURL(ctx *fiber.Ctx) error {
	email, _ := ctx.Locals("email").(string)
	user, err := c.userService.GetUserByEmail(ctx.Context(), email)
	if err != nil {
		return err
	}

	documentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	document, err := c.documentService.GetDocument(ctx.Context(), documentId)
	if err != nil {
		return err
	}

	// Documents are reachable only through a chat the caller owns.
	chat, err := c.chatService.GetChatById(ctx.Context(), document.ChatId)
	if err != nil {
		return err
	}
	if chat.UserId != user.Id {
		return service.ErrForbidden
	}

	url := c.documentService.GetDocumentURL(ctx.Context(), document)
	if url == "" {
		return fiber.NewError(fiber.StatusBadGateway, "Storage unavailable")
	}

	return ctx.JSON(serverutils.SuccessResponse("Download URL", dto.DocumentResponse{
		Id:          document.Id,
		ChatId:      document.ChatId,
		Name:        document.Name,
		ContentType: document.ContentType,
		Size:        document.Size,
		URL:         url,
		CreatedAt:   document.CreatedAt,
	}))
}
