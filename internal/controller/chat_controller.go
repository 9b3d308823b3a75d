package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/pkg/serverutils"
	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	AskWithDocument(ctx *fiber.Ctx) error
	AskStream(ctx *fiber.Ctx) error
	GetChats(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	DeleteChat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	messageService service.IMessageService
	userService    service.IUserService
	logger         logger.ILogger
}

func NewChatController(
	chatService service.IChatService,
	messageService service.IMessageService,
	userService service.IUserService,
	log logger.ILogger,
) IChatController {
	return &chatController{
		chatService:    chatService,
		messageService: messageService,
		userService:    userService,
		logger:         log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chats")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/ask", c.Ask)
	h.Post("/ask-with-document", c.AskWithDocument)
	h.Post("/ask/stream", c.AskStream)
	h.Get("/", c.GetChats)
	h.Get("/:id/messages", c.GetMessages)
	h.Delete("/:id", c.DeleteChat)
}

func (c *chatController) currentUser(ctx *fiber.Ctx) (*entity.User, error) {
	email, _ := ctx.Locals("email").(string)
	return c.userService.GetUserByEmail(ctx.Context(), email)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.CreateMessage(ctx.Context(), user, &req, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

// parseAskForm binds the multipart variant of an ask request. The document
// part is optional.
func parseAskForm(ctx *fiber.Ctx) (*dto.AskRequest, *multipart.FileHeader, error) {
	req := &dto.AskRequest{
		Content:  ctx.FormValue("content"),
		Country:  ctx.FormValue("country"),
		Language: ctx.FormValue("language"),
	}
	if raw := ctx.FormValue("chat_id"); raw != "" {
		chatId, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid chat_id")
		}
		req.ChatId = &chatId
	}

	file, err := ctx.FormFile("document")
	if err != nil {
		file = nil
	}

	if err := serverutils.ValidateRequest(*req); err != nil {
		return nil, nil, err
	}
	return req, file, nil
}

func (c *chatController) AskWithDocument(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	req, file, err := parseAskForm(ctx)
	if err != nil {
		return err
	}

	res, err := c.messageService.CreateMessage(ctx.Context(), user, req, file)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

// AskStream answers over server-sent events. Accepts both JSON and multipart
// bodies so a document can accompany a streamed question.
func (c *chatController) AskStream(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	var req *dto.AskRequest
	var file *multipart.FileHeader

	if ctx.Is("multipart") {
		req, file, err = parseAskForm(ctx)
		if err != nil {
			return err
		}
	} else {
		req = &dto.AskRequest{}
		if err := ctx.BodyParser(req); err != nil {
			return err
		}
		if err := serverutils.ValidateRequest(*req); err != nil {
			return err
		}
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	// The fiber context is not valid inside the stream writer, so the turn
	// runs against a detached context.
	streamCtx := context.Background()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(event dto.StreamEvent) error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return err
			}
			return w.Flush()
		}

		if err := c.messageService.StreamMessage(streamCtx, user, req, file, emit); err != nil {
			c.logger.Warn("ChatController", "Stream ended with error", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}))

	return nil
}

func (c *chatController) GetChats(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetUserChats(ctx.Context(), user.Id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chats", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}

	res, err := c.messageService.GetChatMessages(ctx.Context(), user.Id, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *chatController) DeleteChat(ctx *fiber.Ctx) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return err
	}

	chatId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid chat id")
	}

	if err := c.chatService.DeleteChat(ctx.Context(), user.Id, chatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat deleted", nil))
}
