package service

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/localization"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/ai"
	"github.com/RakhimovY/AIChat/pkg/ai/memory"
	"github.com/RakhimovY/AIChat/pkg/ai/prompt"
	"github.com/RakhimovY/AIChat/pkg/ai/stream"
	"github.com/RakhimovY/AIChat/pkg/llm"
	"github.com/RakhimovY/AIChat/pkg/markdown"

	"github.com/google/uuid"
)

const (
	// streamTimeout bounds one streamed turn end to end, from generation
	// through chunk delivery.
	streamTimeout = 180 * time.Second

	// streamChunkDelay paces paragraph chunks so the client renders them as a
	// stream rather than one burst.
	streamChunkDelay = 50 * time.Millisecond

	maxTitleRunes = 50
)

type IMessageService interface {
	// CreateMessage runs one full conversation turn: the user message is
	// persisted, the model is invoked with the chat's memory window, and the
	// chat's full ordered message list comes back as the response.
	CreateMessage(ctx context.Context, user *entity.User, req *dto.AskRequest, file *multipart.FileHeader) ([]dto.ChatMessageResponse, error)
	GetChatMessages(ctx context.Context, userId, chatId uuid.UUID) ([]dto.ChatMessageResponse, error)
	// StreamMessage runs the same turn but delivers the reply as events
	// through emit. Exactly one terminal event ("complete", "error" or
	// "timeout") closes every stream.
	StreamMessage(ctx context.Context, user *entity.User, req *dto.AskRequest, file *multipart.FileHeader, emit func(dto.StreamEvent) error) error
}

type messageService struct {
	uowFactory      unitofwork.RepositoryFactory
	chatService     IChatService
	documentService IDocumentService
	libraryService  ILibraryService
	memoryStore     *memory.Store
	invoker         *ai.Invoker
	logger          logger.ILogger

	// One deadline bounds a streamed turn end to end, chunk delivery
	// included. Overridable in tests.
	streamTimeout time.Duration
	chunkDelay    time.Duration

	// chatLocks serializes turns within one chat so concurrent requests
	// cannot interleave memory writes. Keyed by chat id.
	chatLocks sync.Map
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	chatService IChatService,
	documentService IDocumentService,
	libraryService ILibraryService,
	memoryStore *memory.Store,
	invoker *ai.Invoker,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:      uowFactory,
		chatService:     chatService,
		documentService: documentService,
		libraryService:  libraryService,
		memoryStore:     memoryStore,
		invoker:         invoker,
		logger:          log,
		streamTimeout:   streamTimeout,
		chunkDelay:      streamChunkDelay,
	}
}

// preparedTurn is everything a single assistant turn needs after the user
// side has been persisted.
type preparedTurn struct {
	chat     *entity.Chat
	userMsg  *entity.Message
	history  []llm.Message
	prompt   string
	language string
	unlock   func()
}

func (s *messageService) lockChat(chatId uuid.UUID) func() {
	mu, _ := s.chatLocks.LoadOrStore(chatId, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock.Unlock
}

// prepareTurn resolves the chat, persists the user message (with its document
// when one was uploaded), derives the chat title from the first message and
// assembles the prompt. The returned unlock must be called once the turn is
// finished; it holds the per-chat lock across generation.
func resolveLanguage(user *entity.User, req *dto.AskRequest) string {
	if req.Language != "" {
		return req.Language
	}
	if user.Language != nil && *user.Language != "" {
		return *user.Language
	}
	return localization.DefaultLanguage
}

func (s *messageService) prepareTurn(ctx context.Context, user *entity.User, req *dto.AskRequest, file *multipart.FileHeader) (*preparedTurn, error) {
	country := req.Country
	if country == "" && user.Country != nil {
		country = *user.Country
	}
	language := resolveLanguage(user, req)

	var chat *entity.Chat
	var err error
	if req.ChatId != nil {
		chat, err = s.chatService.GetChatById(ctx, *req.ChatId)
		if err != nil {
			return nil, err
		}
		if chat.UserId != user.Id {
			return nil, ErrForbidden
		}
	} else {
		chat, err = s.chatService.CreateChat(ctx, user, language)
		if err != nil {
			return nil, err
		}
	}

	unlock := s.lockChat(chat.Id)
	ok := false
	defer func() {
		if !ok {
			unlock()
		}
	}()

	// The window is loaded before the current turn is written so the question
	// enters the model once, through the prompt.
	history, err := s.memoryStore.Window(ctx, chat.Id.String())
	if err != nil {
		return nil, err
	}

	var document *entity.Document
	if file != nil {
		document, err = s.documentService.SaveDocument(ctx, file, chat)
		if err != nil {
			// An upload failure should not swallow the question itself.
			s.logger.Warn("MessageService", "Document upload failed, continuing without it", map[string]interface{}{
				"chat_id": chat.Id,
				"error":   err.Error(),
			})
			document = nil
		}
	}

	userMsg := &entity.Message{
		Id:      uuid.New(),
		ChatId:  chat.Id,
		Role:    entity.MessageRoleUser,
		Content: req.Content,
		Status:  entity.MessageStatusComplete,
	}
	if document != nil {
		userMsg.DocumentId = &document.Id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	if err := s.maybeRenameChat(ctx, chat, req.Content); err != nil {
		s.logger.Warn("MessageService", "Failed to rename chat", map[string]interface{}{
			"chat_id": chat.Id,
			"error":   err.Error(),
		})
	}

	var documentText string
	if document != nil {
		documentText = s.documentService.ExtractTextContent(ctx, document)
	}

	builtPrompt := prompt.NewBuilder(prompt.Input{
		Question:     req.Content,
		Country:      country,
		Language:     language,
		DocumentText: documentText,
		LawExcerpts:  s.libraryService.SearchExcerpts(ctx, req.Content, country),
	}).Build()

	ok = true
	return &preparedTurn{
		chat:     chat,
		userMsg:  userMsg,
		history:  history,
		prompt:   builtPrompt,
		language: language,
		unlock:   unlock,
	}, nil
}

// maybeRenameChat replaces the placeholder title with text derived from the
// first user message. Renaming happens at most once per chat: only when the
// just-written message is the only one and the title is still a localized
// default.
func (s *messageService) maybeRenameChat(ctx context.Context, chat *entity.Chat, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.MessageRepository().Count(ctx, specification.ByChatID{ChatID: chat.Id})
	if err != nil {
		return err
	}
	if count != 1 || !localization.IsDefaultTitle(chat.Title) {
		return nil
	}

	chat.Title = deriveTitle(content)
	return uow.ChatRepository().Update(ctx, chat)
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= maxTitleRunes {
		return content
	}
	return string(runes[:maxTitleRunes-3]) + "..."
}

// finishTurn persists the assistant side of a turn and grows the memory
// window. Fallback answers are stored as failed messages but are kept out of
// memory so a bad turn does not poison later prompts.
func (s *messageService) finishTurn(ctx context.Context, turn *preparedTurn, answer string, answered bool) (*entity.Message, error) {
	status := entity.MessageStatusComplete
	if !answered {
		status = entity.MessageStatusFailed
	}

	assistantMsg := &entity.Message{
		Id:      uuid.New(),
		ChatId:  turn.chat.Id,
		Role:    entity.MessageRoleAssistant,
		Content: answer,
		Status:  status,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	turns := []llm.Message{{Role: string(entity.MessageRoleUser), Content: turn.userMsg.Content}}
	if answered {
		turns = append(turns, llm.Message{Role: string(entity.MessageRoleAssistant), Content: answer})
	}
	if err := s.memoryStore.Add(ctx, turn.chat.Id.String(), turns); err != nil {
		s.logger.Warn("MessageService", "Failed to persist memory turns", map[string]interface{}{
			"chat_id": turn.chat.Id,
			"error":   err.Error(),
		})
	}

	return assistantMsg, nil
}

func (s *messageService) CreateMessage(ctx context.Context, user *entity.User, req *dto.AskRequest, file *multipart.FileHeader) ([]dto.ChatMessageResponse, error) {
	turn, err := s.prepareTurn(ctx, user, req, file)
	if err != nil {
		return nil, err
	}
	defer turn.unlock()

	answer, answered := s.invoker.Invoke(ctx, turn.history, turn.prompt, turn.language)

	if _, err := s.finishTurn(ctx, turn, answer, answered); err != nil {
		return nil, err
	}

	// The client receives the whole conversation so it can replace its view
	// of the chat in one step.
	return s.chatMessageList(ctx, turn.chat.Id)
}

func (s *messageService) GetChatMessages(ctx context.Context, userId, chatId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	chat, err := s.chatService.GetChatById(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if chat.UserId != userId {
		return nil, ErrForbidden
	}
	return s.chatMessageList(ctx, chatId)
}

// chatMessageList loads the chat's messages oldest-first and decorates each
// row with its document metadata.
func (s *messageService) chatMessageList(ctx context.Context, chatId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, s.messageToResponse(ctx, msg))
	}
	return responses, nil
}

func (s *messageService) StreamMessage(ctx context.Context, user *entity.User, req *dto.AskRequest, file *multipart.FileHeader, emit func(dto.StreamEvent) error) error {
	turn, err := s.prepareTurn(ctx, user, req, file)
	if err != nil {
		// The stream must not close silently; the client still gets its
		// terminal event even when the turn never started.
		_ = emit(dto.StreamEvent{
			Type:    "error",
			Content: localization.ErrorMessage(resolveLanguage(user, req)),
		})
		return err
	}
	defer turn.unlock()

	// The pending message exists before generation starts so the client can
	// show the turn immediately and poll it if the stream drops.
	pending := &entity.Message{
		Id:      uuid.New(),
		ChatId:  turn.chat.Id,
		Role:    entity.MessageRoleAssistant,
		Content: "",
		Status:  entity.MessageStatusPending,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, pending); err != nil {
		_ = emit(dto.StreamEvent{
			Type:    "error",
			ChatId:  turn.chat.Id,
			Content: localization.ErrorMessage(turn.language),
		})
		return err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.streamTimeout)
	defer cancel()

	type invokeResult struct {
		answer   string
		answered bool
	}
	resultCh := make(chan invokeResult, 1)
	go func() {
		answer, answered := s.invoker.Invoke(genCtx, turn.history, turn.prompt, turn.language)
		resultCh <- invokeResult{answer: answer, answered: answered}
	}()

	var result invokeResult
	select {
	case result = <-resultCh:
	case <-genCtx.Done():
		fallback := localization.ErrorMessage(turn.language)
		s.completePending(ctx, turn, pending, fallback, false)
		return emit(dto.StreamEvent{
			Type:      "timeout",
			MessageId: pending.Id,
			ChatId:    turn.chat.Id,
			Content:   fallback,
		})
	}

	s.completePending(ctx, turn, pending, result.answer, result.answered)

	if !result.answered {
		return emit(dto.StreamEvent{
			Type:      "error",
			MessageId: pending.Id,
			ChatId:    turn.chat.Id,
			Content:   result.answer,
		})
	}

	for _, chunk := range stream.SplitParagraphs(result.answer) {
		if err := emit(dto.StreamEvent{
			Type:      "chunk",
			MessageId: pending.Id,
			ChatId:    turn.chat.Id,
			Content:   chunk,
		}); err != nil {
			// Client gone; the message is already persisted complete.
			return err
		}

		select {
		case <-time.After(s.chunkDelay):
		case <-genCtx.Done():
			// The wall clock covers chunk delivery too. The message is
			// already persisted complete, only delivery stops here.
			return emit(dto.StreamEvent{
				Type:      "timeout",
				MessageId: pending.Id,
				ChatId:    turn.chat.Id,
			})
		}
	}

	return emit(dto.StreamEvent{
		Type:      "complete",
		MessageId: pending.Id,
		ChatId:    turn.chat.Id,
	})
}

// completePending finalizes the pre-created pending message in place and
// records memory the same way a synchronous turn would.
func (s *messageService) completePending(ctx context.Context, turn *preparedTurn, pending *entity.Message, answer string, answered bool) {
	status := entity.MessageStatusComplete
	if !answered {
		status = entity.MessageStatusFailed
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().UpdateContent(ctx, pending.Id, answer, status); err != nil {
		s.logger.Error("MessageService", "Failed to finalize streamed message", map[string]interface{}{
			"message_id": pending.Id,
			"error":      err.Error(),
		})
	}
	pending.Content = answer
	pending.Status = status

	turns := []llm.Message{{Role: string(entity.MessageRoleUser), Content: turn.userMsg.Content}}
	if answered {
		turns = append(turns, llm.Message{Role: string(entity.MessageRoleAssistant), Content: answer})
	}
	if err := s.memoryStore.Add(ctx, turn.chat.Id.String(), turns); err != nil {
		s.logger.Warn("MessageService", "Failed to persist memory turns", map[string]interface{}{
			"chat_id": turn.chat.Id,
			"error":   err.Error(),
		})
	}
}

func (s *messageService) messageToResponse(ctx context.Context, msg *entity.Message) dto.ChatMessageResponse {
	resp := dto.ChatMessageResponse{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Status:    string(msg.Status),
		CreatedAt: msg.CreatedAt,
	}

	if msg.Role == entity.MessageRoleAssistant && msg.Status == entity.MessageStatusComplete {
		resp.ContentHTML = markdown.ToHTML(msg.Content)
	}

	if msg.DocumentId != nil {
		resp.DocumentId = msg.DocumentId
		document, err := s.documentService.GetDocument(ctx, *msg.DocumentId)
		if err == nil && document != nil {
			resp.DocumentName = document.Name
			resp.DocumentURL = s.documentService.GetDocumentURL(ctx, document)
		}
	}

	return resp
}
