package service

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/localization"
	"github.com/RakhimovY/AIChat/internal/repository/contract"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/ai"
	"github.com/RakhimovY/AIChat/pkg/ai/memory"
	"github.com/RakhimovY/AIChat/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// In-memory repositories. They interpret only the specifications the services
// under test actually pass.

type stubChatRepo struct {
	mu    sync.Mutex
	chats map[uuid.UUID]*entity.Chat
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{chats: map[uuid.UUID]*entity.Chat{}}
}

func (r *stubChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *chat
	r.chats[chat.Id] = &stored
	return nil
}

func (r *stubChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *chat
	r.chats[chat.Id] = &stored
	return nil
}

func (r *stubChatRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, id)
	return nil
}

func (r *stubChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			if chat, found := r.chats[byId.ID]; found {
				copied := *chat
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *stubChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Chat, 0, len(r.chats))
	for _, chat := range r.chats {
		copied := *chat
		out = append(out, &copied)
	}
	return out, nil
}

func (r *stubChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.chats)), nil
}

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	clock    time.Time
}

func (r *stubMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	stored := *message
	stored.CreatedAt = r.clock
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *stubMessageRepo) Update(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.Id == message.Id {
			stored := *message
			stored.CreatedAt = m.CreatedAt
			r.messages[i] = &stored
		}
	}
	return nil
}

func (r *stubMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.Id != id {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *stubMessageRepo) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatId != chatId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *stubMessageRepo) filter(specs ...specification.Specification) []*entity.Message {
	var chatId *uuid.UUID
	desc := false
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByChatID:
			id := spec.ChatID
			chatId = &id
		case specification.OrderBy:
			desc = spec.Desc
		}
	}

	var out []*entity.Message
	for _, m := range r.messages {
		if chatId == nil || m.ChatId == *chatId {
			copied := *m
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *stubMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := r.filter(specs...)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *stubMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(specs...), nil
}

func (r *stubMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filter(specs...))), nil
}

func (r *stubMessageRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string, status entity.MessageStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Id == id {
			m.Content = content
			m.Status = status
			return nil
		}
	}
	return errors.New("message not found")
}

type stubMemoryRepo struct {
	mu      sync.Mutex
	entries []*entity.ChatMemoryEntry
	clock   time.Time
}

func (r *stubMemoryRepo) Create(ctx context.Context, entry *entity.ChatMemoryEntry) error {
	return r.CreateBulk(ctx, []*entity.ChatMemoryEntry{entry})
}

func (r *stubMemoryRepo) CreateBulk(ctx context.Context, entries []*entity.ChatMemoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.clock = r.clock.Add(time.Second)
		stored := *e
		stored.CreatedAt = r.clock
		r.entries = append(r.entries, &stored)
	}
	return nil
}

func (r *stubMemoryRepo) DeleteByConversationId(ctx context.Context, conversationId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ConversationId != conversationId {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubMemoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMemoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var conversationId string
	desc := false
	limit := 0
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByConversationID:
			conversationId = spec.ConversationID
		case specification.OrderBy:
			desc = spec.Desc
		case specification.Pagination:
			limit = spec.Limit
		}
	}

	var out []*entity.ChatMemoryEntry
	for _, e := range r.entries {
		if conversationId == "" || e.ConversationId == conversationId {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMemoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

type stubUow struct {
	chatRepo    *stubChatRepo
	messageRepo *stubMessageRepo
	memoryRepo  *stubMemoryRepo
	userRepo    *stubUserRepo
	subRepo     *stubSubscriptionRepo
}

func (u *stubUow) Begin(ctx context.Context) error { return nil }
func (u *stubUow) Commit() error                   { return nil }
func (u *stubUow) Rollback() error                 { return nil }

func (u *stubUow) UserRepository() contract.UserRepository                 { return u.userRepo }
func (u *stubUow) ChatRepository() contract.ChatRepository                 { return u.chatRepo }
func (u *stubUow) MessageRepository() contract.MessageRepository           { return u.messageRepo }
func (u *stubUow) ChatMemoryRepository() contract.ChatMemoryRepository     { return u.memoryRepo }
func (u *stubUow) DocumentRepository() contract.DocumentRepository         { return nil }
func (u *stubUow) SubscriptionRepository() contract.SubscriptionRepository { return u.subRepo }
func (u *stubUow) LawReferenceRepository() contract.LawReferenceRepository { return nil }

type stubFactory struct {
	uow *stubUow
}

func (f stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type stubDocumentService struct{}

func (stubDocumentService) SaveDocument(ctx context.Context, file *multipart.FileHeader, chat *entity.Chat) (*entity.Document, error) {
	return nil, errors.New("no storage in tests")
}
func (stubDocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return nil, ErrDocumentNotFound
}
func (stubDocumentService) ExtractTextContent(ctx context.Context, document *entity.Document) string {
	return ""
}
func (stubDocumentService) GetDocumentURL(ctx context.Context, document *entity.Document) string {
	return ""
}

type stubLibraryService struct {
	excerpts []string
}

func (s stubLibraryService) IngestLaw(ctx context.Context, req *dto.IngestLawRequest) (*dto.LawReferenceResponse, error) {
	return nil, nil
}
func (s stubLibraryService) ListReferences(ctx context.Context, country string) ([]dto.LawReferenceResponse, error) {
	return nil, nil
}
func (s stubLibraryService) DeleteReference(ctx context.Context, id uuid.UUID) error { return nil }
func (s stubLibraryService) SearchExcerpts(ctx context.Context, question, country string) []string {
	return s.excerpts
}

// scriptedProvider answers after a configured number of failures and records
// the last history it received.
type scriptedProvider struct {
	mu       sync.Mutex
	failures int
	calls    int
	answer   string
	lastMsgs []llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastMsgs = append([]llm.Message(nil), history...)
	if p.calls <= p.failures {
		return "", errors.New("model unavailable")
	}
	return p.answer, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

type messageServiceFixture struct {
	service  IMessageService
	provider *scriptedProvider
	uow      *stubUow
	user     *entity.User
}

func newMessageServiceFixture(t *testing.T, provider *scriptedProvider) *messageServiceFixture {
	t.Helper()

	uow := &stubUow{
		chatRepo:    newStubChatRepo(),
		messageRepo: &stubMessageRepo{clock: time.Now()},
		memoryRepo:  &stubMemoryRepo{clock: time.Now()},
	}
	factory := stubFactory{uow: uow}
	log := nopLogger{}

	svc := NewMessageService(
		factory,
		NewChatService(factory),
		stubDocumentService{},
		stubLibraryService{},
		memory.NewStore(factory, 15),
		ai.NewInvoker(provider, log),
		log,
	)

	return &messageServiceFixture{
		service:  svc,
		provider: provider,
		uow:      uow,
		user:     &entity.User{Id: uuid.New(), Email: "user@example.com", Role: entity.UserRoleUser},
	}
}

func TestCreateMessageNewChat(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "Договор должен содержать предмет."})
	ctx := context.Background()

	resp, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{
		Content:  "Что должно быть в договоре?",
		Language: "ru",
	}, nil)
	require.NoError(t, err)

	// A first turn yields the whole conversation: the question and the reply,
	// in that order.
	require.Len(t, resp, 2)
	assert.Equal(t, "user", resp[0].Role)
	assert.Equal(t, "Что должно быть в договоре?", resp[0].Content)
	assert.Equal(t, "assistant", resp[1].Role)
	assert.Equal(t, string(entity.MessageStatusComplete), resp[1].Status)
	assert.Equal(t, "Договор должен содержать предмет.", resp[1].Content)
	assert.NotEmpty(t, resp[1].ContentHTML)

	// One chat created with the title derived from the question.
	require.Len(t, fx.uow.chatRepo.chats, 1)
	for _, chat := range fx.uow.chatRepo.chats {
		assert.Equal(t, "Что должно быть в договоре?", chat.Title)
	}

	// User and assistant messages persisted in order.
	messages, err := fx.uow.messageRepo.FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: false})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageRoleUser, messages[0].Role)
	assert.Equal(t, entity.MessageRoleAssistant, messages[1].Role)

	// Both turns entered memory.
	assert.Len(t, fx.uow.memoryRepo.entries, 2)
}

func TestCreateMessageLongTitleTruncated(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})

	question := strings.Repeat("в", 80)
	_, err := fx.service.CreateMessage(context.Background(), fx.user, &dto.AskRequest{Content: question}, nil)
	require.NoError(t, err)

	for _, chat := range fx.uow.chatRepo.chats {
		runes := []rune(chat.Title)
		assert.Len(t, runes, 50)
		assert.True(t, strings.HasSuffix(chat.Title, "..."))
		assert.Equal(t, strings.Repeat("в", 47), string(runes[:47]))
	}
}

func TestCreateMessageTitleRenamedOnlyOnce(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})
	ctx := context.Background()

	first, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Первый вопрос"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	chatId := first[0].ChatId
	second, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Второй вопрос", ChatId: &chatId}, nil)
	require.NoError(t, err)

	// The second turn returns the full history, both turns included.
	require.Len(t, second, 4)

	chat := fx.uow.chatRepo.chats[chatId]
	require.NotNil(t, chat)
	assert.Equal(t, "Первый вопрос", chat.Title)
}

func TestCreateMessageCustomTitleNeverRenamed(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})
	ctx := context.Background()

	chat := &entity.Chat{Id: uuid.New(), UserId: fx.user.Id, Title: "Мой арбитраж"}
	require.NoError(t, fx.uow.chatRepo.Create(ctx, chat))

	_, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос", ChatId: &chat.Id}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Мой арбитраж", fx.uow.chatRepo.chats[chat.Id].Title)
}

func TestCreateMessageForeignChatForbidden(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})
	ctx := context.Background()

	foreign := &entity.Chat{Id: uuid.New(), UserId: uuid.New(), Title: localization.DefaultTitle("ru")}
	require.NoError(t, fx.uow.chatRepo.Create(ctx, foreign))

	_, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос", ChatId: &foreign.Id}, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	// Nothing persisted for the rejected turn.
	assert.Empty(t, fx.uow.messageRepo.messages)
}

func TestCreateMessageFailureKeptOutOfMemory(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{failures: 10})
	ctx := context.Background()

	resp, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос", Language: "ru"}, nil)
	require.NoError(t, err)

	require.Len(t, resp, 2)
	assert.Equal(t, string(entity.MessageStatusFailed), resp[1].Status)
	assert.Equal(t, localization.ErrorMessage("ru"), resp[1].Content)
	assert.Empty(t, resp[1].ContentHTML)

	// The question stays in memory so a later retry has context. The fallback
	// text must not.
	require.Len(t, fx.uow.memoryRepo.entries, 1)
	assert.Equal(t, entity.MessageRoleUser, fx.uow.memoryRepo.entries[0].Role)
}

func TestCreateMessageSendsWindowBeforeCurrentQuestion(t *testing.T) {
	provider := &scriptedProvider{answer: "ok"}
	fx := newMessageServiceFixture(t, provider)
	ctx := context.Background()

	first, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Первый"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	chatId := first[0].ChatId
	_, err = fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Второй", ChatId: &chatId}, nil)
	require.NoError(t, err)

	// Second call: the window holds only the first turn; the new question
	// arrives once, inside the assembled prompt.
	require.Len(t, provider.lastMsgs, 3)
	assert.Equal(t, "Первый", provider.lastMsgs[0].Content)
	assert.Equal(t, "ok", provider.lastMsgs[1].Content)
	assert.Contains(t, provider.lastMsgs[2].Content, "Второй")
	assert.NotEqual(t, "Второй", provider.lastMsgs[2].Content)
}

func TestGetChatMessagesOwnership(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})
	ctx := context.Background()

	resp, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp)

	messages, err := fx.service.GetChatMessages(ctx, fx.user.Id, resp[0].ChatId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)

	_, err = fx.service.GetChatMessages(ctx, uuid.New(), resp[0].ChatId)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestStreamMessageChunksThenCompletes(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "Первый абзац.\n\nВторой абзац."})
	ctx := context.Background()

	var events []dto.StreamEvent
	err := fx.service.StreamMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос"}, nil, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "chunk", events[0].Type)
	assert.Equal(t, "chunk", events[1].Type)
	assert.Equal(t, "complete", events[2].Type)
	assert.Equal(t, "Первый абзац.\n\nВторой абзац.", events[0].Content+events[1].Content)

	terminal := 0
	for _, ev := range events {
		if ev.Type == "complete" || ev.Type == "error" || ev.Type == "timeout" {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)

	// The pre-created message ended up complete with the full answer.
	messages, _ := fx.uow.messageRepo.FindAll(ctx)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageStatusComplete, messages[1].Status)
	assert.Equal(t, "Первый абзац.\n\nВторой абзац.", messages[1].Content)
}

func TestStreamMessageErrorEventOnFailure(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{failures: 10})
	ctx := context.Background()

	var events []dto.StreamEvent
	err := fx.service.StreamMessage(ctx, fx.user, &dto.AskRequest{Content: "Вопрос", Language: "kk"}, nil, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Type)
	assert.Equal(t, localization.ErrorMessage("kk"), events[0].Content)

	messages, _ := fx.uow.messageRepo.FindAll(ctx)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageStatusFailed, messages[1].Status)
}

func TestCreateMessageUploadFailureDropsDocument(t *testing.T) {
	provider := &scriptedProvider{answer: "ok"}
	fx := newMessageServiceFixture(t, provider)
	ctx := context.Background()

	// The fixture's document service rejects every upload.
	file := &multipart.FileHeader{Filename: "contract.pdf"}
	resp, err := fx.service.CreateMessage(ctx, fx.user, &dto.AskRequest{Content: "Проверь договор"}, file)
	require.NoError(t, err)

	// The question went through without a document reference.
	require.Len(t, resp, 2)
	assert.Nil(t, resp[0].DocumentId)

	messages, _ := fx.uow.messageRepo.FindAll(ctx)
	require.Len(t, messages, 2)
	assert.Nil(t, messages[0].DocumentId)

	// No document block entered the prompt.
	require.NotEmpty(t, provider.lastMsgs)
	finalPrompt := provider.lastMsgs[len(provider.lastMsgs)-1].Content
	assert.NotContains(t, finalPrompt, "НАЧАЛО ДОКУМЕНТА")
	assert.Contains(t, finalPrompt, "Проверь договор")
}

func TestStreamMessageMissingChatEmitsErrorEvent(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "ok"})

	missing := uuid.New()
	var events []dto.StreamEvent
	err := fx.service.StreamMessage(context.Background(), fx.user, &dto.AskRequest{Content: "Вопрос", ChatId: &missing}, nil, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.ErrorIs(t, err, ErrChatNotFound)

	// The stream never closes without a terminal event.
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Type)
	assert.Equal(t, localization.ErrorMessage(localization.DefaultLanguage), events[0].Content)
}

func TestStreamMessageDeadlineCoversChunkDelivery(t *testing.T) {
	fx := newMessageServiceFixture(t, &scriptedProvider{answer: "Первый абзац.\n\nВторой абзац."})

	// A deadline shorter than two chunk delays fires between chunks.
	svc := fx.service.(*messageService)
	svc.chunkDelay = 200 * time.Millisecond
	svc.streamTimeout = 300 * time.Millisecond

	var events []dto.StreamEvent
	err := fx.service.StreamMessage(context.Background(), fx.user, &dto.AskRequest{Content: "Вопрос"}, nil, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, "timeout", events[len(events)-1].Type)

	terminal := 0
	for _, ev := range events {
		switch ev.Type {
		case "complete", "error", "timeout":
			terminal++
		default:
			assert.Equal(t, "chunk", ev.Type)
		}
	}
	assert.Equal(t, 1, terminal)

	// The answer survived even though delivery was cut short.
	messages, _ := fx.uow.messageRepo.FindAll(context.Background())
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageStatusComplete, messages[1].Status)
	assert.Equal(t, "Первый абзац.\n\nВторой абзац.", messages[1].Content)
}
