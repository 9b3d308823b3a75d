package memory

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/contract"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/llm"

	"github.com/google/uuid"
)

// fakeMemoryRepo keeps entries in a slice and interprets the specifications
// the store actually uses.
type fakeMemoryRepo struct {
	entries []*entity.ChatMemoryEntry
	clock   time.Time
}

func (r *fakeMemoryRepo) Create(ctx context.Context, entry *entity.ChatMemoryEntry) error {
	return r.CreateBulk(ctx, []*entity.ChatMemoryEntry{entry})
}

func (r *fakeMemoryRepo) CreateBulk(ctx context.Context, entries []*entity.ChatMemoryEntry) error {
	for _, e := range entries {
		r.clock = r.clock.Add(time.Second)
		stored := *e
		stored.Id = uuid.New()
		stored.CreatedAt = r.clock
		r.entries = append(r.entries, &stored)
	}
	return nil
}

func (r *fakeMemoryRepo) DeleteByConversationId(ctx context.Context, conversationId string) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ConversationId != conversationId {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *fakeMemoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMemoryEntry, error) {
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
			out = append(out, e)
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

func (r *fakeMemoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

type fakeUow struct {
	memoryRepo contract.ChatMemoryRepository
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                 { return nil }
func (u *fakeUow) ChatRepository() contract.ChatRepository                 { return nil }
func (u *fakeUow) MessageRepository() contract.MessageRepository           { return nil }
func (u *fakeUow) ChatMemoryRepository() contract.ChatMemoryRepository     { return u.memoryRepo }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository         { return nil }
func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository { return nil }
func (u *fakeUow) LawReferenceRepository() contract.LawReferenceRepository { return nil }

type fakeFactory struct {
	uow unitofwork.UnitOfWork
}

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func newTestStore(windowSize int) (*Store, *fakeMemoryRepo) {
	repo := &fakeMemoryRepo{clock: time.Now()}
	factory := fakeFactory{uow: &fakeUow{memoryRepo: repo}}
	return NewStore(factory, windowSize), repo
}

func TestWindowReturnsNewestOldestFirst(t *testing.T) {
	store, _ := newTestStore(15)
	ctx := context.Background()
	conversationId := uuid.New().String()

	// 10 full turns, 20 entries total
	for i := 0; i < 10; i++ {
		err := store.Add(ctx, conversationId, []llm.Message{
			{Role: "user", Content: fmt.Sprintf("q%d", i)},
			{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	window, err := store.Window(ctx, conversationId)
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 15 {
		t.Fatalf("window size = %d, want 15", len(window))
	}

	// Oldest surviving entry is a2 (entries 0..4 evicted from the window).
	if window[0].Content != "a2" {
		t.Errorf("window[0] = %q, want a2", window[0].Content)
	}
	if window[14].Content != "a9" {
		t.Errorf("window[14] = %q, want a9", window[14].Content)
	}
}

func TestWindowIsScopedToConversation(t *testing.T) {
	store, _ := newTestStore(15)
	ctx := context.Background()

	first := uuid.New().String()
	second := uuid.New().String()

	store.Add(ctx, first, []llm.Message{{Role: "user", Content: "from first"}})
	store.Add(ctx, second, []llm.Message{{Role: "user", Content: "from second"}})

	window, err := store.Window(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 || window[0].Content != "from first" {
		t.Errorf("window = %+v, want only the first conversation's turn", window)
	}
}

func TestAllTurnsArePersistedBeyondTheWindow(t *testing.T) {
	store, repo := newTestStore(15)
	ctx := context.Background()
	conversationId := uuid.New().String()

	for i := 0; i < 20; i++ {
		store.Add(ctx, conversationId, []llm.Message{{Role: "user", Content: fmt.Sprintf("q%d", i)}})
	}

	// The window is a read-side cap; storage keeps everything.
	if len(repo.entries) != 20 {
		t.Errorf("stored entries = %d, want 20", len(repo.entries))
	}

	window, _ := store.Window(ctx, conversationId)
	if len(window) != 15 {
		t.Errorf("window = %d entries, want 15", len(window))
	}
}

func TestClearRemovesConversation(t *testing.T) {
	store, repo := newTestStore(15)
	ctx := context.Background()

	keep := uuid.New().String()
	drop := uuid.New().String()
	store.Add(ctx, keep, []llm.Message{{Role: "user", Content: "keep"}})
	store.Add(ctx, drop, []llm.Message{{Role: "user", Content: "drop"}})

	if err := store.Clear(ctx, drop); err != nil {
		t.Fatal(err)
	}

	if len(repo.entries) != 1 || repo.entries[0].ConversationId != keep {
		t.Errorf("expected only the kept conversation to remain")
	}

	window, _ := store.Window(ctx, drop)
	if len(window) != 0 {
		t.Errorf("cleared conversation window = %d entries, want 0", len(window))
	}
}

func TestAddEmptyIsNoop(t *testing.T) {
	store, repo := newTestStore(15)
	if err := store.Add(context.Background(), uuid.New().String(), nil); err != nil {
		t.Fatal(err)
	}
	if len(repo.entries) != 0 {
		t.Error("empty Add must not write")
	}
}
