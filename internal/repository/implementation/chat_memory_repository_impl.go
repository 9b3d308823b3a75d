package implementation

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/mapper"
	"github.com/RakhimovY/AIChat/internal/model"
	"github.com/RakhimovY/AIChat/internal/repository/contract"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatMemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMemoryRepository(db *gorm.DB) contract.ChatMemoryRepository {
	return &ChatMemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMemoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMemoryRepositoryImpl) Create(ctx context.Context, entry *entity.ChatMemoryEntry) error {
	m := r.mapper.MemoryEntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.MemoryEntryToEntity(m)
	return nil
}

func (r *ChatMemoryRepositoryImpl) CreateBulk(ctx context.Context, entries []*entity.ChatMemoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*model.ChatMemoryEntry, len(entries))
	for i, e := range entries {
		models[i] = r.mapper.MemoryEntryToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*entries[i] = *r.mapper.MemoryEntryToEntity(m)
	}
	return nil
}

func (r *ChatMemoryRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId string) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Delete(&model.ChatMemoryEntry{}).Error
}

func (r *ChatMemoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMemoryEntry, error) {
	var models []*model.ChatMemoryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMemoryEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MemoryEntryToEntity(m)
	}
	return entities, nil
}

func (r *ChatMemoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMemoryEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
