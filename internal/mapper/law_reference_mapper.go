package mapper

import (
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/model"

	"github.com/pgvector/pgvector-go"
)

type LawReferenceMapper struct{}

func NewLawReferenceMapper() *LawReferenceMapper {
	return &LawReferenceMapper{}
}

func (m *LawReferenceMapper) ToEntity(r *model.LawReference) *entity.LawReference {
	if r == nil {
		return nil
	}

	return &entity.LawReference{
		Id:        r.Id,
		Country:   r.Country,
		Title:     r.Title,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
	}
}

func (m *LawReferenceMapper) ToModel(r *entity.LawReference) *model.LawReference {
	if r == nil {
		return nil
	}

	return &model.LawReference{
		Id:        r.Id,
		Country:   r.Country,
		Title:     r.Title,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
	}
}

func (m *LawReferenceMapper) ChunkToEntity(c *model.LawReferenceChunk) *entity.LawReferenceChunk {
	if c == nil {
		return nil
	}

	return &entity.LawReferenceChunk{
		Id:             c.Id,
		LawReferenceId: c.LawReferenceId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		Embedding:      c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *LawReferenceMapper) ChunkToModel(c *entity.LawReferenceChunk) *model.LawReferenceChunk {
	if c == nil {
		return nil
	}

	return &model.LawReferenceChunk{
		Id:             c.Id,
		LawReferenceId: c.LawReferenceId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		EmbeddingValue: pgvector.NewVector(c.Embedding),
		CreatedAt:      c.CreatedAt,
	}
}
