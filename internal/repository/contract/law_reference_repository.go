package contract

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"github.com/google/uuid"
)

type LawReferenceRepository interface {
	Create(ctx context.Context, reference *entity.LawReference) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LawReference, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LawReference, error)

	CreateChunk(ctx context.Context, chunk *entity.LawReferenceChunk) error
	CreateChunksBulk(ctx context.Context, chunks []*entity.LawReferenceChunk) error
	DeleteChunksByReferenceId(ctx context.Context, referenceId uuid.UUID) error

	// SearchSimilar returns the closest chunks by cosine distance, optionally
	// restricted to one jurisdiction (empty country searches all).
	SearchSimilar(ctx context.Context, embedding []float32, limit int, country string) ([]*entity.ScoredLawChunk, error)
}
