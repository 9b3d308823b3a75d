package implementation

import (
	"context"
	"errors"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/mapper"
	"github.com/RakhimovY/AIChat/internal/model"
	"github.com/RakhimovY/AIChat/internal/repository/contract"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type LawReferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LawReferenceMapper
}

func NewLawReferenceRepository(db *gorm.DB) contract.LawReferenceRepository {
	return &LawReferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewLawReferenceMapper(),
	}
}

func (r *LawReferenceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LawReferenceRepositoryImpl) Create(ctx context.Context, reference *entity.LawReference) error {
	m := r.mapper.ToModel(reference)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*reference = *r.mapper.ToEntity(m)
	return nil
}

func (r *LawReferenceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LawReference{}, id).Error
}

func (r *LawReferenceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LawReference, error) {
	var m model.LawReference
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LawReferenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LawReference, error) {
	var models []*model.LawReference
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LawReference, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *LawReferenceRepositoryImpl) CreateChunk(ctx context.Context, chunk *entity.LawReferenceChunk) error {
	m := r.mapper.ChunkToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ChunkToEntity(m)
	return nil
}

func (r *LawReferenceRepositoryImpl) CreateChunksBulk(ctx context.Context, chunks []*entity.LawReferenceChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.LawReferenceChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *LawReferenceRepositoryImpl) DeleteChunksByReferenceId(ctx context.Context, referenceId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("law_reference_id = ?", referenceId).
		Delete(&model.LawReferenceChunk{}).Error
}

func (r *LawReferenceRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, country string) ([]*entity.ScoredLawChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity.
	type result struct {
		model.LawReferenceChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("law_reference_chunks").
		Select("law_reference_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector)

	if country != "" {
		query = query.
			Joins("JOIN law_references ON law_references.id = law_reference_chunks.law_reference_id").
			Where("law_references.country = ?", country)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredLawChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredLawChunk{
			Chunk: *r.mapper.ChunkToEntity(&res.LawReferenceChunk),
			Score: res.Similarity,
		}
	}
	return scored, nil
}
