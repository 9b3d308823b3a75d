package service

import (
	"context"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/embedding"
	"github.com/RakhimovY/AIChat/pkg/utils"

	"github.com/google/uuid"
)

const (
	// Chunk sizing mirrors the extraction worker: ~375 tokens per chunk with
	// enough overlap to keep article boundaries intact.
	lawChunkSize    = 1500
	lawChunkOverlap = 200

	lawSearchLimit = 3
)

type ILibraryService interface {
	// IngestLaw chunks, embeds and stores one legal text for a jurisdiction.
	IngestLaw(ctx context.Context, req *dto.IngestLawRequest) (*dto.LawReferenceResponse, error)
	ListReferences(ctx context.Context, country string) ([]dto.LawReferenceResponse, error)
	DeleteReference(ctx context.Context, id uuid.UUID) error

	// SearchExcerpts returns the most similar statute excerpts for a question,
	// best effort: any failure yields an empty slice, never an error, so the
	// conversation path stays unaffected.
	SearchExcerpts(ctx context.Context, question, country string) []string
}

type libraryService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewLibraryService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) ILibraryService {
	return &libraryService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (s *libraryService) IngestLaw(ctx context.Context, req *dto.IngestLawRequest) (*dto.LawReferenceResponse, error) {
	reference := &entity.LawReference{
		Id:        uuid.New(),
		Country:   req.Country,
		Title:     req.Title,
		Source:    req.Source,
		CreatedAt: time.Now(),
	}

	chunks := utils.SplitText(req.Text, lawChunkSize, lawChunkOverlap)

	embedded := make([]*entity.LawReferenceChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		embedded = append(embedded, &entity.LawReferenceChunk{
			Id:             uuid.New(),
			LawReferenceId: reference.Id,
			ChunkIndex:     i,
			Content:        chunk,
			Embedding:      res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.LawReferenceRepository().Create(ctx, reference); err != nil {
		return nil, err
	}
	if err := uow.LawReferenceRepository().CreateChunksBulk(ctx, embedded); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.LawReferenceResponse{
		Id:        reference.Id,
		Country:   reference.Country,
		Title:     reference.Title,
		Source:    reference.Source,
		Chunks:    len(embedded),
		CreatedAt: reference.CreatedAt,
	}, nil
}

func (s *libraryService) ListReferences(ctx context.Context, country string) ([]dto.LawReferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if country != "" {
		specs = append(specs, specification.ByCountry{Country: country})
	}

	references, err := uow.LawReferenceRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LawReferenceResponse, 0, len(references))
	for _, ref := range references {
		items = append(items, dto.LawReferenceResponse{
			Id:        ref.Id,
			Country:   ref.Country,
			Title:     ref.Title,
			Source:    ref.Source,
			CreatedAt: ref.CreatedAt,
		})
	}
	return items, nil
}

func (s *libraryService) DeleteReference(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.LawReferenceRepository().DeleteChunksByReferenceId(ctx, id); err != nil {
		return err
	}
	if err := uow.LawReferenceRepository().Delete(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *libraryService) SearchExcerpts(ctx context.Context, question, country string) []string {
	res, err := s.embeddingProvider.Generate(ctx, question, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Warn("LibraryService", "Failed to embed question", map[string]interface{}{"error": err.Error()})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.LawReferenceRepository().SearchSimilar(ctx, res.Embedding.Values, lawSearchLimit, country)
	if err != nil {
		s.logger.Warn("LibraryService", "Statute search failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	excerpts := make([]string, 0, len(scored))
	for _, sc := range scored {
		excerpts = append(excerpts, sc.Chunk.Content)
	}
	return excerpts
}
