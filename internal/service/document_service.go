package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/extract"
	"github.com/RakhimovY/AIChat/pkg/storage"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	presignedURLTTL = 15 * time.Minute
)

type IDocumentService interface {
	SaveDocument(ctx context.Context, file *multipart.FileHeader, chat *entity.Chat) (*entity.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	// ExtractTextContent never fails outward; unsupported formats yield a
	// placeholder describing the file.
	ExtractTextContent(ctx context.Context, document *entity.Document) string
	GetDocumentURL(ctx context.Context, document *entity.Document) string
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	objectStorage    *storage.ObjectStorage
	publisherService IPublisherService
	urlCache         *gocache.Cache
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	objectStorage *storage.ObjectStorage,
	publisherService IPublisherService,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		objectStorage:    objectStorage,
		publisherService: publisherService,
		// Cached links must expire before the presigned URL itself does.
		urlCache: gocache.New(presignedURLTTL-time.Minute, 5*time.Minute),
		logger:   log,
	}
}

func (s *documentService) SaveDocument(ctx context.Context, file *multipart.FileHeader, chat *entity.Chat) (*entity.Document, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	objectKey := fmt.Sprintf("%s-%d-%s", chat.Id, time.Now().UnixMilli(), file.Filename)

	if err := s.objectStorage.Put(ctx, objectKey, src, file.Size, contentType); err != nil {
		return nil, err
	}

	document := &entity.Document{
		Id:          uuid.New(),
		ChatId:      chat.Id,
		Name:        file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		ObjectKey:   objectKey,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	// Queue background extraction so ask-time reads hit the cached text.
	payload, err := json.Marshal(dto.PublishExtractDocumentMessage{DocumentId: document.Id})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("DocumentService", "Failed to queue extraction job", map[string]interface{}{"document_id": document.Id.String(), "error": err.Error()})
		}
	}

	return document, nil
}

func (s *documentService) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, ErrDocumentNotFound
	}
	return document, nil
}

func (s *documentService) ExtractTextContent(ctx context.Context, document *entity.Document) string {
	if document.ExtractedText != nil {
		return *document.ExtractedText
	}

	data, err := s.objectStorage.Get(ctx, document.ObjectKey)
	if err != nil {
		s.logger.Error("DocumentService", "Failed to fetch document for extraction", map[string]interface{}{"document_id": document.Id.String(), "error": err.Error()})
		return fmt.Sprintf("Документ: %s. Не удалось прочитать содержимое.", document.Name)
	}

	text, err := extract.Text(document.Name, document.ContentType, data)
	if err != nil {
		s.logger.Error("DocumentService", "Text extraction failed", map[string]interface{}{"document_id": document.Id.String(), "error": err.Error()})
		return fmt.Sprintf("Документ: %s. Не удалось извлечь текст.", document.Name)
	}
	return text
}

func (s *documentService) GetDocumentURL(ctx context.Context, document *entity.Document) string {
	cacheKey := document.Id.String()
	if cached, found := s.urlCache.Get(cacheKey); found {
		return cached.(string)
	}

	url, err := s.objectStorage.PresignedGetURL(ctx, document.ObjectKey, document.Name, presignedURLTTL)
	if err != nil {
		s.logger.Error("DocumentService", "Failed to presign document URL", map[string]interface{}{"document_id": document.Id.String(), "error": err.Error()})
		return ""
	}

	s.urlCache.Set(cacheKey, url, gocache.DefaultExpiration)
	return url
}
