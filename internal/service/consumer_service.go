// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/extract"
	"github.com/RakhimovY/AIChat/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the extraction topic: it pulls the stored object,
// extracts plain text and caches it on the document row so conversation turns
// do not re-parse the file.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	uowFactory    unitofwork.RepositoryFactory
	objectStorage *storage.ObjectStorage
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	objectStorage *storage.ObjectStorage,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		uowFactory:    uowFactory,
		objectStorage: objectStorage,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishExtractDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal extraction job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		// Document deleted before the job ran.
		msg.Ack()
		return
	}
	if document.ExtractedText != nil {
		msg.Ack()
		return
	}

	data, err := cs.objectStorage.Get(ctx, document.ObjectKey)
	if err != nil {
		log.Printf("[ERROR] Failed to fetch object %s: %v", document.ObjectKey, err)
		msg.Nack()
		return
	}

	text, err := extract.Text(document.Name, document.ContentType, data)
	if err != nil {
		// Parser failures are permanent for this payload; the ask path will
		// fall back to its placeholder.
		log.Printf("[ERROR] Extraction failed for document %s: %v", document.Id, err)
		msg.Ack()
		return
	}

	if err := uow.DocumentRepository().UpdateExtractedText(ctx, document.Id, text); err != nil {
		log.Printf("[ERROR] Failed to store extracted text for %s: %v", document.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Extracted %d chars for document %s", len(text), document.Id)
	msg.Ack()
}
