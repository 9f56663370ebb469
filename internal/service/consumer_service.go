// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"moodmuse-be/internal/dto"
	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/repository/specification"
	"moodmuse-be/internal/repository/unitofwork"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
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
	var payload dto.PublishEmbedEntryMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for MoodEntryId: %s", payload.MoodEntryId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.MoodEntryRepository().FindOne(ctx, specification.ByID{ID: payload.MoodEntryId})
	if err != nil {
		log.Printf("[ERROR] Failed to get mood entry %s: %v", payload.MoodEntryId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if entry == nil {
		log.Printf("[ERROR] Mood entry not found: %s", payload.MoodEntryId)
		msg.Ack() // Entry deleted? Ack.
		return
	}

	content := fmt.Sprintf(`Duygu: %s

%s

Tarih: %s`,
		entry.MoodLabel,
		entry.Text,
		entry.CreatedAt.Format(time.RFC3339),
	)

	log.Printf("[INFO] Generating embeddings for entry %s (content length: %d)", payload.MoodEntryId, len(content))

	chunks, err := utils.SplitText(content, 500, 120)
	if err != nil {
		log.Printf("[ERROR] Failed to split content for entry %s: %v", payload.MoodEntryId, err)
		msg.Ack() // Configuration bug, retrying won't help
		return
	}
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.JournalEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of entry %s: %v", i, payload.MoodEntryId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.JournalEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			MoodEntryId:    entry.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	log.Printf("[INFO] Deleting old embeddings for entry %s", payload.MoodEntryId)
	if err := uow.JournalEmbeddingRepository().DeleteByMoodEntryId(ctx, entry.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Creating %d new embeddings for entry %s", len(newEmbeddings), payload.MoodEntryId)
	if len(newEmbeddings) > 0 {
		if err := uow.JournalEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Entry processed: %d chunks for MoodEntryId: %s", len(newEmbeddings), payload.MoodEntryId)
	msg.Ack()
}
