package Iservices

import (
	"clinic-connector/internal/domain/entities"
	"context"
)

type IQueryAIService interface {
	Classify(ctx context.Context, message string, user *entities.UserRecord) (entities.Classification, error)
}

type IKnowledgeRetriever interface {
	Search(ctx context.Context, query string, topK int) string
}

type IAudioService interface {
	TranscribeMedia(ctx context.Context, mediaID string) (string, error)
}

type IQueryRouterService interface {
	HandleMessage(ctx context.Context, msg entities.InboundMessage)
}
