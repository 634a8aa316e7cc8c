package services

import (
	"clinic-connector/internal/domain/entities"
	Iservices "clinic-connector/internal/domain/interfaces/services"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/provider"
	"context"
	"fmt"
	"strings"
)

const (
	intentMarker   = "INTENT:"
	responseMarker = "RESPONSE:"
)

const classifierPrompt = `You are the WhatsApp assistant of a network of medical clinics.
Classify the user's message into exactly one intent and write a short, friendly reply.

Intents:
- upcoming_bookings: the user asks about appointments that have not happened yet
- past_bookings: the user asks about appointments that already happened
- user_name: the user asks what their name is or who they are registered as
- general: anything else, answered from the clinic information below

Clinic information:
%s

User:
%s

Message:
%s

Answer in exactly this format, with nothing before or after:
INTENT: <upcoming_bookings|past_bookings|user_name|general>
RESPONSE: <your reply to the user>`

// QueryAIService classifies a message and drafts an answer with a single model call.
type QueryAIService struct {
	Logger    *logger.Logger
	Generator provider.IGeneratorProvider
	Retriever Iservices.IKnowledgeRetriever
	TopK      int
	Apology   string
}

func NewQueryAIService(logger *logger.Logger, generator provider.IGeneratorProvider, retriever Iservices.IKnowledgeRetriever, topK int, apology string) *QueryAIService {
	return &QueryAIService{
		Logger:    logger,
		Generator: generator,
		Retriever: retriever,
		TopK:      topK,
		Apology:   apology,
	}
}

// Classify returns the model's intent and answer for message.
//
// Parameters:
//   - message: the user's text, or the transcript of a voice note.
//   - user: the resolved user, nil when the sender is unknown.
//
// Returns:
//   - entities.Classification: always usable. On any failure it is the general
//     intent with the configured apology as answer.
//   - error: the failure behind a fallback classification, for logging only.
func (th *QueryAIService) Classify(ctx context.Context, message string, user *entities.UserRecord) (entities.Classification, error) {
	fallback := entities.Classification{Intent: entities.IntentGeneral, Answer: th.Apology}

	prompt := fmt.Sprintf(classifierPrompt, th.Retriever.Search(ctx, message, th.TopK), describeUser(user), message)

	output, err := th.Generator.Generate(ctx, prompt)
	if err != nil {
		return fallback, fmt.Errorf("failed to classify message: %w", err)
	}

	classification := ParseClassification(output)
	if classification.Answer == "" {
		classification.Answer = th.Apology
	}

	th.Logger.Debug(fmt.Sprintf("Classified message as %s", classification.Intent))
	return classification, nil
}

// ParseClassification reads the "INTENT: x" / "RESPONSE: y" contract. A missing
// or unknown intent is general; a missing response marker leaves the remaining
// text as the answer.
func ParseClassification(output string) entities.Classification {
	firstLine, rest, _ := strings.Cut(output, "\n")

	intent := entities.IntentGeneral
	if _, label, found := strings.Cut(firstLine, intentMarker); found {
		intent = entities.ParseIntent(label)
	} else {
		rest = output
	}

	answer := rest
	if _, after, found := strings.Cut(rest, responseMarker); found {
		answer = after
	}

	return entities.Classification{Intent: intent, Answer: strings.TrimSpace(answer)}
}

func describeUser(user *entities.UserRecord) string {
	if user == nil {
		return "Unregistered user; no bookings can be looked up."
	}

	name := user.Name
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("Name: %s\nRegistered: yes", name)
}
