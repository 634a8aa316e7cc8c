package services

import (
	"clinic-connector/internal/config"
	"clinic-connector/internal/domain/entities"
	Iservices "clinic-connector/internal/domain/interfaces/services"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/provider"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QueryRouterService runs the per-message pipeline and sends exactly one answer
// for every message it accepts.
type QueryRouterService struct {
	Logger           *logger.Logger
	IdentityCache    Iservices.IIdentityCache
	Directory        Iservices.IDirectoryService
	QueryAIService   Iservices.IQueryAIService
	AudioService     Iservices.IAudioService
	WhatsAppProvider provider.IWhatsAppProvider
	Messages         config.Messages
}

func NewQueryRouterService(logger *logger.Logger, identityCache Iservices.IIdentityCache, directory Iservices.IDirectoryService, queryAIService Iservices.IQueryAIService, audioService Iservices.IAudioService, whatsAppProvider provider.IWhatsAppProvider, messages config.Messages) *QueryRouterService {
	return &QueryRouterService{
		Logger:           logger,
		IdentityCache:    identityCache,
		Directory:        directory,
		QueryAIService:   queryAIService,
		AudioService:     audioService,
		WhatsAppProvider: whatsAppProvider,
		Messages:         messages,
	}
}

func (th *QueryRouterService) HandleMessage(ctx context.Context, msg entities.InboundMessage) {
	log := th.Logger.With(logrus.Fields{
		"job_id":     uuid.NewString(),
		"from":       msg.SenderID,
		"message_id": msg.ID,
		"type":       string(msg.Type),
	})
	to := msg.SenderID

	text := msg.Body
	if msg.Type == entities.MessageTypeAudio {
		th.reply(ctx, log, to, th.Messages.AudioProcessing)

		transcript, err := th.AudioService.TranscribeMedia(ctx, msg.Body)
		if err != nil {
			log.Error(fmt.Sprintf("Failed to transcribe voice note: %v", err))
			th.reply(ctx, log, to, th.Messages.AudioFailed)
			return
		}
		log.Info("Voice note transcribed")
		text = transcript
	}

	user := th.IdentityCache.Resolve(ctx, msg.SenderID)

	if th.isTrigger(text) {
		th.reply(ctx, log, to, renderTemplate(th.Messages.Greeting, th.displayName(user)))
		return
	}

	classification, err := th.QueryAIService.Classify(ctx, text, user)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to execute AI query: %v", err))
	}
	log.Info(fmt.Sprintf("Message classified as %s", classification.Intent))

	th.reply(ctx, log, to, th.compose(ctx, log, classification, user))
}

func (th *QueryRouterService) compose(ctx context.Context, log *logger.Logger, classification entities.Classification, user *entities.UserRecord) string {
	switch classification.Intent {
	case entities.IntentUpcomingBookings, entities.IntentPastBookings:
		if user == nil || user.UID == "" {
			return classification.Answer
		}

		bookings, err := th.Directory.FindBookingsByUID(ctx, user.UID)
		if err != nil {
			log.Error(fmt.Sprintf("Failed to fetch bookings for uid %s: %v", user.UID, err))
			bookings = nil
		}

		if classification.Intent == entities.IntentUpcomingBookings {
			return FormatUpcomingBookings(bookings)
		}
		return FormatPastBookings(bookings)

	case entities.IntentUserName:
		if user != nil && strings.TrimSpace(user.Name) != "" {
			return renderTemplate(th.Messages.UserNameTemplate, user.Name)
		}
	}

	return classification.Answer
}

func (th *QueryRouterService) reply(ctx context.Context, log *logger.Logger, to, message string) {
	if err := th.WhatsAppProvider.SendTextMessage(ctx, to, message); err != nil {
		log.Error(fmt.Sprintf("Failed to send WhatsApp message to %s: %v", to, err))
		return
	}
	log.Info("Reply sent")
}

func (th *QueryRouterService) isTrigger(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(th.Messages.TriggerPhrase))
}

func (th *QueryRouterService) displayName(user *entities.UserRecord) string {
	if user != nil && strings.TrimSpace(user.Name) != "" {
		return user.Name
	}
	return th.Messages.GreetingFallback
}

func renderTemplate(template, value string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, value)
}
