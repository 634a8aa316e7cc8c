package handlers

import (
	"clinic-connector/internal/domain/dto"
	"clinic-connector/internal/domain/entities"
	Iservices "clinic-connector/internal/domain/interfaces/services"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/worker"
	"clinic-connector/internal/pkg/jsonx"
	"context"
	"fmt"
	"net/http"
)

const eventReceived = "EVENT_RECEIVED"

type JobQueue interface {
	Enqueue(job worker.Job) bool
}

type HttpHandlers struct {
	Logger             *logger.Logger
	VerifyToken        string
	QueryRouterService Iservices.IQueryRouterService
	Queue              JobQueue
}

func NewHttpHandlers(logger *logger.Logger, verifyToken string, queryRouterService Iservices.IQueryRouterService, queue JobQueue) *HttpHandlers {
	return &HttpHandlers{Logger: logger, VerifyToken: verifyToken, QueryRouterService: queryRouterService, Queue: queue}
}

// MetaWebhook is a unified handler for WhatsApp webhook requests.
//
// This function handles both verification requests (GET) and event notifications (POST)
// sent by the WhatsApp Meta API to the configured webhook URL.
//
// HTTP Status Codes:
// - 200 OK: verification succeeded, or an event was received (even a malformed one).
// - 403 Forbidden: the verification token is missing or does not match.
// - 405 Method Not Allowed: any other HTTP method.
func (th *HttpHandlers) MetaWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		th.handleVerification(w, r)
		return
	}

	if r.Method == http.MethodPost {
		th.handleWebhookEvent(w, r)
		return
	}

	http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
}

// handleVerification handles the webhook verification process for WhatsApp Meta API (GET request).
//
// Expected Query Parameters:
// - hub.mode (string): Should be equal to "subscribe".
// - hub.challenge (string): A random string sent by WhatsApp that should be echoed back in the response.
// - hub.verify_token (string): Must match the configured VERIFY_TOKEN, which itself must not be empty.
func (th *HttpHandlers) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "subscribe" && th.VerifyToken != "" && token == th.VerifyToken {
		th.Logger.Info("Webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	th.Logger.Warn("Webhook verification failed")
	http.Error(w, "Webhook verification failed.", http.StatusForbidden)
}

// handleWebhookEvent acknowledges every POST with 200 EVENT_RECEIVED so the gateway
// never redelivers, and enqueues one job per text or audio message in the payload.
func (th *HttpHandlers) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	defer func() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(eventReceived))
	}()

	var body dto.IWebhookMessage
	if err := jsonx.NewDecoder(r.Body).Decode(&body); err != nil {
		th.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		return
	}

	messages := ExtractMessages(body)
	if len(messages) == 0 {
		th.Logger.Debug("Received webhook event with no messages.")
		return
	}

	for _, msg := range messages {
		msg := msg
		th.Logger.Info(fmt.Sprintf("Message %s from %s queued", msg.ID, msg.SenderID))
		th.Queue.Enqueue(func(ctx context.Context) {
			th.QueryRouterService.HandleMessage(ctx, msg)
		})
	}
}

// ExtractMessages flattens a webhook payload into inbound messages, skipping
// status callbacks and message types other than text and audio.
func ExtractMessages(body dto.IWebhookMessage) []entities.InboundMessage {
	var messages []entities.InboundMessage

	for _, entry := range body.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.From == "" {
					continue
				}

				switch {
				case m.Type == string(entities.MessageTypeText) && m.Text != nil:
					messages = append(messages, entities.InboundMessage{
						ID:       m.ID,
						SenderID: m.From,
						Type:     entities.MessageTypeText,
						Body:     m.Text.Body,
					})
				case m.Type == string(entities.MessageTypeAudio) && m.Audio != nil && m.Audio.ID != "":
					messages = append(messages, entities.InboundMessage{
						ID:       m.ID,
						SenderID: m.From,
						Type:     entities.MessageTypeAudio,
						Body:     m.Audio.ID,
					})
				}
			}
		}
	}

	return messages
}
