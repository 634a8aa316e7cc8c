package handlers

import (
	"clinic-connector/internal/domain/entities"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/worker"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncQueue struct{}

func (syncQueue) Enqueue(job worker.Job) bool {
	job(context.Background())
	return true
}

type recordingRouter struct {
	mu       sync.Mutex
	messages []entities.InboundMessage
}

func (r *recordingRouter) HandleMessage(ctx context.Context, msg entities.InboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func newTestHandlers(router *recordingRouter) *HttpHandlers {
	return NewHttpHandlers(logger.Discard(), "secret", router, syncQueue{})
}

func TestWebhookVerification(t *testing.T) {
	h := newTestHandlers(&recordingRouter{})

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=123", nil)
	rec := httptest.NewRecorder()
	h.MetaWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123", rec.Body.String())
}

func TestWebhookVerificationRejected(t *testing.T) {
	cases := map[string]string{
		"wrong token":  "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=123",
		"wrong mode":   "/webhook?hub.mode=unsubscribe&hub.verify_token=secret&hub.challenge=123",
		"missing args": "/webhook",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			h := newTestHandlers(&recordingRouter{})
			rec := httptest.NewRecorder()
			h.MetaWebhook(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestWebhookVerificationRequiresConfiguredToken(t *testing.T) {
	h := NewHttpHandlers(logger.Discard(), "", &recordingRouter{}, syncQueue{})

	rec := httptest.NewRecorder()
	h.MetaWebhook(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=&hub.challenge=123", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookEventEnqueuesEveryMessage(t *testing.T) {
	router := &recordingRouter{}
	h := newTestHandlers(router)

	payload := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{
		"messaging_product":"whatsapp",
		"messages":[
			{"from":"919876543210","id":"wamid.1","timestamp":"1","type":"text","text":{"body":"need help?"}},
			{"from":"919876543210","id":"wamid.2","timestamp":"2","type":"audio","audio":{"id":"media-9","mime_type":"audio/ogg"}},
			{"from":"919876543210","id":"wamid.3","timestamp":"3","type":"image","image":{"id":"img"}}
		]}}]}]}`

	rec := httptest.NewRecorder()
	h.MetaWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EVENT_RECEIVED", rec.Body.String())

	require.Len(t, router.messages, 2)
	assert.Equal(t, entities.InboundMessage{ID: "wamid.1", SenderID: "919876543210", Type: entities.MessageTypeText, Body: "need help?"}, router.messages[0])
	assert.Equal(t, entities.InboundMessage{ID: "wamid.2", SenderID: "919876543210", Type: entities.MessageTypeAudio, Body: "media-9"}, router.messages[1])
}

func TestWebhookEventMalformedStillAcknowledged(t *testing.T) {
	router := &recordingRouter{}
	h := newTestHandlers(router)

	for _, body := range []string{`{"entry":`, `not json`, `{}`, `{"entry":[{"changes":[{"value":{"statuses":[{"id":"x"}]}}]}]}`} {
		rec := httptest.NewRecorder()
		h.MetaWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "EVENT_RECEIVED", rec.Body.String(), body)
	}
	assert.Empty(t, router.messages)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	h := newTestHandlers(&recordingRouter{})

	rec := httptest.NewRecorder()
	h.MetaWebhook(rec, httptest.NewRequest(http.MethodDelete, "/webhook", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
