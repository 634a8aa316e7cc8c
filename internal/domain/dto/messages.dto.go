package dto

type IWebhookMessage struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string               `json:"messaging_product"`
	Metadata         WebhookMetadata      `json:"metadata"`
	Contacts         []WebhookContact     `json:"contacts"`
	Messages         []WebhookMessageData `json:"messages"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	Profile WebhookContactProfile `json:"profile"`
	WaID    string                `json:"wa_id"`
}

type WebhookContactProfile struct {
	Name string `json:"name"`
}

type WebhookMessageData struct {
	From      string        `json:"from"`
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	Text      *WebhookText  `json:"text,omitempty"`
	Audio     *WebhookMedia `json:"audio,omitempty"`
	Type      string        `json:"type"`
}

type WebhookText struct {
	Body string `json:"body"`
}

type WebhookMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
}

type IWhatsAppMessage struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             whatsAppMessageText `json:"text"`
}

type whatsAppMessageText struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// NewTextMessage builds the Cloud API payload for a plain text reply.
func NewTextMessage(to, body string) IWhatsAppMessage {
	message := IWhatsAppMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	message.Text.PreviewURL = false
	message.Text.Body = body
	return message
}

// MediaInfo is the Cloud API answer for GET /{media-id}.
type MediaInfo struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}
