package entities

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeAudio MessageType = "audio"
)

// InboundMessage is one user message extracted from a webhook event.
// Body holds the text for text messages and the gateway media id for audio.
type InboundMessage struct {
	ID       string
	SenderID string
	Type     MessageType
	Body     string
}
