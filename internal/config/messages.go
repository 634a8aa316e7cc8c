package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Messages are the canned replies the router sends without asking the model.
type Messages struct {
	TriggerPhrase    string `yaml:"trigger_phrase"`
	Greeting         string `yaml:"greeting"`
	GreetingFallback string `yaml:"greeting_fallback_name"`
	AudioProcessing  string `yaml:"audio_processing"`
	AudioFailed      string `yaml:"audio_failed"`
	AssistantError   string `yaml:"assistant_error"`
	UserNameTemplate string `yaml:"user_name_template"`
}

func DefaultMessages() Messages {
	return Messages{
		TriggerPhrase:    "need help?",
		Greeting:         "Hello %s! 👋 I can tell you about your upcoming or past bookings, or answer questions about our clinics. What would you like to know?",
		GreetingFallback: "there",
		AudioProcessing:  "🎧 Got your voice message, give me a moment to listen to it...",
		AudioFailed:      "Sorry, I couldn't understand your voice message. Could you please type your question instead?",
		AssistantError:   "Sorry, I'm having trouble answering right now. Please try again in a little while.",
		UserNameTemplate: "Your name is %s.",
	}
}

// LoadMessages overlays the YAML file at path on top of DefaultMessages.
// An empty path returns the defaults.
func LoadMessages(path string) (Messages, error) {
	messages := DefaultMessages()
	if path == "" {
		return messages, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return messages, fmt.Errorf("failed to read messages file: %w", err)
	}

	var override Messages
	if err := yaml.Unmarshal(data, &override); err != nil {
		return messages, fmt.Errorf("failed to parse messages file: %w", err)
	}

	merge(&messages.TriggerPhrase, override.TriggerPhrase)
	merge(&messages.Greeting, override.Greeting)
	merge(&messages.GreetingFallback, override.GreetingFallback)
	merge(&messages.AudioProcessing, override.AudioProcessing)
	merge(&messages.AudioFailed, override.AudioFailed)
	merge(&messages.AssistantError, override.AssistantError)
	merge(&messages.UserNameTemplate, override.UserNameTemplate)

	return messages, nil
}

func merge(target *string, value string) {
	if value != "" {
		*target = value
	}
}
