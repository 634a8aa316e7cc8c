package provider

import (
	"clinic-connector/internal/infra/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrGeneratorUnavailable   = errors.New("generative model is not configured")
	ErrTranscriberUnavailable = errors.New("transcription model is not configured")
	ErrEmptyGeneration        = errors.New("model returned no content")
)

const generationTemperature = 0.7

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// GeminiProvider talks to Gemini through its OpenAI-compatible endpoint.
type GeminiProvider struct {
	Logger *logger.Logger
	Model  string
	client chatClient
}

func NewGeminiProvider(logger *logger.Logger, apiKey, baseURL, model string) *GeminiProvider {
	provider := &GeminiProvider{Logger: logger, Model: model}
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set; assistant answers are disabled")
		return provider
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	provider.client = openai.NewClientWithConfig(cfg)
	return provider
}

func (th *GeminiProvider) Available() bool {
	return th.client != nil
}

func (th *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if th.client == nil {
		return "", ErrGeneratorUnavailable
	}

	resp, err := th.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       th.Model,
		Temperature: generationTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyGeneration
	}

	return resp.Choices[0].Message.Content, nil
}

// WhisperProvider transcribes audio files with an OpenAI-compatible Whisper endpoint.
type WhisperProvider struct {
	Logger *logger.Logger
	Model  string
	client audioClient
}

func NewWhisperProvider(logger *logger.Logger, apiKey, baseURL, model string) *WhisperProvider {
	provider := &WhisperProvider{Logger: logger, Model: model}
	if apiKey == "" {
		logger.Warn("TRANSCRIBE_API_KEY not set; voice messages will be declined")
		return provider
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	provider.client = openai.NewClientWithConfig(cfg)
	return provider
}

func (th *WhisperProvider) Available() bool {
	return th.client != nil
}

func (th *WhisperProvider) Transcribe(ctx context.Context, filePath string) (string, error) {
	if th.client == nil {
		return "", ErrTranscriberUnavailable
	}

	resp, err := th.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    th.Model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}
