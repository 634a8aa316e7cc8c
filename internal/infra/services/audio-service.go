package services

import (
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/provider"
	"context"
	"fmt"
	"os"
)

// AudioService turns a WhatsApp voice note into text.
type AudioService struct {
	Logger      *logger.Logger
	Gateway     provider.IWhatsAppProvider
	Transcriber provider.ITranscriberProvider
	TempDir     string
}

func NewAudioService(logger *logger.Logger, gateway provider.IWhatsAppProvider, transcriber provider.ITranscriberProvider) *AudioService {
	return &AudioService{Logger: logger, Gateway: gateway, Transcriber: transcriber}
}

// TranscribeMedia downloads mediaID into a temporary file and transcribes it.
// The file is removed before returning on every path.
func (th *AudioService) TranscribeMedia(ctx context.Context, mediaID string) (string, error) {
	file, err := os.CreateTemp(th.TempDir, "voice-*.ogg")
	if err != nil {
		return "", fmt.Errorf("failed to create temp audio file: %w", err)
	}
	path := file.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			th.Logger.Warn(fmt.Sprintf("Failed to remove temp audio file %s: %v", path, err))
		}
	}()

	err = th.Gateway.DownloadMedia(ctx, mediaID, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to download voice note: %w", err)
	}

	text, err := th.Transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}

	th.Logger.Debug(fmt.Sprintf("Transcribed voice note %s", mediaID))
	return text, nil
}
