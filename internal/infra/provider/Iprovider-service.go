package provider

import (
	"context"
	"io"
)

type IWhatsAppProvider interface {
	SendTextMessage(ctx context.Context, to, message string) error
	DownloadMedia(ctx context.Context, mediaID string, w io.Writer) error
}

type IGeneratorProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ITranscriberProvider interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}
