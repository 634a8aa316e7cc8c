package provider

import (
	"bytes"
	"clinic-connector/internal/domain/dto"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/pkg/jsonx"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrGatewayNotConfigured = errors.New("whatsapp gateway is not configured")

type MetaWhatsAppProvider struct {
	Logger        *logger.Logger
	HttpClient    *http.Client
	GraphAPIURL   string
	Version       string
	PhoneNumberID string
	AccessToken   string
}

func NewMetaWhatsAppProvider(logger *logger.Logger, httpClient *http.Client, graphAPIURL, version, phoneNumberID, accessToken string) *MetaWhatsAppProvider {
	return &MetaWhatsAppProvider{
		Logger:        logger,
		HttpClient:    httpClient,
		GraphAPIURL:   strings.TrimRight(graphAPIURL, "/"),
		Version:       version,
		PhoneNumberID: phoneNumberID,
		AccessToken:   accessToken,
	}
}

// SendTextMessage sends a text message to a recipient through the WhatsApp Cloud API.
//
// Parameters:
//   - to: string - The recipient's WhatsApp id, as received in the webhook "from" field.
//   - message: string - The content of the text message to be sent.
//
// Returns:
//   - error: ErrGatewayNotConfigured when the phone number id or token is missing,
//     otherwise any request failure or non-2xx response from the API.
func (th *MetaWhatsAppProvider) SendTextMessage(ctx context.Context, to, message string) error {
	if to == "" || message == "" {
		return fmt.Errorf("recipient (to) and message cannot be empty")
	}
	if th.PhoneNumberID == "" || th.AccessToken == "" {
		return ErrGatewayNotConfigured
	}

	payload, err := jsonx.Marshal(dto.NewTextMessage(to, message))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s/%s/messages", th.GraphAPIURL, th.Version, th.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", th.AccessToken))

	res, err := th.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		th.Logger.Error(fmt.Sprintf("API returned an error. Status: %d, Body: %s", res.StatusCode, string(body)))
		return fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	th.Logger.Debug(fmt.Sprintf("WhatsApp message sent successfully. Response: %s", string(body)))
	return nil
}

// DownloadMedia resolves mediaID to its temporary URL and streams the file into w.
func (th *MetaWhatsAppProvider) DownloadMedia(ctx context.Context, mediaID string, w io.Writer) error {
	if mediaID == "" {
		return fmt.Errorf("media id cannot be empty")
	}
	if th.AccessToken == "" {
		return ErrGatewayNotConfigured
	}

	res, err := th.get(ctx, fmt.Sprintf("%s/%s/%s", th.GraphAPIURL, th.Version, mediaID))
	if err != nil {
		return fmt.Errorf("failed to resolve media %s: %w", mediaID, err)
	}
	var media dto.MediaInfo
	err = jsonx.NewDecoder(res.Body).Decode(&media)
	res.Body.Close()
	if err != nil {
		return fmt.Errorf("error decoding media response: %w", err)
	}
	if media.URL == "" {
		return fmt.Errorf("media %s has no download url", mediaID)
	}

	res, err = th.get(ctx, media.URL)
	if err != nil {
		return fmt.Errorf("failed to download media %s: %w", mediaID, err)
	}
	defer res.Body.Close()

	if _, err := io.Copy(w, res.Body); err != nil {
		return fmt.Errorf("failed to write media %s: %w", mediaID, err)
	}
	return nil
}

func (th *MetaWhatsAppProvider) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", th.AccessToken))

	res, err := th.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status: %s response_body %s", res.Status, string(body))
	}
	return res, nil
}
