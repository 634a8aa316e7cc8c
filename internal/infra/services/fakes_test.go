package services

import (
	"clinic-connector/internal/domain/entities"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

type fakeDirectory struct {
	mu           sync.Mutex
	users        map[string]entities.UserRecord
	bookings     map[string][]entities.Booking
	err          error
	userCalls    int
	bookingCalls int
	lastPhone    string
}

func (f *fakeDirectory) Available() bool { return f.err == nil }

func (f *fakeDirectory) FindUserByPhone(ctx context.Context, phone string) (entities.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	f.lastPhone = phone
	if f.err != nil {
		return entities.UserRecord{}, f.err
	}
	user, ok := f.users[phone]
	if !ok {
		return entities.UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeDirectory) FindBookingsByUID(ctx context.Context, uid string) ([]entities.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings[uid], nil
}

func (f *fakeDirectory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userCalls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMessage struct {
	to   string
	body string
}

type fakeWhatsApp struct {
	mu       sync.Mutex
	sent     []sentMessage
	media    map[string]string
	sendErr  error
	mediaErr error
}

func (f *fakeWhatsApp) SendTextMessage(ctx context.Context, to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to, body: message})
	return f.sendErr
}

func (f *fakeWhatsApp) DownloadMedia(ctx context.Context, mediaID string, w io.Writer) error {
	if f.mediaErr != nil {
		return f.mediaErr
	}
	_, err := io.Copy(w, strings.NewReader(f.media[mediaID]))
	return err
}

func (f *fakeWhatsApp) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeGenerator struct {
	mu      sync.Mutex
	output  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeRetriever struct {
	passages string
	queries  []string
}

func (f *fakeRetriever) Search(ctx context.Context, query string, topK int) string {
	f.queries = append(f.queries, query)
	return f.passages
}

type fakeTranscriber struct {
	text  string
	err   error
	paths []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	f.paths = append(f.paths, filePath)
	return f.text, f.err
}

type fakeAudio struct {
	text  string
	err   error
	calls int
}

func (f *fakeAudio) TranscribeMedia(ctx context.Context, mediaID string) (string, error) {
	f.calls++
	return f.text, f.err
}
