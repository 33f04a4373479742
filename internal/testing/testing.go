// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/store"
)

// Songs returns a small collection covering the interesting cases: a resolved song,
// one with the sentinel video reference, and one with no date at all.
func Songs() []models.Song {
	return []models.Song{
		{ID: 1, Artist: "Queen", Title: "Bohemian Rhapsody", Date: "10.1975", VideoID: "fJ9rUzIMcZQ"},
		{ID: 2, Artist: "Щурците", Title: "Клетва", Date: "01.1982", VideoID: models.NoVideo},
		{ID: 3, Artist: "Nirvana", Title: "Smells Like Teen Spirit", VideoID: "hTWKbfoikeg"},
	}
}

// WriteCollection saves songs to songs.json inside dir and returns the path.
func WriteCollection(t *testing.T, dir string, songs []models.Song) string {
	t.Helper()
	path := filepath.Join(dir, "songs.json")
	if err := store.Save(path, songs); err != nil {
		t.Fatalf("Failed to write collection: %v", err)
	}
	return path
}

// SleepRecorder stands in for a context-aware sleep and records every requested duration.
type SleepRecorder struct {
	mu    sync.Mutex
	Slept []time.Duration
}

func (s *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Slept = append(s.Slept, d)
	return ctx.Err()
}

func (s *SleepRecorder) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Slept)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
