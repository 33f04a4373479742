package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tc := []struct {
		name  string
		parts []string
		want  string
	}{
		{
			name:  "artist and title",
			parts: []string{"Artist Name", "Song Title"},
			want:  "Artist Name Song Title",
		},
		{
			name:  "extra whitespace",
			parts: []string{"  Artist   Name ", " Song\tTitle  "},
			want:  "Artist Name Song Title",
		},
		{
			name:  "decomposed accents are composed",
			parts: []string{"Beyoncé", "Halo"},
			want:  "Beyoncé Halo",
		},
		{
			name:  "cyrillic passes through",
			parts: []string{"Лили Иванова", "Ветрове", "lyrics"},
			want:  "Лили Иванова Ветрове lyrics",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeQuery(tt.parts...); got != tt.want {
				t.Errorf("NormalizeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tc := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a rather long artist name", 10, "a rather.."},
		{"Ветрове над полето", 8, "Ветров.."},
	}

	for _, tt := range tc {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "run", "dates").Info("hello")
		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "run=dates") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "songdeck.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("to file")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("expected log line in file, got %q", string(data))
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct identifiers")
		}
	})
}
