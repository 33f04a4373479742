package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

func fixture() []models.Song {
	return []models.Song{
		{ID: 3, Artist: "Щурците", Title: "Клетва", Date: "01.1982", VideoID: "abc123"},
		{ID: 1, Artist: "Queen", Title: "Bohemian Rhapsody", Date: "10.1975", VideoID: models.NoVideo},
		{ID: 2, Artist: "AC/DC", Title: "T.N.T. & <More>", VideoID: "xyz"},
	}
}

func TestEncode(t *testing.T) {
	t.Run("per-line layout", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, fixture()); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}

		want := "[\n" +
			`  {"id":3,"artist":"Щурците","song":"Клетва","date":"01.1982","vidId":"abc123"},` + "\n" +
			`  {"id":1,"artist":"Queen","song":"Bohemian Rhapsody","date":"10.1975","vidId":"NONE"},` + "\n" +
			`  {"id":2,"artist":"AC/DC","song":"T.N.T. & <More>","vidId":"xyz"}` + "\n" +
			"]\n"
		if got := buf.String(); got != want {
			t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, nil); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if buf.String() != "[\n]\n" {
			t.Errorf("unexpected output %q", buf.String())
		}

		songs, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(songs) != 0 {
			t.Errorf("expected no songs, got %d", len(songs))
		}
	})
}

func TestLoadSave(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		if err := Save(path, fixture()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		songs, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		want := []int{3, 1, 2}
		got := models.IDs(songs)
		if len(got) != len(want) {
			t.Fatalf("expected %d songs, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected id %d, got %d", i, want[i], got[i])
			}
		}
		if songs[0].Artist != "Щурците" {
			t.Errorf("expected non-ASCII artist to survive, got %s", songs[0].Artist)
		}
	})

	t.Run("round trip is byte stable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		if err := Save(path, fixture()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		first, _ := os.ReadFile(path)

		songs, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if err := Save(path, songs); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		second, _ := os.ReadFile(path)

		if !bytes.Equal(first, second) {
			t.Errorf("second save changed the file:\n%s\n%s", first, second)
		}
	})

	t.Run("accepts indented input", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		content := "[\n    {\n        \"id\": 7,\n        \"artist\": \"A\",\n        \"song\": \"B\"\n    }\n]"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		songs, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(songs) != 1 || songs[0].ID != 7 {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, shared.ErrCollectionNotFound) {
			t.Errorf("expected ErrCollectionNotFound, got %v", err)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		if err := os.WriteFile(path, []byte(`{"id": 1}`), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		_, err := Load(path)
		if !errors.Is(err, shared.ErrInvalidCollection) {
			t.Errorf("expected ErrInvalidCollection, got %v", err)
		}
	})

	t.Run("no temporary files left", func(t *testing.T) {
		dir := t.TempDir()
		if err := Save(filepath.Join(dir, "songs.json"), fixture()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("leftover temporary file %s", e.Name())
			}
		}
	})
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.json")

	unlock, err := Lock(path)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	if _, err := Lock(path); !errors.Is(err, shared.ErrCollectionLocked) {
		t.Errorf("expected ErrCollectionLocked while held, got %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock() error = %v", err)
	}

	unlock, err = Lock(path)
	if err != nil {
		t.Fatalf("expected lock to be free after release, got %v", err)
	}
	_ = unlock()
}
