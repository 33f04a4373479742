// package store loads and saves the song collection file.
//
// The collection is a JSON array written with one compact object per line so that a
// changed record shows up as exactly one changed line in a diff:
//
//	[
//	  {"id":1,"artist":"...","song":"...","date":"05.1999","vidId":"..."},
//	  {"id":2,"artist":"...","song":"...","date":"11.2001","vidId":"NONE"}
//	]
//
// Order is preserved across Load and Save.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/gofrs/flock"
)

// Load reads the collection at path.
func Load(path string) ([]models.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrCollectionNotFound, path)
		}
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses a collection from r.
func Decode(r io.Reader) ([]models.Song, error) {
	var songs []models.Song
	if err := json.NewDecoder(r).Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCollection, err)
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

// Encode writes songs to w in the per-line layout.
func Encode(w io.Writer, songs []models.Song) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteString("[\n")
	for i, song := range songs {
		buf.Reset()
		if err := enc.Encode(song); err != nil {
			return fmt.Errorf("failed to encode song %d: %w", song.ID, err)
		}
		out.WriteString("  ")
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		if i < len(songs)-1 {
			out.WriteByte(',')
		}
		out.WriteByte('\n')
	}
	out.WriteString("]\n")

	_, err := w.Write(out.Bytes())
	return err
}

// Save writes songs to path, replacing the file through a temporary sibling so a
// failed write never truncates the existing collection.
func Save(path string, songs []models.Song) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, songs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace collection: %w", err)
	}
	return nil
}

// Lock takes an exclusive advisory lock on the collection for the duration of a run.
//
// The lock lives in a sibling "<path>.lock" file. A lock held by another process
// yields [shared.ErrCollectionLocked]. The returned function releases it.
func Lock(path string) (func() error, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock collection: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrCollectionLocked, path)
	}
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock collection: %w", err)
		}
		return nil
	}, nil
}
