package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/store"
)

// SongsHandler serves the collection to the card scanner.
//
// The collection file is re-read whenever its modification time changes, so a
// reconciliation run is visible without restarting the server.
type SongsHandler struct {
	path     string
	cardBase string
	logger   *log.Logger

	mu      sync.Mutex
	songs   []models.Song
	raw     []byte
	modTime time.Time
}

// NewSongsHandler creates a handler serving the collection at path.
func NewSongsHandler(path, cardBase string, logger *log.Logger) *SongsHandler {
	return &SongsHandler{path: path, cardBase: cardBase, logger: logger}
}

// Routes implements [Handler].
func (h *SongsHandler) Routes() []string {
	return []string{"/songs.json", "/api/songs", "/api/songs/{id}", "/health"}
}

// ServeHTTP implements [http.Handler].
func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case r.URL.Path == "/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.URL.Path == "/songs.json":
		h.serveCollection(w)
	case r.URL.Path == "/api/songs":
		h.serveList(w)
	case strings.HasPrefix(r.URL.Path, "/api/songs/"):
		h.serveSong(w, r.PathValue("id"))
	default:
		http.NotFound(w, r)
	}
}

func (h *SongsHandler) load() ([]models.Song, []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info, err := os.Stat(h.path)
	if err != nil {
		return nil, nil, err
	}
	if h.raw != nil && info.ModTime().Equal(h.modTime) {
		return h.songs, h.raw, nil
	}

	raw, err := os.ReadFile(h.path)
	if err != nil {
		return nil, nil, err
	}
	songs, err := store.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}

	h.songs, h.raw, h.modTime = songs, raw, info.ModTime()
	h.logger.Debug("collection loaded", "path", h.path, "songs", len(songs))
	return songs, raw, nil
}

func (h *SongsHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to load collection", "path", h.path, "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "collection unavailable"})
}

func (h *SongsHandler) serveCollection(w http.ResponseWriter) {
	_, raw, err := h.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(raw)
}

func (h *SongsHandler) serveList(w http.ResponseWriter) {
	songs, _, err := h.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(songs), "songs": songs})
}

// songResponse is a song with the links the scanner page needs.
type songResponse struct {
	models.Song
	CardURL  string `json:"cardUrl"`
	VideoURL string `json:"videoUrl,omitempty"`
}

func (h *SongsHandler) serveSong(w http.ResponseWriter, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": shared.ErrInvalidArgument.Error() + ": id must be a number"})
		return
	}

	songs, _, err := h.load()
	if err != nil {
		h.fail(w, err)
		return
	}

	song, ok := models.FindByID(songs, id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": shared.ErrSongNotFound.Error()})
		return
	}

	resp := songResponse{Song: *song, CardURL: song.CardURL(h.cardBase)}
	if song.HasVideo() {
		resp.VideoURL = shared.VideoURL(song.VideoID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
