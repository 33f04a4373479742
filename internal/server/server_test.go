package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/store"
	th "github.com/desertthunder/songdeck/internal/testing"
)

func newTestServer(t *testing.T, path string) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)

	router := NewBasicRouter()
	router.Use(Logging(logger), CORS(""))
	router.Handler(NewSongsHandler(path, "https://cards.example/?Id=", logger))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestSongsHandler(t *testing.T) {
	path := th.WriteCollection(t, t.TempDir(), th.Songs())
	srv := newTestServer(t, path)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS header")
		}
	})

	t.Run("collection file", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/songs.json")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if string(body) != th.MustReadFile(t, path) {
			t.Errorf("expected the file as stored, got %s", body)
		}
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/songs")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var list struct {
			Count int           `json:"count"`
			Songs []models.Song `json:"songs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if list.Count != 3 || list.Songs[1].Artist != "Щурците" {
			t.Errorf("unexpected list %+v", list)
		}
	})

	t.Run("song by id", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/songs/1")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var song map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&song); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if song["song"] != "Bohemian Rhapsody" {
			t.Errorf("unexpected song %v", song)
		}
		if song["cardUrl"] != "https://cards.example/?Id=1" {
			t.Errorf("unexpected card URL %v", song["cardUrl"])
		}
		if song["videoUrl"] != "https://www.youtube.com/watch?v=fJ9rUzIMcZQ" {
			t.Errorf("unexpected video URL %v", song["videoUrl"])
		}
	})

	t.Run("song without video", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/songs/2")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var song map[string]any
		json.NewDecoder(resp.Body).Decode(&song)
		if _, ok := song["videoUrl"]; ok {
			t.Errorf("sentinel reference should have no video URL, got %v", song["videoUrl"])
		}
	})

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"unknown id", http.MethodGet, "/api/songs/999", http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/songs/abc", http.StatusBadRequest},
		{"post not allowed", http.MethodPost, "/songs.json", http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, "/songs.json", http.StatusNoContent},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestSongsHandlerReload(t *testing.T) {
	dir := t.TempDir()
	path := th.WriteCollection(t, dir, th.Songs())
	srv := newTestServer(t, path)

	get := func() int {
		resp, err := http.Get(srv.URL + "/api/songs/42")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := get(); status != http.StatusNotFound {
		t.Fatalf("expected 404 before update, got %d", status)
	}

	songs := append(th.Songs(), models.Song{ID: 42, Artist: "New", Title: "Card"})
	if err := store.Save(path, songs); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("failed to touch: %v", err)
	}

	if status := get(); status != http.StatusOK {
		t.Errorf("expected the updated collection to be served, got %d", status)
	}
}

func TestSongsHandlerMissingCollection(t *testing.T) {
	srv := newTestServer(t, "/nonexistent/songs.json")

	resp, err := http.Get(srv.URL + "/songs.json")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "collection unavailable") {
		t.Errorf("unexpected body %s", body)
	}
}

func TestBasicRouter(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := NewBasicRouter()
	router.Use(mw("first"), mw("second"))
	router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("unexpected middleware order %v", order)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
