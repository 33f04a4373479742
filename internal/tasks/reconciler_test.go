package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/services"
	"github.com/desertthunder/songdeck/internal/shared"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func dateSongs() []models.Song {
	return []models.Song{
		{ID: 10, Artist: "A", Title: "One", Date: "01.1990"},
		{ID: 2, Artist: "B", Title: "Two", Date: "05.1985"},
		{ID: 7, Artist: "C", Title: "Three"},
	}
}

func dateCatalog() *fakeMusic {
	return &fakeMusic{
		results: map[string][]services.Candidate{
			"A One":   {{ReleaseDate: "1990-01-15T00:00:00Z"}},
			"B Two":   {{ReleaseDate: "1984-06-01T00:00:00Z"}, {ReleaseDate: "1990-01-01T00:00:00Z"}},
			"C Three": {{ReleaseDate: "2003-03-03T00:00:00Z"}},
		},
	}
}

func TestReconcilerDates(t *testing.T) {
	t.Run("processes in order and mutates in place", func(t *testing.T) {
		songs := dateSongs()
		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(dateCatalog(), 10), NewPacer(0))

		summary, err := r.Dates(context.Background(), "songs.json", songs, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantStatus := []Status{Matched, Updated, Updated}
		for i, o := range summary.Outcomes {
			if o.SongID != songs[i].ID {
				t.Errorf("outcome %d: expected id %d, got %d", i, songs[i].ID, o.SongID)
			}
			if o.Status != wantStatus[i] {
				t.Errorf("outcome %d: expected %s, got %s", i, wantStatus[i], o.Status)
			}
		}
		if songs[1].Date != "06.1984" || songs[2].Date != "03.2003" {
			t.Errorf("unexpected dates %s %s", songs[1].Date, songs[2].Date)
		}
		if summary.Changed() != 2 || summary.Kind != models.RunDates || summary.Collection != "songs.json" {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		songs := dateSongs()
		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(dateCatalog(), 10), NewPacer(0))

		if _, err := r.Dates(context.Background(), "", songs, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary, err := r.Dates(context.Background(), "", songs, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.Count(Updated) != 0 || summary.Count(Matched) != len(songs) {
			t.Errorf("expected all matched, got %d updated", summary.Count(Updated))
		}
	})

	t.Run("failures are contained", func(t *testing.T) {
		songs := dateSongs()
		catalog := dateCatalog()
		catalog.errs = map[string]error{"A One": shared.ErrPersistentRateLimit}
		delete(catalog.results, "B Two")

		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(catalog, 10), NewPacer(0))
		summary, err := r.Dates(context.Background(), "", songs, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(summary.Outcomes) != 3 {
			t.Fatalf("expected all songs to be visited, got %d", len(summary.Outcomes))
		}
		if summary.Outcomes[0].Status != Failed || summary.Outcomes[1].Status != NotFound || summary.Outcomes[2].Status != Updated {
			t.Errorf("unexpected statuses %v %v %v", summary.Outcomes[0].Status, summary.Outcomes[1].Status, summary.Outcomes[2].Status)
		}

		errs := summary.Errors()
		if len(errs) != 2 {
			t.Fatalf("expected 2 error lines, got %v", errs)
		}
		if errs[0] != "ID 10 - A: ERROR (persistent rate limit)" {
			t.Errorf("unexpected error line %q", errs[0])
		}
		if errs[1] != "ID 2 - B: NOT FOUND (no catalog results)" {
			t.Errorf("unexpected error line %q", errs[1])
		}
		if songs[1].Date != "05.1985" {
			t.Errorf("not found should leave date unchanged, got %s", songs[1].Date)
		}
	})

	t.Run("reports progress and records", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		recorder := &memoryRecorder{err: errors.New("disk full")}

		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(dateCatalog(), 10), NewPacer(0))
		r.SetRecorder(recorder)

		summary, err := r.Dates(context.Background(), "", dateSongs(), progress)
		if err != nil {
			t.Fatalf("recording errors must not fail the pass: %v", err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		want := []Phase{ResolveDates, ResolveDates, ResolveDates, Finished}
		if fmt.Sprint(phases) != fmt.Sprint(want) {
			t.Errorf("unexpected phases %v", phases)
		}
		if len(recorder.summaries) != 1 || recorder.summaries[0] != summary {
			t.Error("expected the summary to be recorded once")
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(dateCatalog(), 10), NewPacer(0))

		if _, err := r.Dates(context.Background(), "", dateSongs(), progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancelled context stops the pass", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewReconciler(quietLogger()).WithDates(NewDateResolver(dateCatalog(), 10), NewPacer(time.Hour))
		summary, err := r.Dates(ctx, "", dateSongs(), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if summary.Completed() || len(summary.Outcomes) != 0 {
			t.Errorf("expected an incomplete summary, got %d outcomes", len(summary.Outcomes))
		}
	})

	t.Run("not configured", func(t *testing.T) {
		if _, err := NewReconciler(quietLogger()).Dates(context.Background(), "", nil, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func videoReconciler(catalog *fakeVideos, batchSize, maxSearches int) *Reconciler {
	return NewReconciler(quietLogger()).WithVideos(
		NewVideoValidator(catalog, batchSize, true),
		NewVideoResolver(catalog, "lyrics"),
		NewPacer(0),
		maxSearches,
	)
}

func TestReconcilerVideos(t *testing.T) {
	t.Run("budget cap", func(t *testing.T) {
		songs := make([]models.Song, 5)
		for i := range songs {
			songs[i] = models.Song{ID: i + 1, Artist: "Artist", Title: fmt.Sprintf("Song %d", i+1), VideoID: fmt.Sprintf("dead%d", i+1)}
		}
		catalog := &fakeVideos{matches: map[string]string{
			"Artist Song 1 lyrics": "new1",
			"Artist Song 2 lyrics": "new2",
			"Artist Song 3 lyrics": "new3",
		}}

		summary, err := videoReconciler(catalog, 50, 2).Videos(context.Background(), "", songs, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(catalog.searches) != 2 {
			t.Errorf("expected exactly 2 searches, got %d", len(catalog.searches))
		}
		if summary.Count(Replaced) != 2 || summary.Deferred() != 3 {
			t.Errorf("expected 2 replaced and 3 deferred, got %d and %d", summary.Count(Replaced), summary.Deferred())
		}
		for i, s := range songs[2:] {
			if s.VideoID != fmt.Sprintf("dead%d", i+3) {
				t.Errorf("deferred song %d changed to %s", s.ID, s.VideoID)
			}
			if o := summary.Outcomes[i+2]; o.Detail() != "skipped to protect quota" {
				t.Errorf("unexpected deferred detail %q", o.Detail())
			}
		}
		if summary.SearchesUsed != 2 || summary.SearchBudget != 2 {
			t.Errorf("unexpected budget accounting %d/%d", summary.SearchesUsed, summary.SearchBudget)
		}
		if len(summary.Errors()) != 0 {
			t.Errorf("deferred songs are not errors, got %v", summary.Errors())
		}
	})

	t.Run("valid references are kept without searching", func(t *testing.T) {
		songs := []models.Song{
			{ID: 1, Artist: "A", Title: "One", VideoID: "ok"},
			{ID: 2, Artist: "B", Title: "Two", VideoID: models.NoVideo},
			{ID: 3, Artist: "C", Title: "Three", VideoID: "private"},
		}
		catalog := &fakeVideos{
			statuses: map[string]services.VideoStatus{"ok": public(), "private": {PrivacyStatus: "private"}},
			matches:  map[string]string{"B Two lyrics": "found"},
		}

		summary, err := videoReconciler(catalog, 50, 10).Videos(context.Background(), "", songs, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Status{Valid, Replaced, Unresolved}
		for i, o := range summary.Outcomes {
			if o.Status != want[i] {
				t.Errorf("song %d: expected %s, got %s", songs[i].ID, want[i], o.Status)
			}
		}
		if songs[1].VideoID != "found" || songs[2].VideoID != "private" {
			t.Errorf("unexpected references %s %s", songs[1].VideoID, songs[2].VideoID)
		}
		if len(catalog.batches) != 1 || fmt.Sprint(catalog.batches[0]) != "[ok private]" {
			t.Errorf("expected one batch without the sentinel, got %v", catalog.batches)
		}
		if summary.SearchesUsed != 2 || summary.ValidatedCount != 1 {
			t.Errorf("unexpected accounting searches=%d validated=%d", summary.SearchesUsed, summary.ValidatedCount)
		}
	})

	t.Run("partial batch failure", func(t *testing.T) {
		songs := []models.Song{
			{ID: 1, Artist: "A", Title: "One", VideoID: "a"},
			{ID: 2, Artist: "B", Title: "Two", VideoID: "b"},
			{ID: 3, Artist: "C", Title: "Three", VideoID: "c"},
		}
		catalog := &fakeVideos{
			statuses:    map[string]services.VideoStatus{"a": public(), "b": public(), "c": public()},
			failOnBatch: 2,
			matches:     map[string]string{"C Three lyrics": "c2"},
		}

		summary, err := videoReconciler(catalog, 2, 10).Videos(context.Background(), "", songs, nil)
		if err != nil {
			t.Fatalf("a batch failure must not fail the run: %v", err)
		}

		if summary.ValidationErr == nil {
			t.Error("expected the validation error to be reported")
		}
		if summary.Outcomes[0].Status != Valid || summary.Outcomes[1].Status != Valid {
			t.Errorf("confirmed ids should stay valid, got %s %s", summary.Outcomes[0].Status, summary.Outcomes[1].Status)
		}
		if summary.Outcomes[2].Status != Replaced || songs[2].VideoID != "c2" {
			t.Errorf("unchecked id should be resolved, got %s %s", summary.Outcomes[2].Status, songs[2].VideoID)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		if _, err := NewReconciler(quietLogger()).Videos(context.Background(), "", nil, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestStatus(t *testing.T) {
	for s := Updated; s <= Failed; s++ {
		got, ok := ParseStatus(s.String())
		if !ok || got != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStatus("bogus"); ok {
		t.Error("expected unknown status to fail")
	}
}
