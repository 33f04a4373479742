package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid", input: "05.2001", want: Date{Month: 5, Year: 2001}},
		{name: "single digit month", input: "5.2001", want: Date{Month: 5, Year: 2001}},
		{name: "surrounding whitespace", input: " 11.1999 ", want: Date{Month: 11, Year: 1999}},
		{name: "month zero", input: "00.2001", wantErr: true},
		{name: "month thirteen", input: "13.2001", wantErr: true},
		{name: "short year", input: "05.01", wantErr: true},
		{name: "no separator", input: "052001", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab.2001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	t.Run("formats in UTC", func(t *testing.T) {
		ts := time.Date(1999, time.November, 3, 7, 0, 0, 0, time.UTC)
		if got := FormatDate(ts); got != "11.1999" {
			t.Errorf("FormatDate() = %s, want 11.1999", got)
		}
	})

	t.Run("converts other zones", func(t *testing.T) {
		zone := time.FixedZone("east", 5*3600)
		ts := time.Date(2001, time.June, 1, 2, 0, 0, 0, zone)
		if got := FormatDate(ts); got != "05.2001" {
			t.Errorf("FormatDate() = %s, want 05.2001", got)
		}
	})

	t.Run("round trips through ParseDate", func(t *testing.T) {
		d, err := ParseDate(FormatDate(time.Date(1987, time.March, 9, 0, 0, 0, 0, time.UTC)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.String() != "03.1987" {
			t.Errorf("String() = %s, want 03.1987", d.String())
		}
	})
}

func TestSong(t *testing.T) {
	t.Run("HasVideo", func(t *testing.T) {
		cases := map[string]bool{"": false, "NONE": false, "  ": false, "dQw4w9WgXcQ": true}
		for id, want := range cases {
			if got := (Song{VideoID: id}).HasVideo(); got != want {
				t.Errorf("HasVideo(%q) = %v, want %v", id, got, want)
			}
		}
	})

	t.Run("CardURL", func(t *testing.T) {
		s := Song{ID: 42}
		if got := s.CardURL("https://example.com/index?Id="); got != "https://example.com/index?Id=42" {
			t.Errorf("CardURL() = %s", got)
		}
	})

	t.Run("FindByID", func(t *testing.T) {
		songs := []Song{{ID: 3}, {ID: 7}}
		s, ok := FindByID(songs, 7)
		if !ok || s.ID != 7 {
			t.Fatalf("expected to find song 7")
		}
		s.Date = "01.2000"
		if songs[1].Date != "01.2000" {
			t.Error("FindByID should return a pointer into the slice")
		}
		if _, ok := FindByID(songs, 9); ok {
			t.Error("expected missing song")
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		if err := NewRun(1, RunDates, "songs.json", 3).Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}
		if err := NewRun(1, RunKind("bogus"), "songs.json", 3).Validate(); err == nil {
			t.Error("expected error for invalid kind")
		}
		if err := NewRun(1, RunVideos, "", 3).Validate(); err == nil {
			t.Error("expected error for missing collection")
		}
	})

	t.Run("Finish", func(t *testing.T) {
		run := NewRun(1, RunVideos, "songs.json", 3)
		run.Finish(time.Now())
		if run.Status() != RunCompleted {
			t.Errorf("expected completed, got %s", run.Status())
		}

		failed := NewRun(2, RunVideos, "songs.json", 3)
		failed.SetErrorMessage("boom")
		failed.Finish(time.Now())
		if failed.Status() != RunFailed {
			t.Errorf("expected failed, got %s", failed.Status())
		}
		if failed.FinishedAt() == nil {
			t.Error("expected finished timestamp")
		}
	})
}
