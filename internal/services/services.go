// package services talks to the external catalogs used to reconcile the collection.
package services

import (
	"context"
)

// MusicCatalog searches a music metadata catalog by free text.
type MusicCatalog interface {
	// Search returns at most limit candidates for query. An empty slice means no match.
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)

	// Name returns the name of the catalog (e.g., "iTunes")
	Name() string
}

// VideoCatalog checks and searches a video hosting catalog.
type VideoCatalog interface {
	// Statuses returns the status of every known id among ids. Unknown ids are omitted.
	Statuses(ctx context.Context, ids []string) ([]VideoStatus, error)

	// Search returns the id of the top match for query, or [shared.ErrNoResults].
	Search(ctx context.Context, query string) (string, error)

	Name() string
}

// Candidate is one music catalog entry returned for a query.
type Candidate struct {
	Artist      string
	Title       string
	Album       string
	ReleaseDate string // raw timestamp, empty when the catalog has none
}

// HasReleaseDate reports whether the candidate carries a release timestamp.
func (c Candidate) HasReleaseDate() bool {
	return c.ReleaseDate != ""
}

// VideoStatus is the visibility of one video.
type VideoStatus struct {
	ID            string
	PrivacyStatus string
	Embeddable    bool
}

// Public reports whether the video is publicly visible.
func (v VideoStatus) Public() bool {
	return v.PrivacyStatus == "public"
}

// Valid reports whether the video can be used on a card.
func (v VideoStatus) Valid(requireEmbeddable bool) bool {
	return v.Public() && (!requireEmbeddable || v.Embeddable)
}
