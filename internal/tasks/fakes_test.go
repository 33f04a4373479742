package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdeck/internal/services"
	"github.com/desertthunder/songdeck/internal/shared"
)

type fakeMusic struct {
	results map[string][]services.Candidate
	errs    map[string]error
	queries []string
}

func (f *fakeMusic) Name() string { return "fake music" }

func (f *fakeMusic) Search(ctx context.Context, query string, limit int) ([]services.Candidate, error) {
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

type fakeVideos struct {
	statuses    map[string]services.VideoStatus
	failOnBatch int // 1-based; 0 never fails
	batches     [][]string

	matches  map[string]string
	errs     map[string]error
	searches []string
}

func (f *fakeVideos) Name() string { return "fake videos" }

func (f *fakeVideos) Statuses(ctx context.Context, ids []string) ([]services.VideoStatus, error) {
	f.batches = append(f.batches, ids)
	if f.failOnBatch > 0 && len(f.batches) == f.failOnBatch {
		return nil, fmt.Errorf("%w: status 500", shared.ErrAPIRequest)
	}
	var out []services.VideoStatus
	for _, id := range ids {
		if s, ok := f.statuses[id]; ok {
			s.ID = id
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeVideos) Search(ctx context.Context, query string) (string, error) {
	f.searches = append(f.searches, query)
	if err := f.errs[query]; err != nil {
		return "", err
	}
	if id, ok := f.matches[query]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", shared.ErrNoResults, query)
}

func public() services.VideoStatus {
	return services.VideoStatus{PrivacyStatus: "public", Embeddable: true}
}

type memoryRecorder struct {
	summaries []*Summary
	err       error
}

func (m *memoryRecorder) Record(ctx context.Context, s *Summary) error {
	m.summaries = append(m.summaries, s)
	return m.err
}
