package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const defaultITunesBaseURL string = "https://itunes.apple.com"

// ITunesResult is one entry of the iTunes search response.
type ITunesResult struct {
	WrapperType    string `json:"wrapperType"`
	Kind           string `json:"kind"`
	TrackID        int64  `json:"trackId"`
	ArtistName     string `json:"artistName"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	ReleaseDate    string `json:"releaseDate"`
}

type itunesSearchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []ITunesResult `json:"results"`
}

// ITunesService implements [MusicCatalog] with the iTunes Search API.
type ITunesService struct {
	baseURL string
	client  *Client
}

// NewITunesService creates an iTunes catalog using client for all calls.
func NewITunesService(baseURL string, client *Client) *ITunesService {
	if baseURL == "" {
		baseURL = defaultITunesBaseURL
	}
	return &ITunesService{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Name returns the service name.
func (s *ITunesService) Name() string {
	return "iTunes"
}

// Search queries /search with entity=song.
func (s *ITunesService) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("entity", "song")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp itunesSearchResponse
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode()), &resp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, Candidate{
			Artist:      r.ArtistName,
			Title:       r.TrackName,
			Album:       r.CollectionName,
			ReleaseDate: r.ReleaseDate,
		})
	}
	return candidates, nil
}
