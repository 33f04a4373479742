// YouTube Data API [VideoCatalog] implementation
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/songdeck/internal/shared"
)

const defaultYTBaseURL string = "https://www.googleapis.com/youtube/v3"

// MaxStatusBatch is the largest number of ids accepted by one videos.list call.
const MaxStatusBatch = 50

type youtubeVideoList struct {
	Items []struct {
		ID     string `json:"id"`
		Status struct {
			UploadStatus  string `json:"uploadStatus"`
			PrivacyStatus string `json:"privacyStatus"`
			Embeddable    bool   `json:"embeddable"`
		} `json:"status"`
	} `json:"items"`
}

type youtubeSearchList struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeService implements the [VideoCatalog] interface for YouTube.
type YouTubeService struct {
	baseURL string
	apiKey  string
	client  *Client
}

// NewYouTubeService creates a new YouTube service instance.
func NewYouTubeService(baseURL, apiKey string, client *Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) endpoint(path string, params url.Values) string {
	params.Set("key", y.apiKey)
	return fmt.Sprintf("%s/%s?%s", y.baseURL, path, params.Encode())
}

// Statuses calls videos.list with part=status for up to [MaxStatusBatch] ids.
func (y *YouTubeService) Statuses(ctx context.Context, ids []string) ([]VideoStatus, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxStatusBatch {
		return nil, fmt.Errorf("%w: %d ids exceeds batch limit of %d", shared.ErrInvalidInput, len(ids), MaxStatusBatch)
	}

	params := url.Values{}
	params.Set("part", "status")
	params.Set("id", strings.Join(ids, ","))

	var list youtubeVideoList
	if err := y.client.GetJSON(ctx, y.endpoint("videos", params), &list); err != nil {
		return nil, err
	}

	statuses := make([]VideoStatus, 0, len(list.Items))
	for _, item := range list.Items {
		statuses = append(statuses, VideoStatus{
			ID:            item.ID,
			PrivacyStatus: item.Status.PrivacyStatus,
			Embeddable:    item.Status.Embeddable,
		})
	}
	return statuses, nil
}

// Search calls search.list and returns the id of the single top video.
func (y *YouTubeService) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("q", query)

	var list youtubeSearchList
	if err := y.client.GetJSON(ctx, y.endpoint("search", params), &list); err != nil {
		return "", err
	}

	if len(list.Items) == 0 || list.Items[0].ID.VideoID == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrNoResults, query)
	}
	return list.Items[0].ID.VideoID, nil
}
