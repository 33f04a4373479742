package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songdeck/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Artist + " " + i.song.Title }
func (i songItem) Title() string       { return fmt.Sprintf("%d. %s - %s", i.song.ID, i.song.Artist, i.song.Title) }
func (i songItem) Description() string {
	date := i.song.Date
	if date == "" {
		date = "no date"
	}
	if !i.song.HasVideo() {
		return fmt.Sprintf("%s • no video", date)
	}
	return fmt.Sprintf("%s • %s", date, i.song.VideoID)
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
