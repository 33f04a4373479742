package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/formatter"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/desertthunder/songdeck/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	DetailView
	ConfirmView
	PassView
	ResultView
)

// Reconciler runs the reconciliation passes. [tasks.Reconciler] implements it.
type Reconciler interface {
	Dates(ctx context.Context, collection string, songs []models.Song, progress chan<- tasks.ProgressUpdate) (*tasks.Summary, error)
	Videos(ctx context.Context, collection string, songs []models.Song, progress chan<- tasks.ProgressUpdate) (*tasks.Summary, error)
}

// SaveFunc persists the collection after a pass changed it.
type SaveFunc func(songs []models.Song) error

// Options are the dependencies of a [Model].
type Options struct {
	Collection string     // path of the collection file, shown in titles and recorded with each run
	CardBase   string     // base URL of the card QR payload
	Reconciler Reconciler // nil disables the passes
	Save       SaveFunc   // nil leaves changes in memory
}

var openBrowser = shared.OpenBrowser

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	opts     Options
	view     ViewState
	width    int
	height   int
	songs    []models.Song
	songList list.Model
	selected *models.Song
	pending  models.RunKind

	progressChan chan tasks.ProgressUpdate
	doneChan     chan passResult
	progress     tasks.ProgressUpdate
	result       *passResult

	status string
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model over songs.
func NewModel(ctx context.Context, songs []models.Song, opts Options) *Model {
	m := &Model{
		ctx:   ctx,
		opts:  opts,
		view:  SongListView,
		songs: songs,
		help:  help.New(),
		keys:  newKeyMap(),
	}
	m.songList = list.New(songItems(songs), list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = fmt.Sprintf("Songs (%d)", len(songs))
	return m
}

// Init implements [tea.Model]. The collection is already loaded, so there is nothing to fetch.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case PassView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == SongListView {
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgPassComplete:
		result := msg.data.(passResult)
		m.result = &result
		m.progressChan, m.doneChan = nil, nil
		if result.summary != nil && result.summary.Completed() && result.summary.Changed() > 0 {
			m.songs = result.songs
			m.songList.SetItems(songItems(m.songs))
		}
		m.view = ResultView
		return m, nil

	case MsgVideoOpened:
		data := msg.data.(struct {
			url string
			err error
		})
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("could not open %s: %v", data.url, data.err))
		} else {
			m.status = styles.help.Render("opened " + data.url)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SongListView:
		return m.renderSongList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case PassView:
		return m.renderPass()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.songList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if song := m.selectedSong(); song != nil {
			m.selected = song
			m.status = ""
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openVideo(m.selectedSong())
	case key.Matches(msg, m.keys.dates):
		return m.confirm(models.RunDates)
	case key.Matches(msg, m.keys.videos):
		return m.confirm(models.RunVideos)
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SongListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openVideo(m.selected)
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = SongListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = PassView
		m.progress = tasks.ProgressUpdate{Message: "Starting..."}
		return m, m.startPass(m.pending)
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = SongListView
		m.result = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) selectedSong() *models.Song {
	item, ok := m.songList.SelectedItem().(songItem)
	if !ok {
		return nil
	}
	song, _ := models.FindByID(m.songs, item.song.ID)
	return song
}

func (m *Model) confirm(kind models.RunKind) (tea.Model, tea.Cmd) {
	if m.opts.Reconciler == nil {
		m.status = styles.warn.Render("no catalog configured")
		return m, nil
	}
	m.pending = kind
	m.view = ConfirmView
	return m, nil
}

func (m *Model) openVideo(song *models.Song) tea.Cmd {
	if song == nil {
		return nil
	}
	if !song.HasVideo() {
		m.status = styles.warn.Render(fmt.Sprintf("song %d has no video", song.ID))
		return nil
	}
	url := shared.VideoURL(song.VideoID)
	return func() tea.Msg {
		return videoOpenedMsg(url, openBrowser(url))
	}
}

// startPass runs a pass on a copy of the collection in the background.
func (m *Model) startPass(kind models.RunKind) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan passResult, 1)
	m.progressChan, m.doneChan = progress, done

	songs := slices.Clone(m.songs)
	ctx, reconciler, opts := m.ctx, m.opts.Reconciler, m.opts

	go func() {
		defer close(progress)

		run := reconciler.Dates
		if kind == models.RunVideos {
			run = reconciler.Videos
		}

		result := passResult{songs: songs}
		result.summary, result.err = run(ctx, opts.Collection, songs, progress)
		if result.err == nil && result.summary.Changed() > 0 && opts.Save != nil {
			if err := opts.Save(songs); err != nil {
				result.err = fmt.Errorf("failed to save collection: %w", err)
			} else {
				result.saved = true
			}
		}
		done <- result
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan passResult) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return passCompleteMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) footer(keys ...key.Binding) string {
	view := m.help.ShortHelpView(keys)
	if m.status != "" {
		view = m.status + "\n" + view
	}
	return view
}

func (m *Model) renderSongList() string {
	return fmt.Sprintf("%s\n\n%s", m.songList.View(),
		m.footer(m.keys.enter, m.keys.open, m.keys.dates, m.keys.videos, m.keys.quit))
}

func (m *Model) renderDetail() string {
	s := m.selected
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s - %s", s.Artist, s.Title)))
	b.WriteString("\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s%s\n", styles.label.Render(label), value)
	}
	field("ID", fmt.Sprint(s.ID))
	if s.Date != "" {
		field("Date", s.Date)
	} else {
		field("Date", styles.warn.Render("unknown"))
	}
	if s.HasVideo() {
		field("Video", shared.VideoURL(s.VideoID))
	} else {
		field("Video", styles.warn.Render("none"))
	}
	if m.opts.CardBase != "" {
		field("Card", s.CardURL(m.opts.CardBase))
	}

	return fmt.Sprintf("%s\n%s", b.String(), m.footer(m.keys.open, m.keys.back, m.keys.quit))
}

func (m *Model) renderConfirm() string {
	what := "Resolve release dates"
	if m.pending == models.RunVideos {
		what = "Check and replace video references"
	}
	title := styles.title.Render(what + "?")
	info := fmt.Sprintf("\nCollection: %s\nSongs: %d\n", m.opts.Collection, len(m.songs))

	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

func (m *Model) renderPass() string {
	title := styles.title.Render("Reconciling")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveDates:
		phase = fmt.Sprintf("Resolving dates (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ValidateVideos:
		phase = "Validating video references..."
	case tasks.ResolveVideos:
		phase = fmt.Sprintf("Searching videos (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Finished:
		phase = "Finishing..."
	}

	line := m.progress.Message
	if o, ok := m.progress.Data.(tasks.Outcome); ok {
		line = styles.status(o.Status).Render(o.Status.Label()) + " " + o.Artist + " - " + o.Title
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, line)
}

func (m *Model) renderResult() string {
	r := m.result
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if r == nil || r.summary == nil {
		msg := "No result available"
		if r != nil && r.err != nil {
			msg = fmt.Sprintf("Pass failed: %v", r.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	var title string
	switch {
	case r.err != nil:
		title = styles.err.Render(fmt.Sprintf("Pass stopped: %v", r.err))
	case r.saved:
		title = styles.ok.Render(fmt.Sprintf("✓ Saved %s", m.opts.Collection))
	default:
		title = styles.ok.Render("✓ Pass complete")
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, formatter.SummaryText(r.summary), helpView)
}
