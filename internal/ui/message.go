package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgPassComplete
	MsgVideoOpened
)

// passResult is what a reconciliation pass leaves behind for the UI.
type passResult struct {
	summary *tasks.Summary
	songs   []models.Song // the working copy the pass mutated
	saved   bool
	err     error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// passCompleteMsg is the constructor for [MsgPassComplete]
func passCompleteMsg(result passResult) Msg {
	return Msg{kind: MsgPassComplete, data: result}
}

// videoOpenedMsg is the constructor for [MsgVideoOpened]
func videoOpenedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgVideoOpened,
		data: struct {
			url string
			err error
		}{url, err},
	}
}
