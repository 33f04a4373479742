// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a browser for the song collection with the reconciliation passes one key away:
//  1. [SongListView] : Browse and filter the collection
//  2. [DetailView] : One card with its QR payload and video link
//  3. [ConfirmView] : Confirm a date or video pass
//  4. [PassView] : Monitor real-time progress updates
//  5. [ResultView] : Display the run summary and the error list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// A pass runs on a copy of the collection. Progress updates flow through a channel from the [Reconciler], and the
// copy replaces the displayed collection only once the pass completes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
