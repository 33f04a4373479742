// Package repositories implements SQLite persistence of the reconciliation history.
//
// Key Implementations:
//   - [RunRepository] : one row per pass, with outcome counters and search budget use
//   - [EntryRepository] : the per-song outcomes of a run, in collection order
//   - [HistoryRecorder] : adapts both to the tasks.Recorder interface
//
// Sequence numbers give runs stable, human-readable numbers (e.g., run #42) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
