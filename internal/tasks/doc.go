// Package tasks reconciles the song collection against the external catalogs.
//
// # Passes
//
// [Reconciler] runs one of two passes over the collection, strictly sequentially and in
// collection order:
//
//  1. [Reconciler.Dates] : release dates
//     - [DateResolver] searches the music catalog for "artist title"
//     - the earliest release timestamp among the candidates wins (first one on ties)
//     - the date is stored as MM.YYYY, replacing the old one only when it differs
//
//  2. [Reconciler.Videos] : video references
//     - [VideoValidator] checks every reference in batches of up to 50 ids
//     - [VideoResolver] searches a replacement for each invalid or missing reference
//     - every search spends one unit of the run's [Budget]; once it is spent the
//       remaining songs are [Deferred] to a later run
//
// # Outcomes
//
// Every song ends in exactly one [Outcome]. Failures are values, not errors: a bad
// response for one song never stops the pass. The [Summary] keeps the outcomes in
// order together with the search budget accounting.
//
// # Pacing
//
// A [Pacer] spaces consecutive catalog calls. Songs that make no call (valid or
// deferred references) are not paced.
//
// # Progress Reporting
//
// Both passes accept an optional channel of [ProgressUpdate]. Updates use select with
// default to prevent blocking.
//
// # Recording
//
// The optional [Recorder] interface persists each finished [Summary]
// (repositories.HistoryRecorder).
package tasks
