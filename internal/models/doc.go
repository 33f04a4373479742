// Package models defines the song records of the card collection and the persisted history of reconciliation runs.
//
// The package contains two categories of types:
//
// 1. Collection records: plain structs serialized to the collection file
//   - [Song] : one playing card (identifier, artist, title, release date, video reference)
//   - [Date] : a parsed MM.YYYY release date
//
// 2. Persistent entities: database-backed run history
//   - [Run] : one reconciliation pass with its counters and budget usage
//   - [RunEntry] : a per-song outcome recorded during a run
//
// [Run] implements the [Model] interface; [Repository] defines the CRUD operations used by the repositories package.
package models
