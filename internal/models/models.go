// package models defines the data model for the song card collection
package models

import "time"

var _ Model = (*Run)(nil)

// Model is an entity persisted in the run history database.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // reports missing or inconsistent fields before a write
}

// Repository is the CRUD surface the repositories package provides per entity.
//
// List criteria are entity specific; unknown keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	List(criteria map[string]any) ([]T, error)
}
