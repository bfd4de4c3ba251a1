package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include StoredSession and CachedSong.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// record carries the bookkeeping fields shared by persistent entities.
type record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newRecord(sequence int) record {
	now := time.Now()
	return record{sequence: sequence, createdAt: now, updatedAt: now}
}

func (r *record) ID() string               { return r.id }
func (r *record) Sequence() int            { return r.sequence }
func (r *record) CreatedAt() time.Time     { return r.createdAt }
func (r *record) UpdatedAt() time.Time     { return r.updatedAt }
func (r *record) DeletedAt() *time.Time    { return r.deletedAt }
func (r *record) SetID(id string)          { r.id = id }
func (r *record) SetSequence(seq int)      { r.sequence = seq }
func (r *record) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *record) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *record) SetDeletedAt(t *time.Time) {
	r.deletedAt = t
}

// IsDeleted reports whether the entity has been soft-deleted.
func (r *record) IsDeleted() bool { return r.deletedAt != nil }
