package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

const sessionColumns = "id, sequence, email, xt, sjsaid, auth_token, created_at, updated_at, deleted_at"

// SessionRepository implements models.Repository[*models.StoredSession].
//
// The newest live row is the active session; logging out soft-deletes it.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new [models.StoredSession] with a generated ID and sequence
func (r *SessionRepository) Create(s *models.StoredSession) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	s.SetID(shared.GenerateID())
	s.SetSequence(sequence)

	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	session := s.Session()
	_, err = r.db.Exec(`
		INSERT INTO sessions (id, sequence, email, xt, sjsaid, auth_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID(), s.Sequence(), s.Email(), session.XT(), session.SJSAID(), session.AuthToken(), s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding soft-deleted rows
func (r *SessionRepository) Get(id string) (*models.StoredSession, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ? AND deleted_at IS NULL", id)
	return r.scan(row)
}

// Latest returns the most recently stored live session.
func (r *SessionRepository) Latest() (*models.StoredSession, error) {
	row := r.db.QueryRow("SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1")
	return r.scan(row)
}

// Update replaces the stored cookies and token
func (r *SessionRepository) Update(s *models.StoredSession) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	s.SetUpdatedAt(now)

	session := s.Session()
	result, err := r.db.Exec(`
		UPDATE sessions
		SET email = ?, xt = ?, sjsaid = ?, auth_token = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		s.Email(), session.XT(), session.SJSAID(), session.AuthToken(), now, s.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return requireRow(result, "sessions", s.ID())
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	return softDelete(r.db, "sessions", id)
}

// List retrieves live sessions, optionally filtered by "email", oldest first
func (r *SessionRepository) List(criteria map[string]any) ([]*models.StoredSession, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL"
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.StoredSession
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) scan(row scanner) (*models.StoredSession, error) {
	var (
		id, email, xt, sjsaid, token string
		sequence                     int
		createdAt, updatedAt         time.Time
		deletedAt                    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &email, &xt, &sjsaid, &token, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session, err := models.NewSession(xt, sjsaid, token)
	if err != nil {
		return nil, fmt.Errorf("stored session %s is corrupt: %w", id, err)
	}

	stored := models.NewStoredSession(sequence, email, session)
	stored.SetID(id)
	stored.SetCreatedAt(createdAt)
	stored.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		stored.SetDeletedAt(&deletedAt.Time)
	}

	return stored, nil
}
