package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = fmt.Errorf("session not found")

const sessionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *models.GameSession) error {
	session.ID = uuid.New().String()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	session.Status = "waiting"
	if session.SessionData == "" {
		session.SessionData = "{}"
	}

	var err error
	session.SessionCode, err = r.generateUniqueSessionCode(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate session code: %w", err)
	}

	query := `
		INSERT INTO game_sessions (id, session_code, game_type, status, current_phase, current_round, player_count, max_players, facilitator_id, session_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.SessionCode,
		session.GameType,
		session.Status,
		session.CurrentPhase,
		session.CurrentRound,
		session.PlayerCount,
		session.MaxPlayers,
		session.FacilitatorID,
		session.SessionData,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *SessionRepository) GetSessionByCode(ctx context.Context, code string) (*models.GameSession, error) {
	query := `
		SELECT id, session_code, game_type, status, current_phase, current_round, player_count, max_players, facilitator_id, session_data, created_at, updated_at, completed_at
		FROM game_sessions
		WHERE session_code = $1
	`

	session := &models.GameSession{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&session.ID,
		&session.SessionCode,
		&session.GameType,
		&session.Status,
		&session.CurrentPhase,
		&session.CurrentRound,
		&session.PlayerCount,
		&session.MaxPlayers,
		&session.FacilitatorID,
		&session.SessionData,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.CompletedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// UpdateSessionStatus moves a session to a new status. The guard keeps
// terminal sessions terminal: a completed or abandoned row is never touched.
func (r *SessionRepository) UpdateSessionStatus(ctx context.Context, sessionID, status string, completedAt sql.NullTime) error {
	query := `
		UPDATE game_sessions
		SET status = $1, completed_at = $2, updated_at = $3
		WHERE id = $4 AND status NOT IN ('completed', 'abandoned')
	`
	result, err := r.db.ExecContext(ctx, query, status, completedAt, time.Now(), sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session is not in an updatable state")
	}
	return nil
}

func (r *SessionRepository) UpdatePhase(ctx context.Context, sessionID string, phase int) error {
	query := `
		UPDATE game_sessions
		SET current_phase = $1, updated_at = $2
		WHERE id = $3 AND status NOT IN ('completed', 'abandoned')
	`
	result, err := r.db.ExecContext(ctx, query, phase, time.Now(), sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session is not in an updatable state")
	}
	return nil
}

func (r *SessionRepository) IncrementPlayerCount(ctx context.Context, sessionID string) error {
	query := `
		UPDATE game_sessions
		SET player_count = player_count + 1, updated_at = $1
		WHERE id = $2 AND player_count < max_players AND status = 'waiting'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session is full or no longer joinable")
	}
	return nil
}

func (r *SessionRepository) UpdateSessionData(ctx context.Context, sessionID, sessionData string) error {
	query := `UPDATE game_sessions SET session_data = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, sessionData, time.Now(), sessionID)
	return err
}

func (r *SessionRepository) ListSessionsByStatus(ctx context.Context, gameType, status string) ([]*models.GameSession, error) {
	query := `
		SELECT id, session_code, game_type, status, current_phase, current_round, player_count, max_players, facilitator_id, session_data, created_at, updated_at, completed_at
		FROM game_sessions
		WHERE game_type = $1
	`

	args := []any{gameType}

	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.GameSession
	for rows.Next() {
		session := &models.GameSession{}
		err := rows.Scan(
			&session.ID,
			&session.SessionCode,
			&session.GameType,
			&session.Status,
			&session.CurrentPhase,
			&session.CurrentRound,
			&session.PlayerCount,
			&session.MaxPlayers,
			&session.FacilitatorID,
			&session.SessionData,
			&session.CreatedAt,
			&session.UpdatedAt,
			&session.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) generateUniqueSessionCode(ctx context.Context) (string, error) {
	maxAttempts := 10
	for i := 0; i < maxAttempts; i++ {
		code, err := randomSessionCode(6)
		if err != nil {
			return "", err
		}

		var exists bool
		query := `SELECT EXISTS(SELECT 1 FROM game_sessions WHERE session_code = $1)`
		if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique session code after %d attempts", maxAttempts)
}

func randomSessionCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(sessionCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = sessionCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
