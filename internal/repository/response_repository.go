package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrResponseNotFound = fmt.Errorf("response not found")

type ResponseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// CreateResponse appends one response per (player, challenge). A duplicate
// submission loses the conflict and is reported through the returned bool so
// the caller can short-circuit without scoring twice.
func (r *ResponseRepository) CreateResponse(ctx context.Context, response *models.PlayerResponse) (bool, error) {
	response.ID = uuid.New().String()
	response.CreatedAt = time.Now()

	query := `
		INSERT INTO player_responses (id, session_id, player_id, challenge_id, answer, is_correct, points_earned, time_spent_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, challenge_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		response.ID,
		response.SessionID,
		response.PlayerID,
		response.ChallengeID,
		response.Answer,
		response.IsCorrect,
		response.PointsEarned,
		response.TimeSpentMs,
		response.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *ResponseRepository) GetResponse(ctx context.Context, playerID, challengeID string) (*models.PlayerResponse, error) {
	query := `
		SELECT id, session_id, player_id, challenge_id, answer, is_correct, points_earned, time_spent_ms, created_at
		FROM player_responses
		WHERE player_id = $1 AND challenge_id = $2
	`
	response := &models.PlayerResponse{}
	err := r.db.QueryRowContext(ctx, query, playerID, challengeID).Scan(
		&response.ID,
		&response.SessionID,
		&response.PlayerID,
		&response.ChallengeID,
		&response.Answer,
		&response.IsCorrect,
		&response.PointsEarned,
		&response.TimeSpentMs,
		&response.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *ResponseRepository) GetResponsesByPlayer(ctx context.Context, playerID string) ([]*models.PlayerResponse, error) {
	query := `
		SELECT id, session_id, player_id, challenge_id, answer, is_correct, points_earned, time_spent_ms, created_at
		FROM player_responses
		WHERE player_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*models.PlayerResponse
	for rows.Next() {
		response := &models.PlayerResponse{}
		err := rows.Scan(
			&response.ID,
			&response.SessionID,
			&response.PlayerID,
			&response.ChallengeID,
			&response.Answer,
			&response.IsCorrect,
			&response.PointsEarned,
			&response.TimeSpentMs,
			&response.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

func (r *ResponseRepository) CountCorrectByPlayer(ctx context.Context, playerID string) (int, error) {
	query := `SELECT COUNT(*) FROM player_responses WHERE player_id = $1 AND is_correct = TRUE`
	var count int
	err := r.db.QueryRowContext(ctx, query, playerID).Scan(&count)
	return count, err
}

func (r *ResponseRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	query := `SELECT COUNT(*) FROM player_responses WHERE session_id = $1`
	var count int
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&count)
	return count, err
}
