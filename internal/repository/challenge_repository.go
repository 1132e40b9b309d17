package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrChallengeNotFound = fmt.Errorf("challenge not found")

type ChallengeRepository struct {
	db *sql.DB
}

func NewChallengeRepository(db *sql.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = uuid.New().String()
	if challenge.Options == "" {
		challenge.Options = "[]"
	}

	query := `
		INSERT INTO challenges (id, game_type, kind, mission_order, title, text, options, correct_answer, points, time_limit_sec, explanation, order_index, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		challenge.ID,
		challenge.GameType,
		challenge.Kind,
		challenge.MissionOrder,
		challenge.Title,
		challenge.Text,
		challenge.Options,
		challenge.CorrectAnswer,
		challenge.Points,
		challenge.TimeLimitSec,
		challenge.Explanation,
		challenge.OrderIndex,
		challenge.IsActive,
	)
	return err
}

func (r *ChallengeRepository) GetChallengeByID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	query := `
		SELECT id, game_type, kind, mission_order, title, text, options, correct_answer, points, time_limit_sec, explanation, order_index, is_active
		FROM challenges
		WHERE id = $1
	`

	challenge := &models.Challenge{}
	err := r.db.QueryRowContext(ctx, query, challengeID).Scan(
		&challenge.ID,
		&challenge.GameType,
		&challenge.Kind,
		&challenge.MissionOrder,
		&challenge.Title,
		&challenge.Text,
		&challenge.Options,
		&challenge.CorrectAnswer,
		&challenge.Points,
		&challenge.TimeLimitSec,
		&challenge.Explanation,
		&challenge.OrderIndex,
		&challenge.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

func (r *ChallengeRepository) ListChallenges(ctx context.Context, gameType, kind string) ([]*models.Challenge, error) {
	query := `
		SELECT id, game_type, kind, mission_order, title, text, options, correct_answer, points, time_limit_sec, explanation, order_index, is_active
		FROM challenges
		WHERE game_type = $1 AND is_active = TRUE
	`

	args := []any{gameType}

	if kind != "" {
		query += " AND kind = $2"
		args = append(args, kind)
	}

	query += " ORDER BY mission_order ASC, order_index ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		challenge := &models.Challenge{}
		err := rows.Scan(
			&challenge.ID,
			&challenge.GameType,
			&challenge.Kind,
			&challenge.MissionOrder,
			&challenge.Title,
			&challenge.Text,
			&challenge.Options,
			&challenge.CorrectAnswer,
			&challenge.Points,
			&challenge.TimeLimitSec,
			&challenge.Explanation,
			&challenge.OrderIndex,
			&challenge.IsActive,
		)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}
	return challenges, rows.Err()
}

func (r *ChallengeRepository) UpdateChallenge(ctx context.Context, challenge *models.Challenge) error {
	query := `
		UPDATE challenges
		SET title = $1, text = $2, options = $3, correct_answer = $4, points = $5, time_limit_sec = $6, explanation = $7, order_index = $8, is_active = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		challenge.Title,
		challenge.Text,
		challenge.Options,
		challenge.CorrectAnswer,
		challenge.Points,
		challenge.TimeLimitSec,
		challenge.Explanation,
		challenge.OrderIndex,
		challenge.IsActive,
		challenge.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepository) DeleteChallenge(ctx context.Context, challengeID string) error {
	query := `UPDATE challenges SET is_active = FALSE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, challengeID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrChallengeNotFound
	}
	return nil
}
