package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrLevelNotFound = fmt.Errorf("level not found")

type QuestRepository struct {
	db *sql.DB
}

func NewQuestRepository(db *sql.DB) *QuestRepository {
	return &QuestRepository{db: db}
}

func (r *QuestRepository) CreateLevel(ctx context.Context, level *models.QuestLevel) error {
	level.ID = uuid.New().String()
	if level.Rubric == "" {
		level.Rubric = "{}"
	}

	query := `
		INSERT INTO quest_levels (id, order_index, name, prompt, rubric, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		level.ID,
		level.OrderIndex,
		level.Name,
		level.Prompt,
		level.Rubric,
		level.IsActive,
	)
	return err
}

func (r *QuestRepository) GetLevelByOrder(ctx context.Context, order int) (*models.QuestLevel, error) {
	query := `
		SELECT id, order_index, name, prompt, rubric, is_active
		FROM quest_levels
		WHERE order_index = $1 AND is_active = TRUE
	`
	level := &models.QuestLevel{}
	err := r.db.QueryRowContext(ctx, query, order).Scan(
		&level.ID,
		&level.OrderIndex,
		&level.Name,
		&level.Prompt,
		&level.Rubric,
		&level.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return level, nil
}

func (r *QuestRepository) ListLevels(ctx context.Context) ([]*models.QuestLevel, error) {
	query := `
		SELECT id, order_index, name, prompt, rubric, is_active
		FROM quest_levels
		WHERE is_active = TRUE
		ORDER BY order_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*models.QuestLevel
	for rows.Next() {
		level := &models.QuestLevel{}
		err := rows.Scan(
			&level.ID,
			&level.OrderIndex,
			&level.Name,
			&level.Prompt,
			&level.Rubric,
			&level.IsActive,
		)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// UpsertLevelResponse stores a team's submission for a level. A re-submission
// replaces the previous answers and score, keeping one row per
// (session, team, level).
func (r *QuestRepository) UpsertLevelResponse(ctx context.Context, response *models.LevelResponse) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.SubmittedAt = time.Now()

	query := `
		INSERT INTO level_responses (id, session_id, team_name, level_id, answers, score, artifact_key, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, team_name, level_id)
		DO UPDATE SET answers = EXCLUDED.answers, score = EXCLUDED.score, artifact_key = EXCLUDED.artifact_key, submitted_at = EXCLUDED.submitted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		response.ID,
		response.SessionID,
		response.TeamName,
		response.LevelID,
		response.Answers,
		response.Score,
		response.ArtifactKey,
		response.SubmittedAt,
	)
	return err
}

func (r *QuestRepository) GetLevelResponse(ctx context.Context, sessionID, teamName, levelID string) (*models.LevelResponse, error) {
	query := `
		SELECT id, session_id, team_name, level_id, answers, score, artifact_key, submitted_at
		FROM level_responses
		WHERE session_id = $1 AND team_name = $2 AND level_id = $3
	`
	response := &models.LevelResponse{}
	err := r.db.QueryRowContext(ctx, query, sessionID, teamName, levelID).Scan(
		&response.ID,
		&response.SessionID,
		&response.TeamName,
		&response.LevelID,
		&response.Answers,
		&response.Score,
		&response.ArtifactKey,
		&response.SubmittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *QuestRepository) GetTeamTotals(ctx context.Context, sessionID string) ([]*models.TeamScore, error) {
	query := `
		SELECT team_name, COALESCE(SUM(score), 0) AS total
		FROM level_responses
		WHERE session_id = $1
		GROUP BY team_name
		ORDER BY total DESC, team_name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.TeamScore
	rank := 1
	for rows.Next() {
		score := &models.TeamScore{}
		if err := rows.Scan(&score.TeamName, &score.Score); err != nil {
			return nil, err
		}
		score.Rank = rank
		rank++
		totals = append(totals, score)
	}
	return totals, rows.Err()
}
