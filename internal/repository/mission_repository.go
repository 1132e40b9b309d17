package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrMissionNotFound = fmt.Errorf("mission not found")

type MissionRepository struct {
	db *sql.DB
}

func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

func (r *MissionRepository) CreateMission(ctx context.Context, mission *models.DesignMission) error {
	mission.ID = uuid.New().String()

	query := `
		INSERT INTO design_missions (id, order_index, title, description, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		mission.ID,
		mission.OrderIndex,
		mission.Title,
		mission.Description,
		mission.DurationMinutes,
		mission.IsActive,
	)
	return err
}

func (r *MissionRepository) GetMissionByOrder(ctx context.Context, order int) (*models.DesignMission, error) {
	query := `
		SELECT id, order_index, title, description, duration_minutes, is_active
		FROM design_missions
		WHERE order_index = $1 AND is_active = TRUE
	`
	mission := &models.DesignMission{}
	err := r.db.QueryRowContext(ctx, query, order).Scan(
		&mission.ID,
		&mission.OrderIndex,
		&mission.Title,
		&mission.Description,
		&mission.DurationMinutes,
		&mission.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return mission, nil
}

func (r *MissionRepository) ListMissions(ctx context.Context) ([]*models.DesignMission, error) {
	query := `
		SELECT id, order_index, title, description, duration_minutes, is_active
		FROM design_missions
		WHERE is_active = TRUE
		ORDER BY order_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missions []*models.DesignMission
	for rows.Next() {
		mission := &models.DesignMission{}
		err := rows.Scan(
			&mission.ID,
			&mission.OrderIndex,
			&mission.Title,
			&mission.Description,
			&mission.DurationMinutes,
			&mission.IsActive,
		)
		if err != nil {
			return nil, err
		}
		missions = append(missions, mission)
	}
	return missions, rows.Err()
}

// AdvanceProgress moves a session to the mission at targetOrder in one
// transaction: the session's phase pointer is updated, progress rows are
// ensured for every team up to and including the target (earlier missions
// marked completed), and progress for missions beyond the target is removed.
func (r *MissionRepository) AdvanceProgress(ctx context.Context, sessionID string, teams []string, targetOrder int) (*models.DesignMission, error) {
	target, err := r.GetMissionByOrder(ctx, targetOrder)
	if err != nil {
		return nil, err
	}

	missions, err := r.ListMissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()

	updateSession := `
		UPDATE game_sessions
		SET current_phase = $1, status = 'in_progress', updated_at = $2
		WHERE id = $3 AND status NOT IN ('completed', 'abandoned')
	`
	result, err := tx.ExecContext(ctx, updateSession, targetOrder, now, sessionID)
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("session is not in an updatable state")
	}

	upsertProgress := `
		INSERT INTO team_progress (id, session_id, team_name, mission_id, started_at, completed_at, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, team_name, mission_id) DO UPDATE
		SET is_completed = EXCLUDED.is_completed, completed_at = EXCLUDED.completed_at
		WHERE EXCLUDED.is_completed AND NOT team_progress.is_completed
	`

	for _, team := range teams {
		for _, mission := range missions {
			if mission.OrderIndex > targetOrder {
				continue
			}

			startedAt := sql.NullTime{}
			if mission.OrderIndex == targetOrder {
				startedAt = sql.NullTime{Time: now, Valid: true}
			}

			completedAt := sql.NullTime{}
			isCompleted := mission.OrderIndex < targetOrder
			if isCompleted {
				completedAt = sql.NullTime{Time: now, Valid: true}
			}

			_, err := tx.ExecContext(ctx, upsertProgress,
				uuid.New().String(),
				sessionID,
				team,
				mission.ID,
				startedAt,
				completedAt,
				isCompleted,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to upsert team progress: %w", err)
			}
		}
	}

	deleteFuture := `
		DELETE FROM team_progress
		WHERE session_id = $1
		  AND mission_id IN (SELECT id FROM design_missions WHERE order_index > $2)
	`
	if _, err := tx.ExecContext(ctx, deleteFuture, sessionID, targetOrder); err != nil {
		return nil, fmt.Errorf("failed to clean up future progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return target, nil
}

func (r *MissionRepository) CompleteProgress(ctx context.Context, sessionID, teamName, missionID string) error {
	query := `
		UPDATE team_progress
		SET is_completed = TRUE, completed_at = $1
		WHERE session_id = $2 AND team_name = $3 AND mission_id = $4
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), sessionID, teamName, missionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("team progress not found")
	}
	return nil
}

func (r *MissionRepository) GetProgressBySession(ctx context.Context, sessionID string) ([]*models.TeamProgress, error) {
	query := `
		SELECT tp.id, tp.session_id, tp.team_name, tp.mission_id, tp.started_at, tp.completed_at, tp.is_completed
		FROM team_progress tp
		JOIN design_missions dm ON tp.mission_id = dm.id
		WHERE tp.session_id = $1
		ORDER BY tp.team_name ASC, dm.order_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []*models.TeamProgress
	for rows.Next() {
		p := &models.TeamProgress{}
		err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.TeamName,
			&p.MissionID,
			&p.StartedAt,
			&p.CompletedAt,
			&p.IsCompleted,
		)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
