package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var ErrPlayerNotFound = fmt.Errorf("player not found")

type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, player *models.GamePlayer) error {
	player.ID = uuid.New().String()
	player.JoinedAt = time.Now()
	player.LastActivity = player.JoinedAt
	player.IsActive = true
	if player.PlayerData == "" {
		player.PlayerData = "{}"
	}

	query := `
		INSERT INTO game_players (id, session_id, player_session_id, player_name, role, total_score, actions_completed, is_active, player_data, joined_at, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		player.ID,
		player.SessionID,
		player.PlayerSessionID,
		player.PlayerName,
		player.Role,
		player.TotalScore,
		player.ActionsCompleted,
		player.IsActive,
		player.PlayerData,
		player.JoinedAt,
		player.LastActivity,
	)
	return err
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, sessionID, playerSessionID string) (*models.GamePlayer, error) {
	query := `
		SELECT id, session_id, player_session_id, player_name, role, total_score, actions_completed, is_active, player_data, joined_at, last_activity
		FROM game_players
		WHERE session_id = $1 AND player_session_id = $2
	`
	player := &models.GamePlayer{}
	err := r.db.QueryRowContext(ctx, query, sessionID, playerSessionID).Scan(
		&player.ID,
		&player.SessionID,
		&player.PlayerSessionID,
		&player.PlayerName,
		&player.Role,
		&player.TotalScore,
		&player.ActionsCompleted,
		&player.IsActive,
		&player.PlayerData,
		&player.JoinedAt,
		&player.LastActivity,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

func (r *PlayerRepository) GetPlayersBySession(ctx context.Context, sessionID string) ([]*models.GamePlayer, error) {
	query := `
		SELECT id, session_id, player_session_id, player_name, role, total_score, actions_completed, is_active, player_data, joined_at, last_activity
		FROM game_players
		WHERE session_id = $1
		ORDER BY total_score DESC, joined_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.GamePlayer
	for rows.Next() {
		player := &models.GamePlayer{}
		err := rows.Scan(
			&player.ID,
			&player.SessionID,
			&player.PlayerSessionID,
			&player.PlayerName,
			&player.Role,
			&player.TotalScore,
			&player.ActionsCompleted,
			&player.IsActive,
			&player.PlayerData,
			&player.JoinedAt,
			&player.LastActivity,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

// AddScore accumulates earned points. Points are never negative, so the
// player's total only moves forward.
func (r *PlayerRepository) AddScore(ctx context.Context, playerID string, points int) error {
	query := `
		UPDATE game_players
		SET total_score = total_score + $1, actions_completed = actions_completed + 1, last_activity = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, points, time.Now(), playerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) TouchActivity(ctx context.Context, playerID string) error {
	query := `UPDATE game_players SET last_activity = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), playerID)
	return err
}

func (r *PlayerRepository) UpdatePlayerData(ctx context.Context, playerID, playerData string) error {
	query := `UPDATE game_players SET player_data = $1, last_activity = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, playerData, time.Now(), playerID)
	return err
}

// AwardBadge inserts a badge unless the player already holds it.
func (r *PlayerRepository) AwardBadge(ctx context.Context, badge *models.PlayerBadge) (bool, error) {
	badge.ID = uuid.New().String()
	badge.AwardedAt = time.Now()

	query := `
		INSERT INTO player_badges (id, player_id, badge_code, name, awarded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, badge_code) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		badge.ID,
		badge.PlayerID,
		badge.BadgeCode,
		badge.Name,
		badge.AwardedAt,
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

func (r *PlayerRepository) GetBadgesByPlayer(ctx context.Context, playerID string) ([]*models.PlayerBadge, error) {
	query := `
		SELECT id, player_id, badge_code, name, awarded_at
		FROM player_badges
		WHERE player_id = $1
		ORDER BY awarded_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []*models.PlayerBadge
	for rows.Next() {
		badge := &models.PlayerBadge{}
		if err := rows.Scan(&badge.ID, &badge.PlayerID, &badge.BadgeCode, &badge.Name, &badge.AwardedAt); err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}
