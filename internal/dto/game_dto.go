package dto

import (
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type CreateSessionRequest struct {
	GameType      string `json:"game_type" binding:"required,oneof=cyber_city constitution climate design_thinking quest_ciq robotic_buddy"`
	MaxPlayers    int    `json:"max_players" binding:"omitempty,min=1,max=200"`
	FacilitatorID string `json:"facilitator_id"`
	SessionData   string `json:"session_data"`
}

type JoinSessionRequest struct {
	PlayerSessionID string `json:"player_session_id" binding:"required"`
	PlayerName      string `json:"player_name" binding:"required,max=50"`
	Role            string `json:"role"`
}

type StartSessionRequest struct {
	FacilitatorID string `json:"facilitator_id"`
}

type SubmitAnswerRequest struct {
	PlayerSessionID string `json:"player_session_id" binding:"required"`
	ChallengeID     string `json:"challenge_id" binding:"required"`
	Answer          string `json:"answer" binding:"required"`
	TimeSpentMs     int64  `json:"time_spent_ms" binding:"omitempty,min=0"`
}

type SessionDTO struct {
	ID           string `json:"id"`
	SessionCode  string `json:"session_code"`
	GameType     string `json:"game_type"`
	Status       string `json:"status"`
	CurrentPhase int    `json:"current_phase"`
	CurrentRound int    `json:"current_round"`
	PlayerCount  int    `json:"player_count"`
	MaxPlayers   int    `json:"max_players"`
	CreatedAt    string `json:"created_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

func NewSessionDTO(s *models.GameSession) SessionDTO {
	out := SessionDTO{
		ID:           s.ID,
		SessionCode:  s.SessionCode,
		GameType:     s.GameType,
		Status:       s.Status,
		CurrentPhase: s.CurrentPhase,
		CurrentRound: s.CurrentRound,
		PlayerCount:  s.PlayerCount,
		MaxPlayers:   s.MaxPlayers,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
	if s.CompletedAt.Valid {
		out.CompletedAt = s.CompletedAt.Time.Format(time.RFC3339)
	}
	return out
}

type PlayerDTO struct {
	ID               string `json:"id"`
	PlayerSessionID  string `json:"player_session_id"`
	PlayerName       string `json:"player_name"`
	Role             string `json:"role,omitempty"`
	TotalScore       int    `json:"total_score"`
	ActionsCompleted int    `json:"actions_completed"`
	JoinedAt         string `json:"joined_at"`
}

func NewPlayerDTO(p *models.GamePlayer) PlayerDTO {
	return PlayerDTO{
		ID:               p.ID,
		PlayerSessionID:  p.PlayerSessionID,
		PlayerName:       p.PlayerName,
		Role:             p.Role,
		TotalScore:       p.TotalScore,
		ActionsCompleted: p.ActionsCompleted,
		JoinedAt:         p.JoinedAt.Format(time.RFC3339),
	}
}

type ChallengeDTO struct {
	ID           string `json:"id"`
	GameType     string `json:"game_type"`
	Kind         string `json:"kind"`
	MissionOrder int    `json:"mission_order,omitempty"`
	Title        string `json:"title"`
	Text         string `json:"text"`
	Options      string `json:"options,omitempty"`
	Points       int    `json:"points"`
	TimeLimitSec int    `json:"time_limit_sec,omitempty"`
	OrderIndex   int    `json:"order_index"`
}

// NewChallengeDTO strips the correct answer so clients cannot read it before
// answering.
func NewChallengeDTO(ch *models.Challenge) ChallengeDTO {
	return ChallengeDTO{
		ID:           ch.ID,
		GameType:     ch.GameType,
		Kind:         ch.Kind,
		MissionOrder: ch.MissionOrder,
		Title:        ch.Title,
		Text:         ch.Text,
		Options:      ch.Options,
		Points:       ch.Points,
		TimeLimitSec: ch.TimeLimitSec,
		OrderIndex:   ch.OrderIndex,
	}
}

type BadgeDTO struct {
	BadgeCode string `json:"badge_code"`
	Name      string `json:"name"`
	AwardedAt string `json:"awarded_at"`
}

func NewBadgeDTO(b *models.PlayerBadge) BadgeDTO {
	return BadgeDTO{
		BadgeCode: b.BadgeCode,
		Name:      b.Name,
		AwardedAt: b.AwardedAt.Format(time.RFC3339),
	}
}
