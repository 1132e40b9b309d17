package models

import (
	"database/sql"
	"time"
)

type GameSession struct {
	ID            string
	SessionCode   string
	GameType      string
	Status        string // "waiting", "in_progress", "completed", "abandoned"
	CurrentPhase  int
	CurrentRound  int
	PlayerCount   int
	MaxPlayers    int
	FacilitatorID string
	SessionData   string // JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   sql.NullTime
}

// IsJoinable reports whether a new player may still enter the session.
func (s *GameSession) IsJoinable() bool {
	return s.Status == "waiting" && s.PlayerCount < s.MaxPlayers
}

func (s *GameSession) IsActive() bool {
	return s.Status == "waiting" || s.Status == "in_progress"
}

func (s *GameSession) IsTerminal() bool {
	return s.Status == "completed" || s.Status == "abandoned"
}

type GamePlayer struct {
	ID               string
	SessionID        string
	PlayerSessionID  string // browser-derived identifier
	PlayerName       string
	Role             string
	TotalScore       int
	ActionsCompleted int
	IsActive         bool
	PlayerData       string // JSON
	JoinedAt         time.Time
	LastActivity     time.Time
}

type PlayerResponse struct {
	ID           string
	SessionID    string
	PlayerID     string
	ChallengeID  string
	Answer       string
	IsCorrect    bool
	PointsEarned int
	TimeSpentMs  int64
	CreatedAt    time.Time
}

type PlayerBadge struct {
	ID        string
	PlayerID  string
	BadgeCode string
	Name      string
	AwardedAt time.Time
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}
