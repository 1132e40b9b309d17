package models

import (
	"database/sql"
	"time"
)

type Challenge struct {
	ID            string
	GameType      string
	Kind          string
	MissionOrder  int
	Title         string
	Text          string
	Options       string // JSON array
	CorrectAnswer string
	Points        int
	TimeLimitSec  int
	Explanation   string
	OrderIndex    int
	IsActive      bool
}

type DesignMission struct {
	ID              string
	OrderIndex      int
	Title           string
	Description     string
	DurationMinutes int
	IsActive        bool
}

type TeamProgress struct {
	ID          string
	SessionID   string
	TeamName    string
	MissionID   string
	StartedAt   sql.NullTime
	CompletedAt sql.NullTime
	IsCompleted bool
}

type QuestLevel struct {
	ID         string
	OrderIndex int
	Name       string
	Prompt     string
	Rubric     string // JSON
	IsActive   bool
}

type LevelResponse struct {
	ID          string
	SessionID   string
	TeamName    string
	LevelID     string
	Answers     string // JSON object of form fields
	Score       int
	ArtifactKey string
	SubmittedAt time.Time
}

type TeamScore struct {
	Rank     int    `json:"rank"`
	TeamName string `json:"team_name"`
	Score    int    `json:"score"`
}
