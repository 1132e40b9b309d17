package websocket

type MessageType string

const (
	// Client -> Server
	MessageTypeJoin MessageType = "join"
	MessageTypePing MessageType = "ping"

	// Server -> Client
	MessageTypeConnected          MessageType = "connected"
	MessageTypeParticipantsUpdate MessageType = "participants_update"
	MessageTypeSessionStarted     MessageType = "session_started"
	MessageTypeMissionChanged     MessageType = "mission_changed"
	MessageTypeProgressUpdate     MessageType = "progress_update"
	MessageTypeLeaderboard        MessageType = "leaderboard"
	MessageTypeSessionCompleted   MessageType = "session_completed"
	MessageTypeError              MessageType = "error"
	MessageTypePong               MessageType = "pong"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type ConnectedPayload struct {
	SessionCode   string `json:"session_code"`
	GameType      string `json:"game_type"`
	SessionStatus string `json:"session_status"`
	IsFacilitator bool   `json:"is_facilitator"`
}

type ParticipantsUpdatePayload struct {
	Action     string `json:"action"` // "joined" or "left"
	PlayerName string `json:"player_name"`
	Count      int    `json:"count"`
}

type SessionStartedPayload struct {
	GameType string `json:"game_type"`
}

type MissionChangedPayload struct {
	MissionOrder int    `json:"mission_order"`
	MissionTitle string `json:"mission_title"`
}

type ProgressUpdatePayload struct {
	Teams []TeamProgressData `json:"teams"`
}

type TeamProgressData struct {
	TeamName          string `json:"team_name"`
	CompletedMissions int    `json:"completed_missions"`
	CurrentMission    int    `json:"current_mission"`
}

type LeaderboardPayload struct {
	Leaderboard any `json:"leaderboard"`
}

type SessionCompletedPayload struct {
	SessionCode string `json:"session_code"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
