package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"
)

const leaderboardTTL = 30 * time.Second

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.GameSession) error
	GetSessionByCode(ctx context.Context, code string) (*models.GameSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID, status string, completedAt sql.NullTime) error
	IncrementPlayerCount(ctx context.Context, sessionID string) error
	ListSessionsByStatus(ctx context.Context, gameType, status string) ([]*models.GameSession, error)
}

type PlayerStore interface {
	CreatePlayer(ctx context.Context, player *models.GamePlayer) error
	GetPlayer(ctx context.Context, sessionID, playerSessionID string) (*models.GamePlayer, error)
	GetPlayersBySession(ctx context.Context, sessionID string) ([]*models.GamePlayer, error)
	AddScore(ctx context.Context, playerID string, points int) error
	AwardBadge(ctx context.Context, badge *models.PlayerBadge) (bool, error)
	GetBadgesByPlayer(ctx context.Context, playerID string) ([]*models.PlayerBadge, error)
}

type ResponseStore interface {
	CreateResponse(ctx context.Context, response *models.PlayerResponse) (bool, error)
	GetResponse(ctx context.Context, playerID, challengeID string) (*models.PlayerResponse, error)
	CountCorrectByPlayer(ctx context.Context, playerID string) (int, error)
}

type ChallengeStore interface {
	GetChallengeByID(ctx context.Context, challengeID string) (*models.Challenge, error)
	ListChallenges(ctx context.Context, gameType, kind string) ([]*models.Challenge, error)
}

type GameService struct {
	sessions    SessionStore
	players     PlayerStore
	responses   ResponseStore
	challenges  ChallengeStore
	cache       Cache
	broadcaster Broadcaster
	publisher   Publisher
}

func NewGameService(
	sessions SessionStore,
	players PlayerStore,
	responses ResponseStore,
	challenges ChallengeStore,
	cache Cache,
	broadcaster Broadcaster,
	publisher Publisher,
) *GameService {
	return &GameService{
		sessions:    sessions,
		players:     players,
		responses:   responses,
		challenges:  challenges,
		cache:       cache,
		broadcaster: broadcaster,
		publisher:   publisher,
	}
}

func (s *GameService) CreateSession(ctx context.Context, gameType, facilitatorID string, maxPlayers int, sessionData string) (*models.GameSession, error) {
	if maxPlayers <= 0 {
		maxPlayers = 8
	}

	session := &models.GameSession{
		GameType:      gameType,
		MaxPlayers:    maxPlayers,
		FacilitatorID: facilitatorID,
		SessionData:   sessionData,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (s *GameService) GetSession(ctx context.Context, code string) (*models.GameSession, error) {
	return s.sessions.GetSessionByCode(ctx, code)
}

// JoinSession adds a player to a waiting session. Re-joining with the same
// browser session identifier returns the existing player instead of a new row.
func (s *GameService) JoinSession(ctx context.Context, code, playerSessionID, playerName, role string) (*models.GamePlayer, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	existing, err := s.players.GetPlayer(ctx, session.ID, playerSessionID)
	if err == nil {
		return existing, nil
	}
	if err != repository.ErrPlayerNotFound {
		return nil, fmt.Errorf("failed to look up player: %w", err)
	}

	if !session.IsJoinable() {
		return nil, ErrNotJoinable
	}

	if err := s.sessions.IncrementPlayerCount(ctx, session.ID); err != nil {
		return nil, ErrNotJoinable
	}

	player := &models.GamePlayer{
		SessionID:       session.ID,
		PlayerSessionID: playerSessionID,
		PlayerName:      playerName,
		Role:            role,
	}
	if err := s.players.CreatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(code, ws.MessageTypeParticipantsUpdate, ws.ParticipantsUpdatePayload{
			Action:     constants.ActionJoined,
			PlayerName: playerName,
			Count:      session.PlayerCount + 1,
		})
	}

	return player, nil
}

func (s *GameService) StartSession(ctx context.Context, code, facilitatorID string) error {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return err
	}

	if session.FacilitatorID != "" && session.FacilitatorID != facilitatorID {
		return ErrForbidden
	}

	if session.Status != constants.SessionStatusWaiting {
		return ErrInvalidTransition
	}

	if err := s.sessions.UpdateSessionStatus(ctx, session.ID, constants.SessionStatusInProgress, sql.NullTime{}); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(code, ws.MessageTypeSessionStarted, ws.SessionStartedPayload{
			GameType: session.GameType,
		})
	}

	return nil
}

type AnswerResult struct {
	IsCorrect    bool     `json:"is_correct"`
	PointsEarned int      `json:"points_earned"`
	TotalScore   int      `json:"total_score"`
	Explanation  string   `json:"explanation,omitempty"`
	Duplicate    bool     `json:"duplicate,omitempty"`
	NewBadges    []string `json:"new_badges,omitempty"`
}

// SubmitAnswer validates and scores one answer. The uniqueness constraint on
// (player, challenge) makes this idempotent: the second submission returns the
// stored result without scoring again.
func (s *GameService) SubmitAnswer(ctx context.Context, code, playerSessionID, challengeID, answer string, timeSpentMs int64) (*AnswerResult, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if session.Status != constants.SessionStatusInProgress {
		return nil, ErrInvalidTransition
	}

	player, err := s.players.GetPlayer(ctx, session.ID, playerSessionID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challenges.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	isCorrect := validateAnswer(answer, challenge.CorrectAnswer)

	points := 0
	if isCorrect {
		points = calculateScore(challenge.Points, timeSpentMs, int64(challenge.TimeLimitSec)*1000)
	}

	response := &models.PlayerResponse{
		SessionID:    session.ID,
		PlayerID:     player.ID,
		ChallengeID:  challenge.ID,
		Answer:       answer,
		IsCorrect:    isCorrect,
		PointsEarned: points,
		TimeSpentMs:  timeSpentMs,
	}

	inserted, err := s.responses.CreateResponse(ctx, response)
	if err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	if !inserted {
		stored, err := s.responses.GetResponse(ctx, player.ID, challenge.ID)
		if err != nil {
			return nil, err
		}
		return &AnswerResult{
			IsCorrect:    stored.IsCorrect,
			PointsEarned: stored.PointsEarned,
			TotalScore:   player.TotalScore,
			Duplicate:    true,
		}, nil
	}

	if err := s.players.AddScore(ctx, player.ID, points); err != nil {
		return nil, fmt.Errorf("failed to update score: %w", err)
	}

	result := &AnswerResult{
		IsCorrect:    isCorrect,
		PointsEarned: points,
		TotalScore:   player.TotalScore + points,
	}
	if isCorrect {
		result.Explanation = challenge.Explanation
	}

	result.NewBadges = s.awardBadges(ctx, session, player, result.TotalScore)

	s.invalidateLeaderboard(ctx, code)

	if s.broadcaster != nil {
		leaderboard, err := s.Leaderboard(ctx, code)
		if err == nil {
			s.broadcaster.Broadcast(code, ws.MessageTypeLeaderboard, ws.LeaderboardPayload{
				Leaderboard: leaderboard,
			})
		}
	}

	return result, nil
}

func (s *GameService) Leaderboard(ctx context.Context, code string) ([]models.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("session:%s:leaderboard", code)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	players, err := s.players.GetPlayersBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(players))
	for i, player := range players {
		entries = append(entries, models.LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: player.PlayerName,
			Score:      player.TotalScore,
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), leaderboardTTL); err != nil {
				log.Printf("Failed to cache leaderboard for %s: %v", code, err)
			}
		}
	}

	return entries, nil
}

func (s *GameService) CompleteSession(ctx context.Context, code string) error {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return err
	}

	if session.Status != constants.SessionStatusInProgress {
		return ErrInvalidTransition
	}

	completedAt := sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.sessions.UpdateSessionStatus(ctx, session.ID, constants.SessionStatusCompleted, completedAt); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	s.publishSessionCompleted(ctx, session)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(code, ws.MessageTypeSessionCompleted, ws.SessionCompletedPayload{
			SessionCode: code,
		})
	}

	return nil
}

func (s *GameService) AbandonSession(ctx context.Context, code string) error {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return err
	}

	if session.IsTerminal() {
		return ErrInvalidTransition
	}

	completedAt := sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.sessions.UpdateSessionStatus(ctx, session.ID, constants.SessionStatusAbandoned, completedAt); err != nil {
		return fmt.Errorf("failed to abandon session: %w", err)
	}

	return nil
}

func (s *GameService) ListChallenges(ctx context.Context, gameType, kind string) ([]*models.Challenge, error) {
	return s.challenges.ListChallenges(ctx, gameType, kind)
}

func (s *GameService) GetPlayerBadges(ctx context.Context, code, playerSessionID string) ([]*models.PlayerBadge, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	player, err := s.players.GetPlayer(ctx, session.ID, playerSessionID)
	if err != nil {
		return nil, err
	}
	return s.players.GetBadgesByPlayer(ctx, player.ID)
}

type badgeRule struct {
	code      string
	name      string
	minScore  int
	minStreak int // correct answers
}

var cyberBadgeRules = []badgeRule{
	{code: "password_pro", name: "Password Pro", minScore: 30},
	{code: "cyber_defender", name: "Cyber Defender", minScore: 80},
	{code: "city_guardian", name: "City Guardian", minStreak: 5},
}

func (s *GameService) awardBadges(ctx context.Context, session *models.GameSession, player *models.GamePlayer, totalScore int) []string {
	if session.GameType != constants.GameTypeCyberCity {
		return nil
	}

	correct, err := s.responses.CountCorrectByPlayer(ctx, player.ID)
	if err != nil {
		log.Printf("Failed to count correct responses for %s: %v", player.ID, err)
		correct = 0
	}

	var awarded []string
	for _, rule := range cyberBadgeRules {
		if rule.minScore > 0 && totalScore < rule.minScore {
			continue
		}
		if rule.minStreak > 0 && correct < rule.minStreak {
			continue
		}

		created, err := s.players.AwardBadge(ctx, &models.PlayerBadge{
			PlayerID:  player.ID,
			BadgeCode: rule.code,
			Name:      rule.name,
		})
		if err != nil {
			log.Printf("Failed to award badge %s: %v", rule.code, err)
			continue
		}
		if created {
			awarded = append(awarded, rule.code)
		}
	}
	return awarded
}

func (s *GameService) invalidateLeaderboard(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("session:%s:leaderboard", code)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Failed to invalidate leaderboard cache for %s: %v", code, err)
	}
}

func (s *GameService) publishSessionCompleted(ctx context.Context, session *models.GameSession) {
	if s.publisher == nil {
		return
	}

	type SessionCompletedEvent struct {
		SessionCode   string `json:"session_code"`
		GameType      string `json:"game_type"`
		FacilitatorID string `json:"facilitator_id"`
		PlayerCount   int    `json:"player_count"`
	}

	event := SessionCompletedEvent{
		SessionCode:   session.SessionCode,
		GameType:      session.GameType,
		FacilitatorID: session.FacilitatorID,
		PlayerCount:   session.PlayerCount,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal session_completed event: %v", err)
		return
	}

	if err := s.publisher.Publish(ctx, constants.QueueSessionCompleted, eventJSON); err != nil {
		log.Printf("Failed to publish session_completed event: %v", err)
	}
}

func validateAnswer(answer, correctAnswer string) bool {
	return strings.TrimSpace(strings.ToLower(answer)) == strings.TrimSpace(strings.ToLower(correctAnswer))
}

// calculateScore applies a speed bonus on timed challenges: a full-speed answer
// keeps all points, an answer at the limit keeps half.
func calculateScore(maxScore int, timeSpentMs, timeLimitMs int64) int {
	if timeLimitMs == 0 {
		return maxScore
	}

	timeRatio := float64(timeSpentMs) / float64(timeLimitMs)
	if timeRatio > 1.0 {
		timeRatio = 1.0
	}
	if timeRatio < 0 {
		timeRatio = 0
	}

	score := float64(maxScore) * (1.0 - 0.5*timeRatio)
	return int(score)
}
