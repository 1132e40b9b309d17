package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"
)

const progressTTL = time.Minute

type MissionStore interface {
	GetMissionByOrder(ctx context.Context, order int) (*models.DesignMission, error)
	ListMissions(ctx context.Context) ([]*models.DesignMission, error)
	AdvanceProgress(ctx context.Context, sessionID string, teams []string, targetOrder int) (*models.DesignMission, error)
	CompleteProgress(ctx context.Context, sessionID, teamName, missionID string) error
	GetProgressBySession(ctx context.Context, sessionID string) ([]*models.TeamProgress, error)
}

// MissionService drives the design-thinking flow: six ordered missions
// (Empathy through Showcase) that a facilitator advances for the whole session.
type MissionService struct {
	sessions    SessionStore
	missions    MissionStore
	cache       Cache
	broadcaster Broadcaster
}

func NewMissionService(sessions SessionStore, missions MissionStore, cache Cache, broadcaster Broadcaster) *MissionService {
	return &MissionService{
		sessions:    sessions,
		missions:    missions,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

type MissionAdvanceResult struct {
	MissionOrder int    `json:"mission_order"`
	MissionTitle string `json:"mission_title"`
	Message      string `json:"message"`
}

// AdvanceToMission moves the session to the mission at the given order. The
// database work happens in one transaction inside the store; cache
// invalidation and the WebSocket broadcast are best effort afterwards.
func (s *MissionService) AdvanceToMission(ctx context.Context, code string, missionOrder int) (*MissionAdvanceResult, error) {
	if missionOrder < 1 || missionOrder > constants.DesignMissionCount {
		return nil, fmt.Errorf("%w: mission order %d must be between 1 and %d", ErrInvalidInput, missionOrder, constants.DesignMissionCount)
	}

	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	teams := sessionTeams(session)
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: session %s has no teams configured", ErrInvalidInput, code)
	}

	target, err := s.missions.AdvanceProgress(ctx, session.ID, teams, missionOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to advance mission: %w", err)
	}

	s.invalidateSessionCaches(ctx, code)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(code, ws.MessageTypeMissionChanged, ws.MissionChangedPayload{
			MissionOrder: target.OrderIndex,
			MissionTitle: target.Title,
		})
		s.broadcastProgress(ctx, code, session.ID)
	}

	return &MissionAdvanceResult{
		MissionOrder: target.OrderIndex,
		MissionTitle: target.Title,
		Message:      fmt.Sprintf("Advanced to %s", target.Title),
	}, nil
}

func (s *MissionService) AdvanceToNextMission(ctx context.Context, code string) (*MissionAdvanceResult, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.AdvanceToMission(ctx, code, session.CurrentPhase+1)
}

func (s *MissionService) CompleteCurrentMission(ctx context.Context, code, teamName string) error {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return err
	}

	if session.CurrentPhase == 0 {
		return fmt.Errorf("session has not started a mission yet")
	}

	mission, err := s.missions.GetMissionByOrder(ctx, session.CurrentPhase)
	if err != nil {
		return err
	}

	if err := s.missions.CompleteProgress(ctx, session.ID, teamName, mission.ID); err != nil {
		return err
	}

	s.invalidateSessionCaches(ctx, code)

	if s.broadcaster != nil {
		s.broadcastProgress(ctx, code, session.ID)
	}

	return nil
}

type SessionProgress struct {
	SessionCode    string             `json:"session_code"`
	CurrentMission int                `json:"current_mission"`
	Teams          []TeamMissionState `json:"teams"`
}

type TeamMissionState struct {
	TeamName          string `json:"team_name"`
	CompletedMissions int    `json:"completed_missions"`
	TotalMissions     int    `json:"total_missions"`
}

func (s *MissionService) GetSessionProgress(ctx context.Context, code string) (*SessionProgress, error) {
	cacheKey := fmt.Sprintf("session:%s:progress", code)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			progress := &SessionProgress{}
			if err := json.Unmarshal([]byte(cached), progress); err == nil {
				return progress, nil
			}
		}
	}

	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	rows, err := s.missions.GetProgressBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	totals := make(map[string]int)
	completed := make(map[string]int)
	var order []string
	for _, row := range rows {
		if _, seen := totals[row.TeamName]; !seen {
			order = append(order, row.TeamName)
		}
		totals[row.TeamName]++
		if row.IsCompleted {
			completed[row.TeamName]++
		}
	}

	progress := &SessionProgress{
		SessionCode:    code,
		CurrentMission: session.CurrentPhase,
	}
	for _, team := range order {
		progress.Teams = append(progress.Teams, TeamMissionState{
			TeamName:          team,
			CompletedMissions: completed[team],
			TotalMissions:     constants.DesignMissionCount,
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(progress); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), progressTTL); err != nil {
				log.Printf("Failed to cache progress for %s: %v", code, err)
			}
		}
	}

	return progress, nil
}

func (s *MissionService) ListMissions(ctx context.Context) ([]*models.DesignMission, error) {
	return s.missions.ListMissions(ctx)
}

func (s *MissionService) invalidateSessionCaches(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	keys := []string{
		fmt.Sprintf("session:%s:progress", code),
		fmt.Sprintf("session:%s:leaderboard", code),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("Failed to invalidate caches for %s: %v", code, err)
	}
}

func (s *MissionService) broadcastProgress(ctx context.Context, code, sessionID string) {
	rows, err := s.missions.GetProgressBySession(ctx, sessionID)
	if err != nil {
		log.Printf("Failed to load progress for broadcast: %v", err)
		return
	}

	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return
	}

	teams := make(map[string]*ws.TeamProgressData)
	var order []string
	for _, row := range rows {
		data, ok := teams[row.TeamName]
		if !ok {
			data = &ws.TeamProgressData{TeamName: row.TeamName, CurrentMission: session.CurrentPhase}
			teams[row.TeamName] = data
			order = append(order, row.TeamName)
		}
		if row.IsCompleted {
			data.CompletedMissions++
		}
	}

	payload := ws.ProgressUpdatePayload{}
	for _, team := range order {
		payload.Teams = append(payload.Teams, *teams[team])
	}

	s.broadcaster.Broadcast(code, ws.MessageTypeProgressUpdate, payload)
}

// sessionTeams reads the team list from the session's JSON data bag.
func sessionTeams(session *models.GameSession) []string {
	var data struct {
		Teams []string `json:"teams"`
	}
	if err := json.Unmarshal([]byte(session.SessionData), &data); err != nil {
		return nil
	}
	return data.Teams
}
