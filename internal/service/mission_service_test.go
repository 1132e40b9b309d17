package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
)

type fakeMissionStore struct {
	missions map[int]*models.DesignMission              // by order
	progress map[string]map[string]*models.TeamProgress // sessionID -> teamName/missionID
}

func newFakeMissionStore() *fakeMissionStore {
	store := &fakeMissionStore{
		missions: make(map[int]*models.DesignMission),
		progress: make(map[string]map[string]*models.TeamProgress),
	}
	titles := []string{"Empathy", "Define", "Ideate", "Prototype", "Test", "Showcase"}
	for i, title := range titles {
		store.missions[i+1] = &models.DesignMission{
			ID:         fmt.Sprintf("mission-%d", i+1),
			OrderIndex: i + 1,
			Title:      title,
			IsActive:   true,
		}
	}
	return store
}

func (f *fakeMissionStore) GetMissionByOrder(ctx context.Context, order int) (*models.DesignMission, error) {
	mission, ok := f.missions[order]
	if !ok {
		return nil, repository.ErrMissionNotFound
	}
	return mission, nil
}

func (f *fakeMissionStore) ListMissions(ctx context.Context) ([]*models.DesignMission, error) {
	out := make([]*models.DesignMission, 0, len(f.missions))
	for i := 1; i <= len(f.missions); i++ {
		out = append(out, f.missions[i])
	}
	return out, nil
}

func (f *fakeMissionStore) AdvanceProgress(ctx context.Context, sessionID string, teams []string, targetOrder int) (*models.DesignMission, error) {
	target, ok := f.missions[targetOrder]
	if !ok {
		return nil, repository.ErrMissionNotFound
	}

	rows, ok := f.progress[sessionID]
	if !ok {
		rows = make(map[string]*models.TeamProgress)
		f.progress[sessionID] = rows
	}

	for _, team := range teams {
		for order := 1; order <= targetOrder; order++ {
			mission := f.missions[order]
			key := team + "/" + mission.ID
			row, ok := rows[key]
			if !ok {
				row = &models.TeamProgress{
					SessionID: sessionID,
					TeamName:  team,
					MissionID: mission.ID,
				}
				rows[key] = row
			}
			if order < targetOrder {
				row.IsCompleted = true
			}
		}
		for order := targetOrder + 1; order <= len(f.missions); order++ {
			delete(rows, team+"/"+f.missions[order].ID)
		}
	}

	return target, nil
}

func (f *fakeMissionStore) CompleteProgress(ctx context.Context, sessionID, teamName, missionID string) error {
	rows, ok := f.progress[sessionID]
	if !ok {
		return repository.ErrMissionNotFound
	}
	row, ok := rows[teamName+"/"+missionID]
	if !ok {
		return repository.ErrMissionNotFound
	}
	row.IsCompleted = true
	return nil
}

func (f *fakeMissionStore) GetProgressBySession(ctx context.Context, sessionID string) ([]*models.TeamProgress, error) {
	var out []*models.TeamProgress
	for _, row := range f.progress[sessionID] {
		out = append(out, row)
	}
	return out, nil
}

func newDesignSession(t *testing.T, sessions *fakeSessionStore, teams string) *models.GameSession {
	t.Helper()
	session := &models.GameSession{
		GameType:    constants.GameTypeDesignThinking,
		MaxPlayers:  30,
		SessionData: teams,
	}
	if err := sessions.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func TestAdvanceToMissionValidatesOrder(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := NewMissionService(sessions, newFakeMissionStore(), nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red","Blue"]}`)

	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("order 0: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, constants.DesignMissionCount+1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("order beyond the last mission: got %v, want ErrInvalidInput", err)
	}
}

func TestAdvanceToMissionRejectsTerminalSession(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := NewMissionService(sessions, newFakeMissionStore(), nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red"]}`)
	completedAt := sql.NullTime{Time: time.Now(), Valid: true}
	if err := sessions.UpdateSessionStatus(ctx, session.ID, constants.SessionStatusCompleted, completedAt); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 2); err != ErrInvalidTransition {
		t.Errorf("advance on completed session: got %v, want ErrInvalidTransition", err)
	}
}

func TestAdvanceToMissionRequiresTeams(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := NewMissionService(sessions, newFakeMissionStore(), nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{}`)

	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("advance without teams: got %v, want ErrInvalidInput", err)
	}
}

func TestAdvanceMarksEarlierMissionsCompleted(t *testing.T) {
	sessions := newFakeSessionStore()
	missions := newFakeMissionStore()
	svc := NewMissionService(sessions, missions, nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red","Blue"]}`)

	result, err := svc.AdvanceToMission(ctx, session.SessionCode, 3)
	if err != nil {
		t.Fatalf("AdvanceToMission: %v", err)
	}
	if result.MissionOrder != 3 || result.MissionTitle != "Ideate" {
		t.Errorf("result = %+v, want mission 3 Ideate", result)
	}

	rows, err := missions.GetProgressBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetProgressBySession: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("progress rows = %d, want 6 (3 missions x 2 teams)", len(rows))
	}

	completed := 0
	for _, row := range rows {
		if row.IsCompleted {
			completed++
		}
	}
	if completed != 4 {
		t.Errorf("completed rows = %d, want 4 (missions 1-2 for both teams)", completed)
	}
}

func TestAdvanceBackwardDropsFutureProgress(t *testing.T) {
	sessions := newFakeSessionStore()
	missions := newFakeMissionStore()
	svc := NewMissionService(sessions, missions, nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red"]}`)

	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 5); err != nil {
		t.Fatalf("advance to 5: %v", err)
	}
	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 2); err != nil {
		t.Fatalf("advance back to 2: %v", err)
	}

	rows, err := missions.GetProgressBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetProgressBySession: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("progress rows after rewind = %d, want 2", len(rows))
	}
}

func TestGetSessionProgressMatrix(t *testing.T) {
	sessions := newFakeSessionStore()
	missions := newFakeMissionStore()
	svc := NewMissionService(sessions, missions, nil, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red","Blue"]}`)

	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 2); err != nil {
		t.Fatalf("AdvanceToMission: %v", err)
	}

	progress, err := svc.GetSessionProgress(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("GetSessionProgress: %v", err)
	}
	if len(progress.Teams) != 2 {
		t.Fatalf("teams = %d, want 2", len(progress.Teams))
	}
	for _, team := range progress.Teams {
		if team.CompletedMissions != 1 {
			t.Errorf("team %s completed = %d, want 1", team.TeamName, team.CompletedMissions)
		}
		if team.TotalMissions != constants.DesignMissionCount {
			t.Errorf("team %s total = %d, want %d", team.TeamName, team.TotalMissions, constants.DesignMissionCount)
		}
	}
}

func TestGetSessionProgressUsesCache(t *testing.T) {
	sessions := newFakeSessionStore()
	missions := newFakeMissionStore()
	cache := newFakeCache()
	svc := NewMissionService(sessions, missions, cache, nil)
	ctx := context.Background()

	session := newDesignSession(t, sessions, `{"teams":["Red"]}`)
	if _, err := svc.AdvanceToMission(ctx, session.SessionCode, 2); err != nil {
		t.Fatalf("AdvanceToMission: %v", err)
	}

	first, err := svc.GetSessionProgress(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("first GetSessionProgress: %v", err)
	}

	// Mutate the store behind the cache; the cached view should win.
	if err := missions.CompleteProgress(ctx, session.ID, "Red", "mission-2"); err != nil {
		t.Fatalf("CompleteProgress: %v", err)
	}

	second, err := svc.GetSessionProgress(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("second GetSessionProgress: %v", err)
	}
	if second.Teams[0].CompletedMissions != first.Teams[0].CompletedMissions {
		t.Errorf("cached progress changed: %d vs %d", second.Teams[0].CompletedMissions, first.Teams[0].CompletedMissions)
	}
}
