package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
)

type fakeSessionStore struct {
	sessions map[string]*models.GameSession
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.GameSession)}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session *models.GameSession) error {
	f.nextID++
	session.ID = fmt.Sprintf("session-%d", f.nextID)
	session.SessionCode = fmt.Sprintf("CODE%02d", f.nextID)
	session.Status = constants.SessionStatusWaiting
	session.CreatedAt = time.Now()
	f.sessions[session.SessionCode] = session
	return nil
}

func (f *fakeSessionStore) GetSessionByCode(ctx context.Context, code string) (*models.GameSession, error) {
	session, ok := f.sessions[code]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) UpdateSessionStatus(ctx context.Context, sessionID, status string, completedAt sql.NullTime) error {
	for _, session := range f.sessions {
		if session.ID != sessionID {
			continue
		}
		if session.IsTerminal() {
			return fmt.Errorf("session is not in an updatable state")
		}
		session.Status = status
		session.CompletedAt = completedAt
		return nil
	}
	return repository.ErrSessionNotFound
}

func (f *fakeSessionStore) IncrementPlayerCount(ctx context.Context, sessionID string) error {
	for _, session := range f.sessions {
		if session.ID != sessionID {
			continue
		}
		if !session.IsJoinable() {
			return fmt.Errorf("session is full or already started")
		}
		session.PlayerCount++
		return nil
	}
	return repository.ErrSessionNotFound
}

func (f *fakeSessionStore) ListSessionsByStatus(ctx context.Context, gameType, status string) ([]*models.GameSession, error) {
	var out []*models.GameSession
	for _, session := range f.sessions {
		if session.GameType == gameType && session.Status == status {
			out = append(out, session)
		}
	}
	return out, nil
}

type fakePlayerStore struct {
	players map[string]*models.GamePlayer // sessionID/playerSessionID
	badges  map[string]*models.PlayerBadge
	nextID  int
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{
		players: make(map[string]*models.GamePlayer),
		badges:  make(map[string]*models.PlayerBadge),
	}
}

func playerKey(sessionID, playerSessionID string) string {
	return sessionID + "/" + playerSessionID
}

func (f *fakePlayerStore) CreatePlayer(ctx context.Context, player *models.GamePlayer) error {
	f.nextID++
	player.ID = fmt.Sprintf("player-%d", f.nextID)
	player.JoinedAt = time.Now()
	f.players[playerKey(player.SessionID, player.PlayerSessionID)] = player
	return nil
}

func (f *fakePlayerStore) GetPlayer(ctx context.Context, sessionID, playerSessionID string) (*models.GamePlayer, error) {
	player, ok := f.players[playerKey(sessionID, playerSessionID)]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (f *fakePlayerStore) GetPlayersBySession(ctx context.Context, sessionID string) ([]*models.GamePlayer, error) {
	var out []*models.GamePlayer
	for _, player := range f.players {
		if player.SessionID == sessionID {
			out = append(out, player)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (f *fakePlayerStore) AddScore(ctx context.Context, playerID string, points int) error {
	for _, player := range f.players {
		if player.ID == playerID {
			player.TotalScore += points
			player.ActionsCompleted++
			return nil
		}
	}
	return repository.ErrPlayerNotFound
}

func (f *fakePlayerStore) AwardBadge(ctx context.Context, badge *models.PlayerBadge) (bool, error) {
	key := badge.PlayerID + "/" + badge.BadgeCode
	if _, ok := f.badges[key]; ok {
		return false, nil
	}
	f.badges[key] = badge
	return true, nil
}

func (f *fakePlayerStore) GetBadgesByPlayer(ctx context.Context, playerID string) ([]*models.PlayerBadge, error) {
	var out []*models.PlayerBadge
	for _, badge := range f.badges {
		if badge.PlayerID == playerID {
			out = append(out, badge)
		}
	}
	return out, nil
}

type fakeResponseStore struct {
	responses map[string]*models.PlayerResponse // playerID/challengeID
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[string]*models.PlayerResponse)}
}

func (f *fakeResponseStore) CreateResponse(ctx context.Context, response *models.PlayerResponse) (bool, error) {
	key := response.PlayerID + "/" + response.ChallengeID
	if _, ok := f.responses[key]; ok {
		return false, nil
	}
	f.responses[key] = response
	return true, nil
}

func (f *fakeResponseStore) GetResponse(ctx context.Context, playerID, challengeID string) (*models.PlayerResponse, error) {
	response, ok := f.responses[playerID+"/"+challengeID]
	if !ok {
		return nil, repository.ErrResponseNotFound
	}
	return response, nil
}

func (f *fakeResponseStore) CountCorrectByPlayer(ctx context.Context, playerID string) (int, error) {
	count := 0
	for _, response := range f.responses {
		if response.PlayerID == playerID && response.IsCorrect {
			count++
		}
	}
	return count, nil
}

type fakeChallengeStore struct {
	challenges map[string]*models.Challenge
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: make(map[string]*models.Challenge)}
}

func (f *fakeChallengeStore) GetChallengeByID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	challenge, ok := f.challenges[challengeID]
	if !ok {
		return nil, repository.ErrChallengeNotFound
	}
	return challenge, nil
}

func (f *fakeChallengeStore) ListChallenges(ctx context.Context, gameType, kind string) ([]*models.Challenge, error) {
	var out []*models.Challenge
	for _, challenge := range f.challenges {
		if gameType != "" && challenge.GameType != gameType {
			continue
		}
		out = append(out, challenge)
	}
	return out, nil
}

func newTestGameService() (*GameService, *fakeSessionStore, *fakePlayerStore, *fakeResponseStore, *fakeChallengeStore) {
	sessions := newFakeSessionStore()
	players := newFakePlayerStore()
	responses := newFakeResponseStore()
	challenges := newFakeChallengeStore()
	svc := NewGameService(sessions, players, responses, challenges, nil, nil, nil)
	return svc, sessions, players, responses, challenges
}

func TestJoinSessionIdempotent(t *testing.T) {
	svc, _, _, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeCyberCity, "teacher-1", 4, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	first, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", "")
	if err != nil {
		t.Fatalf("first join: %v", err)
	}

	second, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", "")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-join created a new player: %s vs %s", second.ID, first.ID)
	}

	current, err := svc.GetSession(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if current.PlayerCount != 1 {
		t.Errorf("player count = %d, want 1", current.PlayerCount)
	}
}

func TestJoinSessionRejectsFullSession(t *testing.T) {
	svc, _, _, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeClimate, "", 1, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", ""); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-2", "Ravi", ""); err != ErrNotJoinable {
		t.Errorf("join on full session: got %v, want ErrNotJoinable", err)
	}
}

func TestJoinSessionRejectsStartedSession(t *testing.T) {
	svc, _, _, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeClimate, "teacher-1", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", ""); err != ErrNotJoinable {
		t.Errorf("join after start: got %v, want ErrNotJoinable", err)
	}
}

func TestStartSessionTransitions(t *testing.T) {
	svc, _, _, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeConstitution, "teacher-1", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := svc.StartSession(ctx, session.SessionCode, "someone-else"); err != ErrForbidden {
		t.Errorf("start by non-facilitator: got %v, want ErrForbidden", err)
	}
	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != ErrInvalidTransition {
		t.Errorf("double start: got %v, want ErrInvalidTransition", err)
	}
}

func TestSessionStatusNeverRegresses(t *testing.T) {
	svc, _, _, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeConstitution, "teacher-1", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := svc.CompleteSession(ctx, session.SessionCode); err != ErrInvalidTransition {
		t.Errorf("complete from waiting: got %v, want ErrInvalidTransition", err)
	}

	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := svc.CompleteSession(ctx, session.SessionCode); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	if err := svc.CompleteSession(ctx, session.SessionCode); err != ErrInvalidTransition {
		t.Errorf("complete twice: got %v, want ErrInvalidTransition", err)
	}
	if err := svc.AbandonSession(ctx, session.SessionCode); err != ErrInvalidTransition {
		t.Errorf("abandon after complete: got %v, want ErrInvalidTransition", err)
	}

	current, err := svc.GetSession(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if current.Status != constants.SessionStatusCompleted {
		t.Errorf("status = %s, want completed", current.Status)
	}
}

func TestSubmitAnswerScoresAndDeduplicates(t *testing.T) {
	svc, _, _, _, challenges := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeCyberCity, "teacher-1", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", ""); err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	challenges.challenges["ch-1"] = &models.Challenge{
		ID:            "ch-1",
		GameType:      constants.GameTypeCyberCity,
		CorrectAnswer: "Strong Password",
		Points:        20,
		TimeLimitSec:  30,
		Explanation:   "Length beats complexity.",
	}

	// Half the time limit keeps three quarters of the points.
	result, err := svc.SubmitAnswer(ctx, session.SessionCode, "browser-1", "ch-1", "  strong password ", 15000)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !result.IsCorrect {
		t.Error("answer should be correct after trimming and case folding")
	}
	if result.PointsEarned != 15 {
		t.Errorf("points = %d, want 15", result.PointsEarned)
	}
	if result.Explanation == "" {
		t.Error("correct answer should carry the explanation")
	}

	duplicate, err := svc.SubmitAnswer(ctx, session.SessionCode, "browser-1", "ch-1", "wrong now", 1000)
	if err != nil {
		t.Fatalf("duplicate SubmitAnswer: %v", err)
	}
	if !duplicate.Duplicate {
		t.Error("second submission should be flagged as duplicate")
	}
	if duplicate.PointsEarned != 15 {
		t.Errorf("duplicate points = %d, want the stored 15", duplicate.PointsEarned)
	}
	if duplicate.TotalScore != 15 {
		t.Errorf("total after duplicate = %d, want 15 (no double scoring)", duplicate.TotalScore)
	}
}

func TestSubmitAnswerRequiresActiveSession(t *testing.T) {
	svc, _, _, _, challenges := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeCyberCity, "", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", ""); err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	challenges.challenges["ch-1"] = &models.Challenge{ID: "ch-1", CorrectAnswer: "a", Points: 10}

	if _, err := svc.SubmitAnswer(ctx, session.SessionCode, "browser-1", "ch-1", "a", 0); err != ErrInvalidTransition {
		t.Errorf("submit on waiting session: got %v, want ErrInvalidTransition", err)
	}
}

func TestCyberBadgesAwardedOnce(t *testing.T) {
	svc, _, players, _, challenges := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeCyberCity, "teacher-1", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.JoinSession(ctx, session.SessionCode, "browser-1", "Asha", ""); err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if err := svc.StartSession(ctx, session.SessionCode, "teacher-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	challenges.challenges["ch-1"] = &models.Challenge{ID: "ch-1", GameType: constants.GameTypeCyberCity, CorrectAnswer: "a", Points: 35}
	challenges.challenges["ch-2"] = &models.Challenge{ID: "ch-2", GameType: constants.GameTypeCyberCity, CorrectAnswer: "b", Points: 50}

	first, err := svc.SubmitAnswer(ctx, session.SessionCode, "browser-1", "ch-1", "a", 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if len(first.NewBadges) != 1 || first.NewBadges[0] != "password_pro" {
		t.Errorf("badges after 35 points = %v, want [password_pro]", first.NewBadges)
	}

	second, err := svc.SubmitAnswer(ctx, session.SessionCode, "browser-1", "ch-2", "b", 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if len(second.NewBadges) != 1 || second.NewBadges[0] != "cyber_defender" {
		t.Errorf("badges after 85 points = %v, want [cyber_defender]", second.NewBadges)
	}

	if len(players.badges) != 2 {
		t.Errorf("stored badges = %d, want 2", len(players.badges))
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	svc, _, players, _, _ := newTestGameService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, constants.GameTypeClimate, "", 8, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	for i, name := range []string{"Asha", "Ravi", "Meera"} {
		player, err := svc.JoinSession(ctx, session.SessionCode, fmt.Sprintf("browser-%d", i), name, "")
		if err != nil {
			t.Fatalf("JoinSession %s: %v", name, err)
		}
		if err := players.AddScore(ctx, player.ID, (i+1)*10); err != nil {
			t.Fatalf("AddScore: %v", err)
		}
	}

	entries, err := svc.Leaderboard(ctx, session.SessionCode)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].PlayerName != "Meera" || entries[0].Rank != 1 {
		t.Errorf("top entry = %+v, want Meera at rank 1", entries[0])
	}
	if entries[2].Score != 10 {
		t.Errorf("bottom score = %d, want 10", entries[2].Score)
	}
}

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name        string
		maxScore    int
		timeSpentMs int64
		timeLimitMs int64
		want        int
	}{
		{"no time limit", 20, 5000, 0, 20},
		{"instant answer", 20, 0, 30000, 20},
		{"half the limit", 20, 15000, 30000, 15},
		{"at the limit", 20, 30000, 30000, 10},
		{"over the limit", 20, 60000, 30000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateScore(tt.maxScore, tt.timeSpentMs, tt.timeLimitMs); got != tt.want {
				t.Errorf("calculateScore(%d, %d, %d) = %d, want %d", tt.maxScore, tt.timeSpentMs, tt.timeLimitMs, got, tt.want)
			}
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	if !validateAnswer("  Yes ", "yes") {
		t.Error("trimmed case-insensitive match should pass")
	}
	if validateAnswer("no", "yes") {
		t.Error("mismatch should fail")
	}
}
