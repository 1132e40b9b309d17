package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"

	"github.com/google/uuid"
)

const questLeaderboardTTL = 30 * time.Second

type QuestStore interface {
	GetLevelByOrder(ctx context.Context, order int) (*models.QuestLevel, error)
	ListLevels(ctx context.Context) ([]*models.QuestLevel, error)
	UpsertLevelResponse(ctx context.Context, response *models.LevelResponse) error
	GetLevelResponse(ctx context.Context, sessionID, teamName, levelID string) (*models.LevelResponse, error)
	GetTeamTotals(ctx context.Context, sessionID string) ([]*models.TeamScore, error)
}

type ArtifactStore interface {
	UploadArtifact(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	DownloadArtifact(ctx context.Context, objectName string) (io.ReadCloser, error)
}

// QuestService runs the Classroom Innovation Quest: five ordered levels whose
// team submissions are scored against simple rubric bonuses.
type QuestService struct {
	sessions    SessionStore
	quests      QuestStore
	artifacts   ArtifactStore
	cache       Cache
	broadcaster Broadcaster
}

func NewQuestService(sessions SessionStore, quests QuestStore, artifacts ArtifactStore, cache Cache, broadcaster Broadcaster) *QuestService {
	return &QuestService{
		sessions:    sessions,
		quests:      quests,
		artifacts:   artifacts,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

type LevelSubmission struct {
	TeamName    string
	LevelOrder  int
	Answers     map[string]string
	Artifact    io.Reader
	Size        int64
	ContentType string
	Filename    string
}

type LevelResult struct {
	LevelOrder int    `json:"level_order"`
	Score      int    `json:"score"`
	TeamName   string `json:"team_name"`
	Artifact   string `json:"artifact_key,omitempty"`
}

func (s *QuestService) SubmitLevel(ctx context.Context, code string, submission *LevelSubmission) (*LevelResult, error) {
	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrInvalidTransition
	}

	level, err := s.quests.GetLevelByOrder(ctx, submission.LevelOrder)
	if err != nil {
		return nil, err
	}

	artifactKey := ""
	if submission.Artifact != nil {
		if s.artifacts == nil {
			return nil, fmt.Errorf("artifact storage is not configured")
		}
		artifactKey = fmt.Sprintf("%s/%s/level-%d/%s%s",
			code, submission.TeamName, submission.LevelOrder,
			uuid.New().String(), path.Ext(submission.Filename))

		if err := s.artifacts.UploadArtifact(ctx, artifactKey, submission.Artifact, submission.Size, submission.ContentType); err != nil {
			return nil, fmt.Errorf("failed to store artifact: %w", err)
		}
	}

	score := CalculateLevelScore(submission.LevelOrder, submission.Answers, artifactKey != "")

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	response := &models.LevelResponse{
		SessionID:   session.ID,
		TeamName:    submission.TeamName,
		LevelID:     level.ID,
		Answers:     string(answersJSON),
		Score:       score,
		ArtifactKey: artifactKey,
	}

	if err := s.quests.UpsertLevelResponse(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to save level response: %w", err)
	}

	s.invalidateQuestLeaderboard(ctx, code)

	if s.broadcaster != nil {
		if totals, err := s.Leaderboard(ctx, code); err == nil {
			s.broadcaster.Broadcast(code, ws.MessageTypeLeaderboard, ws.LeaderboardPayload{
				Leaderboard: totals,
			})
		}
	}

	return &LevelResult{
		LevelOrder: submission.LevelOrder,
		Score:      score,
		TeamName:   submission.TeamName,
		Artifact:   artifactKey,
	}, nil
}

func (s *QuestService) Leaderboard(ctx context.Context, code string) ([]*models.TeamScore, error) {
	cacheKey := fmt.Sprintf("session:%s:quest_leaderboard", code)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var totals []*models.TeamScore
			if err := json.Unmarshal([]byte(cached), &totals); err == nil {
				return totals, nil
			}
		}
	}

	session, err := s.sessions.GetSessionByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	totals, err := s.quests.GetTeamTotals(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team totals: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(totals); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), questLeaderboardTTL); err != nil {
				log.Printf("Failed to cache quest leaderboard for %s: %v", code, err)
			}
		}
	}

	return totals, nil
}

func (s *QuestService) ListLevels(ctx context.Context) ([]*models.QuestLevel, error) {
	return s.quests.ListLevels(ctx)
}

// GetArtifact streams a stored prototype artifact, for facilitator review.
func (s *QuestService) GetArtifact(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: artifact key is required", ErrInvalidInput)
	}
	if s.artifacts == nil {
		return nil, fmt.Errorf("artifact storage is not configured")
	}

	reader, err := s.artifacts.DownloadArtifact(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact %s: %v", ErrNotFound, key, err)
	}
	return reader, nil
}

func (s *QuestService) invalidateQuestLeaderboard(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("session:%s:quest_leaderboard", code)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Failed to invalidate quest leaderboard cache for %s: %v", code, err)
	}
}
