package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/pkg/auth"
)

var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

type ChallengeAdminStore interface {
	CreateChallenge(ctx context.Context, challenge *models.Challenge) error
	UpdateChallenge(ctx context.Context, challenge *models.Challenge) error
	DeleteChallenge(ctx context.Context, challengeID string) error
}

type MissionAdminStore interface {
	CreateMission(ctx context.Context, mission *models.DesignMission) error
}

type QuestAdminStore interface {
	CreateLevel(ctx context.Context, level *models.QuestLevel) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.ArticleCategory) error
}

// AdminService covers the authenticated content-authoring surface. There is a
// single operator account configured from the environment.
type AdminService struct {
	challenges ChallengeAdminStore
	missions   MissionAdminStore
	quests     QuestAdminStore
	categories CategoryStore

	adminEmail    string
	adminPassword string
	jwtSecret     string
}

func NewAdminService(
	challenges ChallengeAdminStore,
	missions MissionAdminStore,
	quests QuestAdminStore,
	categories CategoryStore,
	adminEmail, adminPassword, jwtSecret string,
) *AdminService {
	return &AdminService{
		challenges:    challenges,
		missions:      missions,
		quests:        quests,
		categories:    categories,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
	}
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	if s.adminPassword == "" {
		return nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !emailOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	pair, err := auth.GenerateTokenPair("admin", s.adminEmail, "admin", s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return pair, nil
}

func (s *AdminService) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	return s.challenges.CreateChallenge(ctx, challenge)
}

func (s *AdminService) UpdateChallenge(ctx context.Context, challenge *models.Challenge) error {
	return s.challenges.UpdateChallenge(ctx, challenge)
}

func (s *AdminService) DeleteChallenge(ctx context.Context, challengeID string) error {
	return s.challenges.DeleteChallenge(ctx, challengeID)
}

func (s *AdminService) CreateMission(ctx context.Context, mission *models.DesignMission) error {
	return s.missions.CreateMission(ctx, mission)
}

func (s *AdminService) CreateQuestLevel(ctx context.Context, level *models.QuestLevel) error {
	return s.quests.CreateLevel(ctx, level)
}

func (s *AdminService) CreateCategory(ctx context.Context, category *models.ArticleCategory) error {
	return s.categories.CreateCategory(ctx, category)
}
