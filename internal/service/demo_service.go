package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type DemoStore interface {
	CreateDemoRequest(ctx context.Context, request *models.DemoRequest) error
	CreateSchoolDemoRequest(ctx context.Context, request *models.SchoolDemoRequest) error
	ListDemoRequests(ctx context.Context, limit, offset int) ([]*models.DemoRequest, error)
	ListSchoolDemoRequests(ctx context.Context, limit, offset int) ([]*models.SchoolDemoRequest, error)
}

type DemoService struct {
	demos     DemoStore
	publisher Publisher
}

func NewDemoService(demos DemoStore, publisher Publisher) *DemoService {
	return &DemoService{
		demos:     demos,
		publisher: publisher,
	}
}

func (s *DemoService) CreateDemoRequest(ctx context.Context, request *models.DemoRequest) error {
	if err := s.demos.CreateDemoRequest(ctx, request); err != nil {
		return fmt.Errorf("failed to create demo request: %w", err)
	}

	s.publishDemoRequested(ctx, request.ID, "demo_request", request.Name, request.Email, request.School)
	return nil
}

func (s *DemoService) CreateSchoolDemoRequest(ctx context.Context, request *models.SchoolDemoRequest) error {
	if err := s.demos.CreateSchoolDemoRequest(ctx, request); err != nil {
		return fmt.Errorf("failed to create school demo request: %w", err)
	}

	s.publishDemoRequested(ctx, request.ID, "school_demo_request", request.ContactPerson, request.Email, request.SchoolName)
	return nil
}

func (s *DemoService) ListDemoRequests(ctx context.Context, limit, offset int) ([]*models.DemoRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.demos.ListDemoRequests(ctx, limit, offset)
}

func (s *DemoService) ListSchoolDemoRequests(ctx context.Context, limit, offset int) ([]*models.SchoolDemoRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.demos.ListSchoolDemoRequests(ctx, limit, offset)
}

// DemoRequestedEvent is the payload published to the demo.requested queue.
type DemoRequestedEvent struct {
	RequestID   string `json:"request_id"`
	RequestType string `json:"request_type"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	School      string `json:"school"`
}

func (s *DemoService) publishDemoRequested(ctx context.Context, requestID, requestType, name, email, school string) {
	if s.publisher == nil {
		return
	}

	event := DemoRequestedEvent{
		RequestID:   requestID,
		RequestType: requestType,
		Name:        name,
		Email:       email,
		School:      school,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal demo requested event: %v", err)
		return
	}
	if err := s.publisher.Publish(ctx, constants.QueueDemoRequested, body); err != nil {
		log.Printf("Failed to publish demo requested event: %v", err)
	}
}
