package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type fakeDemoStore struct {
	demoRequests   []*models.DemoRequest
	schoolRequests []*models.SchoolDemoRequest
}

func (f *fakeDemoStore) CreateDemoRequest(ctx context.Context, request *models.DemoRequest) error {
	request.ID = fmt.Sprintf("demo-%d", len(f.demoRequests)+1)
	f.demoRequests = append(f.demoRequests, request)
	return nil
}

func (f *fakeDemoStore) CreateSchoolDemoRequest(ctx context.Context, request *models.SchoolDemoRequest) error {
	request.ID = fmt.Sprintf("school-%d", len(f.schoolRequests)+1)
	f.schoolRequests = append(f.schoolRequests, request)
	return nil
}

func (f *fakeDemoStore) ListDemoRequests(ctx context.Context, limit, offset int) ([]*models.DemoRequest, error) {
	return f.demoRequests, nil
}

func (f *fakeDemoStore) ListSchoolDemoRequests(ctx context.Context, limit, offset int) ([]*models.SchoolDemoRequest, error) {
	return f.schoolRequests, nil
}

type publishedMessage struct {
	queue string
	body  []byte
}

type fakePublisher struct {
	published []publishedMessage
	fail      bool
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	if f.fail {
		return fmt.Errorf("broker unavailable")
	}
	f.published = append(f.published, publishedMessage{queue: queueName, body: body})
	return nil
}

func TestCreateDemoRequestPersistsAndPublishes(t *testing.T) {
	store := &fakeDemoStore{}
	publisher := &fakePublisher{}
	svc := NewDemoService(store, publisher)
	ctx := context.Background()

	request := &models.DemoRequest{
		Name:   "Jatin",
		Email:  "jatin@example.com",
		School: "Sunrise Public School",
	}
	if err := svc.CreateDemoRequest(ctx, request); err != nil {
		t.Fatalf("CreateDemoRequest: %v", err)
	}

	if len(store.demoRequests) != 1 {
		t.Fatalf("stored requests = %d, want exactly 1", len(store.demoRequests))
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(publisher.published))
	}
	if publisher.published[0].queue != constants.QueueDemoRequested {
		t.Errorf("queue = %s, want %s", publisher.published[0].queue, constants.QueueDemoRequested)
	}

	var event DemoRequestedEvent
	if err := json.Unmarshal(publisher.published[0].body, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.RequestID != request.ID || event.Email != "jatin@example.com" {
		t.Errorf("event = %+v, want request %s", event, request.ID)
	}
}

func TestCreateDemoRequestSurvivesBrokerFailure(t *testing.T) {
	store := &fakeDemoStore{}
	svc := NewDemoService(store, &fakePublisher{fail: true})
	ctx := context.Background()

	if err := svc.CreateDemoRequest(ctx, &models.DemoRequest{Name: "Jatin", Email: "jatin@example.com"}); err != nil {
		t.Fatalf("CreateDemoRequest with failing broker: %v", err)
	}
	if len(store.demoRequests) != 1 {
		t.Errorf("stored requests = %d, want 1", len(store.demoRequests))
	}
}

func TestCreateDemoRequestWithoutPublisher(t *testing.T) {
	store := &fakeDemoStore{}
	svc := NewDemoService(store, nil)
	ctx := context.Background()

	if err := svc.CreateDemoRequest(ctx, &models.DemoRequest{Name: "Jatin", Email: "jatin@example.com"}); err != nil {
		t.Fatalf("CreateDemoRequest without publisher: %v", err)
	}
}

func TestCreateSchoolDemoRequest(t *testing.T) {
	store := &fakeDemoStore{}
	publisher := &fakePublisher{}
	svc := NewDemoService(store, publisher)
	ctx := context.Background()

	request := &models.SchoolDemoRequest{
		SchoolName:    "Sunrise Public School",
		ContactPerson: "Meera",
		Email:         "meera@example.com",
	}
	if err := svc.CreateSchoolDemoRequest(ctx, request); err != nil {
		t.Fatalf("CreateSchoolDemoRequest: %v", err)
	}

	if len(store.schoolRequests) != 1 {
		t.Fatalf("stored school requests = %d, want 1", len(store.schoolRequests))
	}

	var event DemoRequestedEvent
	if err := json.Unmarshal(publisher.published[0].body, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.RequestType != "school_demo_request" || event.School != "Sunrise Public School" {
		t.Errorf("event = %+v, want school_demo_request for Sunrise Public School", event)
	}
}
