package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

type DemoRepository struct {
	db *sql.DB
}

func NewDemoRepository(db *sql.DB) *DemoRepository {
	return &DemoRepository{db: db}
}

func (r *DemoRepository) CreateDemoRequest(ctx context.Context, request *models.DemoRequest) error {
	request.ID = uuid.New().String()
	request.CreatedAt = time.Now()

	query := `
		INSERT INTO demo_requests (id, name, email, school, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.Name,
		request.Email,
		request.School,
		request.Message,
		request.CreatedAt,
	)
	return err
}

func (r *DemoRepository) CreateSchoolDemoRequest(ctx context.Context, request *models.SchoolDemoRequest) error {
	request.ID = uuid.New().String()
	request.CreatedAt = time.Now()
	if request.InterestedProducts == "" {
		request.InterestedProducts = "[]"
	}

	query := `
		INSERT INTO school_demo_requests (id, school_name, contact_person, email, phone, city, student_count, interested_products, additional_requirements, preferred_demo_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.SchoolName,
		request.ContactPerson,
		request.Email,
		request.Phone,
		request.City,
		request.StudentCount,
		request.InterestedProducts,
		request.AdditionalRequirements,
		request.PreferredDemoTime,
		request.CreatedAt,
	)
	return err
}

func (r *DemoRepository) ListDemoRequests(ctx context.Context, limit, offset int) ([]*models.DemoRequest, error) {
	query := `
		SELECT id, name, email, school, message, created_at
		FROM demo_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.DemoRequest
	for rows.Next() {
		request := &models.DemoRequest{}
		err := rows.Scan(
			&request.ID,
			&request.Name,
			&request.Email,
			&request.School,
			&request.Message,
			&request.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *DemoRepository) ListSchoolDemoRequests(ctx context.Context, limit, offset int) ([]*models.SchoolDemoRequest, error) {
	query := `
		SELECT id, school_name, contact_person, email, phone, city, student_count, interested_products, additional_requirements, preferred_demo_time, created_at
		FROM school_demo_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.SchoolDemoRequest
	for rows.Next() {
		request := &models.SchoolDemoRequest{}
		err := rows.Scan(
			&request.ID,
			&request.SchoolName,
			&request.ContactPerson,
			&request.Email,
			&request.Phone,
			&request.City,
			&request.StudentCount,
			&request.InterestedProducts,
			&request.AdditionalRequirements,
			&request.PreferredDemoTime,
			&request.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
