package dto

import (
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type CreateDemoRequestRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	School  string `json:"school" binding:"max=200"`
	Message string `json:"message" binding:"max=2000"`
}

type CreateSchoolDemoRequest struct {
	SchoolName             string   `json:"school_name" binding:"required,max=200"`
	ContactPerson          string   `json:"contact_person" binding:"required,max=100"`
	Email                  string   `json:"email" binding:"required,email"`
	Phone                  string   `json:"phone" binding:"max=20"`
	City                   string   `json:"city" binding:"max=100"`
	StudentCount           int      `json:"student_count" binding:"omitempty,min=1"`
	InterestedProducts     []string `json:"interested_products"`
	AdditionalRequirements string   `json:"additional_requirements" binding:"max=2000"`
	PreferredDemoTime      string   `json:"preferred_demo_time" binding:"max=100"`
}

type DemoRequestDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	School    string `json:"school,omitempty"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
}

func NewDemoRequestDTO(r *models.DemoRequest) DemoRequestDTO {
	return DemoRequestDTO{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		School:    r.School,
		Message:   r.Message,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

type SchoolDemoRequestDTO struct {
	ID                     string `json:"id"`
	SchoolName             string `json:"school_name"`
	ContactPerson          string `json:"contact_person"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone,omitempty"`
	City                   string `json:"city,omitempty"`
	StudentCount           int    `json:"student_count,omitempty"`
	InterestedProducts     string `json:"interested_products,omitempty"`
	AdditionalRequirements string `json:"additional_requirements,omitempty"`
	PreferredDemoTime      string `json:"preferred_demo_time,omitempty"`
	CreatedAt              string `json:"created_at"`
}

func NewSchoolDemoRequestDTO(r *models.SchoolDemoRequest) SchoolDemoRequestDTO {
	return SchoolDemoRequestDTO{
		ID:                     r.ID,
		SchoolName:             r.SchoolName,
		ContactPerson:          r.ContactPerson,
		Email:                  r.Email,
		Phone:                  r.Phone,
		City:                   r.City,
		StudentCount:           r.StudentCount,
		InterestedProducts:     r.InterestedProducts,
		AdditionalRequirements: r.AdditionalRequirements,
		PreferredDemoTime:      r.PreferredDemoTime,
		CreatedAt:              r.CreatedAt.Format(time.RFC3339),
	}
}
