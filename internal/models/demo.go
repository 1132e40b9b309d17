package models

import "time"

type DemoRequest struct {
	ID        string
	Name      string
	Email     string
	School    string
	Message   string
	CreatedAt time.Time
}

type SchoolDemoRequest struct {
	ID                     string
	SchoolName             string
	ContactPerson          string
	Email                  string
	Phone                  string
	City                   string
	StudentCount           int
	InterestedProducts     string // JSON array
	AdditionalRequirements string
	PreferredDemoTime      string
	CreatedAt              time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}
