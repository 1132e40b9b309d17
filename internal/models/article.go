package models

import (
	"database/sql"
	"time"
)

type ArticleCategory struct {
	ID   string
	Slug string
	Name string
}

type Article struct {
	ID          string
	CategoryID  sql.NullString
	Slug        string
	Title       string
	Summary     string
	Body        string
	IsPublished bool
	ViewCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ArticleComment struct {
	ID              string
	ArticleID       string
	AuthorName      string
	AuthorSessionID string
	Body            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ArticleLike struct {
	ArticleID  string
	SessionKey string
	ClientIP   string
	CreatedAt  time.Time
}

type ArticleShare struct {
	ID        string
	ArticleID string
	Platform  string
	CreatedAt time.Time
}
