package dto

import (
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type ArticleDTO struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Body      string `json:"body,omitempty"`
	ViewCount int    `json:"view_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewArticleDTO(a *models.Article, includeBody bool) ArticleDTO {
	out := ArticleDTO{
		ID:        a.ID,
		Slug:      a.Slug,
		Title:     a.Title,
		Summary:   a.Summary,
		ViewCount: a.ViewCount,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
	if includeBody {
		out.Body = a.Body
	}
	return out
}

type CommentDTO struct {
	ID         string `json:"id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func NewCommentDTO(c *models.ArticleComment) CommentDTO {
	return CommentDTO{
		ID:         c.ID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

type AddCommentRequest struct {
	AuthorName string `json:"author_name" binding:"required,max=50"`
	Body       string `json:"body" binding:"required,max=2000"`
}

type EditCommentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type TrackShareRequest struct {
	Platform string `json:"platform" binding:"required,oneof=whatsapp twitter facebook linkedin copy_link"`
}

type CreateArticleRequest struct {
	Slug        string `json:"slug" binding:"required,max=200"`
	Title       string `json:"title" binding:"required,max=200"`
	Summary     string `json:"summary"`
	Body        string `json:"body" binding:"required"`
	CategoryID  string `json:"category_id"`
	IsPublished bool   `json:"is_published"`
}
