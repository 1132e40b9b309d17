package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

const (
	commentLimit  = 3
	commentWindow = time.Minute

	likeLimit  = 10
	likeWindow = time.Hour
)

type ArticleStore interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListPublishedArticles(ctx context.Context, categorySlug string, limit, offset int) ([]*models.Article, error)
	ListPopularArticles(ctx context.Context, limit int) ([]*models.Article, error)
	IncrementViewCount(ctx context.Context, articleID string) error
	CreateComment(ctx context.Context, comment *models.ArticleComment) error
	GetCommentByID(ctx context.Context, commentID string) (*models.ArticleComment, error)
	ListCommentsByArticle(ctx context.Context, articleID string) ([]*models.ArticleComment, error)
	UpdateComment(ctx context.Context, commentID, body string) error
	DeleteComment(ctx context.Context, commentID string) error
	ToggleLike(ctx context.Context, articleID, sessionKey, clientIP string) (bool, error)
	CountLikes(ctx context.Context, articleID string) (int, error)
	HasLiked(ctx context.Context, articleID, sessionKey string) (bool, error)
	CreateShare(ctx context.Context, share *models.ArticleShare) error
}

type ArticleService struct {
	articles ArticleStore
	cache    Cache
}

func NewArticleService(articles ArticleStore, cache Cache) *ArticleService {
	return &ArticleService{
		articles: articles,
		cache:    cache,
	}
}

func (s *ArticleService) ListArticles(ctx context.Context, categorySlug string, limit, offset int) ([]*models.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.articles.ListPublishedArticles(ctx, categorySlug, limit, offset)
}

// PopularArticles returns the most-viewed published articles, cached for five
// minutes.
func (s *ArticleService) PopularArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("articles:popular:%d", limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var articles []*models.Article
			if err := json.Unmarshal([]byte(cached), &articles); err == nil {
				return articles, nil
			}
		}
	}

	articles, err := s.articles.ListPopularArticles(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(articles); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), 5*time.Minute); err != nil {
				log.Printf("Failed to cache popular articles: %v", err)
			}
		}
	}

	return articles, nil
}

// GetArticle returns a published article by slug and counts the view.
func (s *ArticleService) GetArticle(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return nil, ErrNotFound
	}

	if err := s.articles.IncrementViewCount(ctx, article.ID); err != nil {
		log.Printf("Failed to increment view count for %s: %v", slug, err)
	}
	article.ViewCount++

	return article, nil
}

func (s *ArticleService) AddComment(ctx context.Context, slug, authorName, authorSessionID, body, clientIP string) (*models.ArticleComment, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, fmt.Sprintf("ratelimit:comment:%s", clientIP), commentLimit, commentWindow); err != nil {
		return nil, err
	}

	comment := &models.ArticleComment{
		ArticleID:       article.ID,
		AuthorName:      authorName,
		AuthorSessionID: authorSessionID,
		Body:            body,
	}
	if err := s.articles.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

func (s *ArticleService) ListComments(ctx context.Context, slug string) ([]*models.ArticleComment, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.articles.ListCommentsByArticle(ctx, article.ID)
}

func (s *ArticleService) EditComment(ctx context.Context, commentID, authorSessionID, body string) error {
	comment, err := s.articles.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorSessionID != authorSessionID {
		return ErrForbidden
	}
	return s.articles.UpdateComment(ctx, commentID, body)
}

func (s *ArticleService) DeleteComment(ctx context.Context, commentID, authorSessionID string) error {
	comment, err := s.articles.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorSessionID != authorSessionID {
		return ErrForbidden
	}
	return s.articles.DeleteComment(ctx, commentID)
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike flips the like state for the caller's session key. Toggling twice
// lands back on unliked.
func (s *ArticleService) ToggleLike(ctx context.Context, slug, sessionKey, clientIP string) (*LikeResult, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, fmt.Sprintf("ratelimit:like:%s", clientIP), likeLimit, likeWindow); err != nil {
		return nil, err
	}

	liked, err := s.articles.ToggleLike(ctx, article.ID, sessionKey, clientIP)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	count, err := s.articles.CountLikes(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return &LikeResult{
		Liked:      liked,
		LikesCount: count,
	}, nil
}

func (s *ArticleService) TrackShare(ctx context.Context, slug, platform string) error {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return err
	}

	share := &models.ArticleShare{
		ArticleID: article.ID,
		Platform:  platform,
	}
	return s.articles.CreateShare(ctx, share)
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *models.Article) error {
	return s.articles.CreateArticle(ctx, article)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, article *models.Article) error {
	return s.articles.UpdateArticle(ctx, article)
}

// checkRateLimit counts actions in a fixed redis window. Without a cache the
// check is skipped rather than failing closed.
func (s *ArticleService) checkRateLimit(ctx context.Context, key string, limit int64, window time.Duration) error {
	if s.cache == nil {
		return nil
	}

	count, err := s.cache.Increment(ctx, key, window)
	if err != nil {
		log.Printf("Rate limit check failed for %s: %v", key, err)
		return nil
	}
	if count > limit {
		return ErrRateLimited
	}
	return nil
}
