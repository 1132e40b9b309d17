package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
)

type fakeArticleStore struct {
	articles map[string]*models.Article        // by slug
	comments map[string]*models.ArticleComment // by id
	likes    map[string]bool                   // articleID/sessionKey
	shares   []*models.ArticleShare
	nextID   int
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		articles: make(map[string]*models.Article),
		comments: make(map[string]*models.ArticleComment),
		likes:    make(map[string]bool),
	}
}

func (f *fakeArticleStore) CreateArticle(ctx context.Context, article *models.Article) error {
	f.nextID++
	article.ID = fmt.Sprintf("article-%d", f.nextID)
	f.articles[article.Slug] = article
	return nil
}

func (f *fakeArticleStore) UpdateArticle(ctx context.Context, article *models.Article) error {
	for _, existing := range f.articles {
		if existing.ID == article.ID {
			f.articles[existing.Slug] = article
			return nil
		}
	}
	return repository.ErrArticleNotFound
}

func (f *fakeArticleStore) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, ok := f.articles[slug]
	if !ok {
		return nil, repository.ErrArticleNotFound
	}
	copied := *article
	return &copied, nil
}

func (f *fakeArticleStore) ListPublishedArticles(ctx context.Context, categorySlug string, limit, offset int) ([]*models.Article, error) {
	var out []*models.Article
	for _, article := range f.articles {
		if article.IsPublished {
			out = append(out, article)
		}
	}
	return out, nil
}

func (f *fakeArticleStore) ListPopularArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	return f.ListPublishedArticles(ctx, "", limit, 0)
}

func (f *fakeArticleStore) IncrementViewCount(ctx context.Context, articleID string) error {
	for _, article := range f.articles {
		if article.ID == articleID {
			article.ViewCount++
			return nil
		}
	}
	return repository.ErrArticleNotFound
}

func (f *fakeArticleStore) CreateComment(ctx context.Context, comment *models.ArticleComment) error {
	f.nextID++
	comment.ID = fmt.Sprintf("comment-%d", f.nextID)
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeArticleStore) GetCommentByID(ctx context.Context, commentID string) (*models.ArticleComment, error) {
	comment, ok := f.comments[commentID]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	return comment, nil
}

func (f *fakeArticleStore) ListCommentsByArticle(ctx context.Context, articleID string) ([]*models.ArticleComment, error) {
	var out []*models.ArticleComment
	for _, comment := range f.comments {
		if comment.ArticleID == articleID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (f *fakeArticleStore) UpdateComment(ctx context.Context, commentID, body string) error {
	comment, ok := f.comments[commentID]
	if !ok {
		return repository.ErrCommentNotFound
	}
	comment.Body = body
	return nil
}

func (f *fakeArticleStore) DeleteComment(ctx context.Context, commentID string) error {
	if _, ok := f.comments[commentID]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeArticleStore) ToggleLike(ctx context.Context, articleID, sessionKey, clientIP string) (bool, error) {
	key := articleID + "/" + sessionKey
	if f.likes[key] {
		delete(f.likes, key)
		return false, nil
	}
	f.likes[key] = true
	return true, nil
}

func (f *fakeArticleStore) CountLikes(ctx context.Context, articleID string) (int, error) {
	count := 0
	for key := range f.likes {
		if key[:len(articleID)] == articleID {
			count++
		}
	}
	return count, nil
}

func (f *fakeArticleStore) HasLiked(ctx context.Context, articleID, sessionKey string) (bool, error) {
	return f.likes[articleID+"/"+sessionKey], nil
}

func (f *fakeArticleStore) CreateShare(ctx context.Context, share *models.ArticleShare) error {
	f.shares = append(f.shares, share)
	return nil
}

// fakeCache counts increments in memory so rate limits can be exercised.
type fakeCache struct {
	values   map[string]string
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values:   make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss")
	}
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeCache) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	f.counters[key]++
	return f.counters[key], nil
}

func seedArticle(t *testing.T, store *fakeArticleStore, slug string) *models.Article {
	t.Helper()
	article := &models.Article{
		Slug:        slug,
		Title:       "Why group games teach faster",
		Body:        "Body text",
		IsPublished: true,
	}
	if err := store.CreateArticle(context.Background(), article); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article
}

func TestToggleLikeFlipsState(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, newFakeCache())
	ctx := context.Background()

	seedArticle(t, store, "group-games")

	first, err := svc.ToggleLike(ctx, "group-games", "sess-1", "10.0.0.1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || first.LikesCount != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", first)
	}

	second, err := svc.ToggleLike(ctx, "group-games", "sess-1", "10.0.0.1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || second.LikesCount != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", second)
	}
}

func TestToggleLikeRateLimited(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, newFakeCache())
	ctx := context.Background()

	seedArticle(t, store, "group-games")

	for i := 0; i < int(likeLimit); i++ {
		if _, err := svc.ToggleLike(ctx, "group-games", fmt.Sprintf("sess-%d", i), "10.0.0.1"); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	if _, err := svc.ToggleLike(ctx, "group-games", "sess-over", "10.0.0.1"); err != ErrRateLimited {
		t.Errorf("over-limit toggle: got %v, want ErrRateLimited", err)
	}
}

func TestAddCommentRateLimited(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, newFakeCache())
	ctx := context.Background()

	seedArticle(t, store, "group-games")

	for i := 0; i < int(commentLimit); i++ {
		if _, err := svc.AddComment(ctx, "group-games", "Asha", "sess-1", "Nice read", "10.0.0.1"); err != nil {
			t.Fatalf("comment %d: %v", i, err)
		}
	}

	if _, err := svc.AddComment(ctx, "group-games", "Asha", "sess-1", "One more", "10.0.0.1"); err != ErrRateLimited {
		t.Errorf("over-limit comment: got %v, want ErrRateLimited", err)
	}
}

func TestCommentOwnership(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, nil)
	ctx := context.Background()

	seedArticle(t, store, "group-games")

	comment, err := svc.AddComment(ctx, "group-games", "Asha", "sess-1", "Nice read", "10.0.0.1")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if err := svc.EditComment(ctx, comment.ID, "sess-2", "Hijacked"); err != ErrForbidden {
		t.Errorf("edit by other session: got %v, want ErrForbidden", err)
	}
	if err := svc.DeleteComment(ctx, comment.ID, "sess-2"); err != ErrForbidden {
		t.Errorf("delete by other session: got %v, want ErrForbidden", err)
	}

	if err := svc.EditComment(ctx, comment.ID, "sess-1", "Edited"); err != nil {
		t.Errorf("edit by author: %v", err)
	}
	if err := svc.DeleteComment(ctx, comment.ID, "sess-1"); err != nil {
		t.Errorf("delete by author: %v", err)
	}
}

func TestGetArticleCountsView(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, nil)
	ctx := context.Background()

	seedArticle(t, store, "group-games")

	article, err := svc.GetArticle(ctx, "group-games")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if article.ViewCount != 1 {
		t.Errorf("view count = %d, want 1", article.ViewCount)
	}

	if _, err := svc.GetArticle(ctx, "missing"); err != repository.ErrArticleNotFound {
		t.Errorf("missing article: got %v, want ErrArticleNotFound", err)
	}
}

func TestGetArticleHidesUnpublished(t *testing.T) {
	store := newFakeArticleStore()
	svc := NewArticleService(store, nil)
	ctx := context.Background()

	article := seedArticle(t, store, "draft-post")
	article.IsPublished = false

	if _, err := svc.GetArticle(ctx, "draft-post"); err != ErrNotFound {
		t.Errorf("unpublished article: got %v, want ErrNotFound", err)
	}
}
