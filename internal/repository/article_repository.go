package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"

	"github.com/google/uuid"
)

var (
	ErrArticleNotFound = fmt.Errorf("article not found")
	ErrCommentNotFound = fmt.Errorf("comment not found")
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	article.ID = uuid.New().String()
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt

	query := `
		INSERT INTO articles (id, category_id, slug, title, summary, body, is_published, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.CategoryID,
		article.Slug,
		article.Title,
		article.Summary,
		article.Body,
		article.IsPublished,
		article.ViewCount,
		article.CreatedAt,
		article.UpdatedAt,
	)
	return err
}

func (r *ArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET category_id = $1, title = $2, summary = $3, body = $4, is_published = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		article.CategoryID,
		article.Title,
		article.Summary,
		article.Body,
		article.IsPublished,
		time.Now(),
		article.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `
		SELECT id, category_id, slug, title, summary, body, is_published, view_count, created_at, updated_at
		FROM articles
		WHERE slug = $1
	`
	article := &models.Article{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&article.ID,
		&article.CategoryID,
		&article.Slug,
		&article.Title,
		&article.Summary,
		&article.Body,
		&article.IsPublished,
		&article.ViewCount,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (r *ArticleRepository) ListPublishedArticles(ctx context.Context, categorySlug string, limit, offset int) ([]*models.Article, error) {
	query := `
		SELECT a.id, a.category_id, a.slug, a.title, a.summary, a.body, a.is_published, a.view_count, a.created_at, a.updated_at
		FROM articles a
	`
	args := []any{}

	if categorySlug != "" {
		query += ` JOIN article_categories c ON a.category_id = c.id WHERE a.is_published = TRUE AND c.slug = $1`
		args = append(args, categorySlug)
	} else {
		query += ` WHERE a.is_published = TRUE`
	}

	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{}
		err := rows.Scan(
			&article.ID,
			&article.CategoryID,
			&article.Slug,
			&article.Title,
			&article.Summary,
			&article.Body,
			&article.IsPublished,
			&article.ViewCount,
			&article.CreatedAt,
			&article.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) ListPopularArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	query := `
		SELECT id, category_id, slug, title, summary, body, is_published, view_count, created_at, updated_at
		FROM articles
		WHERE is_published = TRUE
		ORDER BY view_count DESC, created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{}
		err := rows.Scan(
			&article.ID,
			&article.CategoryID,
			&article.Slug,
			&article.Title,
			&article.Summary,
			&article.Body,
			&article.IsPublished,
			&article.ViewCount,
			&article.CreatedAt,
			&article.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) IncrementViewCount(ctx context.Context, articleID string) error {
	query := `UPDATE articles SET view_count = view_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, articleID)
	return err
}

func (r *ArticleRepository) CreateComment(ctx context.Context, comment *models.ArticleComment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt

	query := `
		INSERT INTO article_comments (id, article_id, author_name, author_session_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.ArticleID,
		comment.AuthorName,
		comment.AuthorSessionID,
		comment.Body,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	return err
}

func (r *ArticleRepository) GetCommentByID(ctx context.Context, commentID string) (*models.ArticleComment, error) {
	query := `
		SELECT id, article_id, author_name, author_session_id, body, created_at, updated_at
		FROM article_comments
		WHERE id = $1
	`
	comment := &models.ArticleComment{}
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.AuthorName,
		&comment.AuthorSessionID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *ArticleRepository) ListCommentsByArticle(ctx context.Context, articleID string) ([]*models.ArticleComment, error) {
	query := `
		SELECT id, article_id, author_name, author_session_id, body, created_at, updated_at
		FROM article_comments
		WHERE article_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.ArticleComment
	for rows.Next() {
		comment := &models.ArticleComment{}
		err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&comment.AuthorName,
			&comment.AuthorSessionID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *ArticleRepository) UpdateComment(ctx context.Context, commentID, body string) error {
	query := `UPDATE article_comments SET body = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, body, time.Now(), commentID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *ArticleRepository) DeleteComment(ctx context.Context, commentID string) error {
	query := `DELETE FROM article_comments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// ToggleLike flips the like state for (article, session_key). The insert loses
// the conflict when the like already exists, in which case the row is removed
// instead. Returns true when the article ends up liked.
func (r *ArticleRepository) ToggleLike(ctx context.Context, articleID, sessionKey, clientIP string) (bool, error) {
	insert := `
		INSERT INTO article_likes (article_id, session_key, client_ip, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (article_id, session_key) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, insert, articleID, sessionKey, clientIP, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	remove := `DELETE FROM article_likes WHERE article_id = $1 AND session_key = $2`
	if _, err := r.db.ExecContext(ctx, remove, articleID, sessionKey); err != nil {
		return false, err
	}
	return false, nil
}

func (r *ArticleRepository) CountLikes(ctx context.Context, articleID string) (int, error) {
	query := `SELECT COUNT(*) FROM article_likes WHERE article_id = $1`
	var count int
	err := r.db.QueryRowContext(ctx, query, articleID).Scan(&count)
	return count, err
}

func (r *ArticleRepository) HasLiked(ctx context.Context, articleID, sessionKey string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM article_likes WHERE article_id = $1 AND session_key = $2)`
	var liked bool
	err := r.db.QueryRowContext(ctx, query, articleID, sessionKey).Scan(&liked)
	return liked, err
}

func (r *ArticleRepository) CreateShare(ctx context.Context, share *models.ArticleShare) error {
	share.ID = uuid.New().String()
	share.CreatedAt = time.Now()

	query := `
		INSERT INTO article_shares (id, article_id, platform, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, share.ID, share.ArticleID, share.Platform, share.CreatedAt)
	return err
}

func (r *ArticleRepository) CreateCategory(ctx context.Context, category *models.ArticleCategory) error {
	category.ID = uuid.New().String()

	query := `INSERT INTO article_categories (id, slug, name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Slug, category.Name)
	return err
}
