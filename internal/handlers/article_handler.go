package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// sessionKey identifies an anonymous reader across requests. Likes and comment
// ownership hang off it.
func sessionKey(c *gin.Context) string {
	return c.GetHeader("X-Session-Key")
}

// ListArticles godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Param category query string false "Category slug"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	limit, offset := pagination(c)
	articles, err := h.articleService.ListArticles(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.ArticleDTO, len(articles))
	for i, a := range articles {
		out[i] = dto.NewArticleDTO(a, false)
	}
	c.JSON(http.StatusOK, gin.H{"articles": out})
}

// PopularArticles godoc
// @Summary Most viewed articles
// @Tags articles
// @Produce json
// @Param limit query int false "Number of articles"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/articles/popular [get]
func (h *ArticleHandler) PopularArticles(c *gin.Context) {
	articles, err := h.articleService.PopularArticles(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.ArticleDTO, len(articles))
	for i, a := range articles {
		out[i] = dto.NewArticleDTO(a, false)
	}
	c.JSON(http.StatusOK, gin.H{"articles": out})
}

// GetArticle godoc
// @Summary Get an article by slug
// @Description Returns the full body and bumps the view counter
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} dto.ArticleDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/articles/{slug} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleService.GetArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewArticleDTO(article, true))
}

// ListComments godoc
// @Summary List comments on an article
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/articles/{slug}/comments [get]
func (h *ArticleHandler) ListComments(c *gin.Context) {
	comments, err := h.articleService.ListComments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		out[i] = dto.NewCommentDTO(comment)
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

// AddComment godoc
// @Summary Comment on an article
// @Tags articles
// @Accept json
// @Produce json
// @Param slug path string true "Article slug"
// @Param X-Session-Key header string true "Anonymous session key"
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 201 {object} dto.CommentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/articles/{slug}/comments [post]
func (h *ArticleHandler) AddComment(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		dto.JsonError(c, http.StatusBadRequest, "X-Session-Key header is required")
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.articleService.AddComment(c.Request.Context(), c.Param("slug"), req.AuthorName, key, req.Body, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCommentDTO(comment))
}

// EditComment godoc
// @Summary Edit an own comment
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param X-Session-Key header string true "Anonymous session key"
// @Param request body dto.EditCommentRequest true "New body"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/comments/{id} [put]
func (h *ArticleHandler) EditComment(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		dto.JsonError(c, http.StatusBadRequest, "X-Session-Key header is required")
		return
	}

	var req dto.EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.articleService.EditComment(c.Request.Context(), c.Param("id"), key, req.Body); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

// DeleteComment godoc
// @Summary Delete an own comment
// @Tags articles
// @Produce json
// @Param id path string true "Comment ID"
// @Param X-Session-Key header string true "Anonymous session key"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/comments/{id} [delete]
func (h *ArticleHandler) DeleteComment(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		dto.JsonError(c, http.StatusBadRequest, "X-Session-Key header is required")
		return
	}

	if err := h.articleService.DeleteComment(c.Request.Context(), c.Param("id"), key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ToggleLike godoc
// @Summary Toggle a like on an article
// @Description Likes once per session key; calling again removes the like
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Param X-Session-Key header string true "Anonymous session key"
// @Success 200 {object} service.LikeResult
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/articles/{slug}/like [post]
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	key := sessionKey(c)
	if key == "" {
		dto.JsonError(c, http.StatusBadRequest, "X-Session-Key header is required")
		return
	}

	result, err := h.articleService.ToggleLike(c.Request.Context(), c.Param("slug"), key, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TrackShare godoc
// @Summary Record a social share
// @Tags articles
// @Accept json
// @Produce json
// @Param slug path string true "Article slug"
// @Param request body dto.TrackShareRequest true "Platform"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/articles/{slug}/share [post]
func (h *ArticleHandler) TrackShare(c *gin.Context) {
	var req dto.TrackShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.articleService.TrackShare(c.Request.Context(), c.Param("slug"), req.Platform); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share recorded"})
}
