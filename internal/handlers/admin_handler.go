package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/models"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

type AdminHandler struct {
	adminService   *service.AdminService
	articleService *service.ArticleService
}

func NewAdminHandler(adminService *service.AdminService, articleService *service.ArticleService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		articleService: articleService,
	}
}

// Login godoc
// @Summary Admin login
// @Description Exchange admin credentials for a JWT pair
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	pair, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdminLoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// CreateChallenge godoc
// @Summary Create a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateChallengeRequest true "Challenge"
// @Success 201 {object} map[string]string
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/admin/challenges [post]
func (h *AdminHandler) CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	challenge := &models.Challenge{
		GameType:      req.GameType,
		Kind:          req.Kind,
		MissionOrder:  req.MissionOrder,
		Title:         req.Title,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		TimeLimitSec:  req.TimeLimitSec,
		Explanation:   req.Explanation,
		OrderIndex:    req.OrderIndex,
		IsActive:      true,
	}
	if err := h.adminService.CreateChallenge(c.Request.Context(), challenge); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": challenge.ID})
}

// UpdateChallenge godoc
// @Summary Update a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Param request body dto.CreateChallengeRequest true "Challenge"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/challenges/{id} [put]
func (h *AdminHandler) UpdateChallenge(c *gin.Context) {
	var req dto.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	challenge := &models.Challenge{
		ID:            c.Param("id"),
		GameType:      req.GameType,
		Kind:          req.Kind,
		MissionOrder:  req.MissionOrder,
		Title:         req.Title,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		TimeLimitSec:  req.TimeLimitSec,
		Explanation:   req.Explanation,
		OrderIndex:    req.OrderIndex,
		IsActive:      true,
	}
	if err := h.adminService.UpdateChallenge(c.Request.Context(), challenge); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge updated"})
}

// DeleteChallenge godoc
// @Summary Delete a challenge
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/challenges/{id} [delete]
func (h *AdminHandler) DeleteChallenge(c *gin.Context) {
	if err := h.adminService.DeleteChallenge(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted"})
}

// CreateMission godoc
// @Summary Create a design thinking mission
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DesignMission true "Mission"
// @Success 201 {object} map[string]string
// @Router /api/v1/admin/missions [post]
func (h *AdminHandler) CreateMission(c *gin.Context) {
	var mission models.DesignMission
	if err := c.ShouldBindJSON(&mission); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	mission.IsActive = true

	if err := h.adminService.CreateMission(c.Request.Context(), &mission); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": mission.ID})
}

// CreateQuestLevel godoc
// @Summary Create a quest level
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.QuestLevel true "Level"
// @Success 201 {object} map[string]string
// @Router /api/v1/admin/levels [post]
func (h *AdminHandler) CreateQuestLevel(c *gin.Context) {
	var level models.QuestLevel
	if err := c.ShouldBindJSON(&level); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	level.IsActive = true

	if err := h.adminService.CreateQuestLevel(c.Request.Context(), &level); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": level.ID})
}

// CreateArticle godoc
// @Summary Publish an article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateArticleRequest true "Article"
// @Success 201 {object} map[string]string
// @Router /api/v1/admin/articles [post]
func (h *AdminHandler) CreateArticle(c *gin.Context) {
	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	article := &models.Article{
		Slug:        req.Slug,
		Title:       req.Title,
		Summary:     req.Summary,
		Body:        req.Body,
		IsPublished: req.IsPublished,
	}
	if req.CategoryID != "" {
		article.CategoryID.String = req.CategoryID
		article.CategoryID.Valid = true
	}

	if err := h.articleService.CreateArticle(c.Request.Context(), article); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": article.ID})
}

// UpdateArticle godoc
// @Summary Update an article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body dto.CreateArticleRequest true "Article"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/articles/{id} [put]
func (h *AdminHandler) UpdateArticle(c *gin.Context) {
	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	article := &models.Article{
		ID:          c.Param("id"),
		Slug:        req.Slug,
		Title:       req.Title,
		Summary:     req.Summary,
		Body:        req.Body,
		IsPublished: req.IsPublished,
	}
	if req.CategoryID != "" {
		article.CategoryID.String = req.CategoryID
		article.CategoryID.Valid = true
	}

	if err := h.articleService.UpdateArticle(c.Request.Context(), article); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article updated"})
}

// CreateCategory godoc
// @Summary Create an article category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ArticleCategory true "Category"
// @Success 201 {object} map[string]string
// @Router /api/v1/admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var category models.ArticleCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.adminService.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": category.ID})
}
