package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

type GameHandler struct {
	gameService *service.GameService
}

func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// CreateSession godoc
// @Summary Create a game session
// @Description Create a session for one of the learning games and get its join code
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session request"
// @Success 201 {object} dto.SessionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *GameHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.gameService.CreateSession(c.Request.Context(), req.GameType, req.FacilitatorID, req.MaxPlayers, req.SessionData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionDTO(session))
}

// GetSession godoc
// @Summary Get a session by code
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code} [get]
func (h *GameHandler) GetSession(c *gin.Context) {
	session, err := h.gameService.GetSession(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionDTO(session))
}

// JoinSession godoc
// @Summary Join a session
// @Description Join by code; repeating the call with the same player_session_id returns the existing player
// @Tags sessions
// @Accept json
// @Produce json
// @Param code path string true "Session code"
// @Param request body dto.JoinSessionRequest true "Join request"
// @Success 200 {object} dto.PlayerDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/join [post]
func (h *GameHandler) JoinSession(c *gin.Context) {
	var req dto.JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	player, err := h.gameService.JoinSession(c.Request.Context(), c.Param("code"), req.PlayerSessionID, req.PlayerName, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPlayerDTO(player))
}

// StartSession godoc
// @Summary Start a session
// @Description Only the facilitator can move a waiting session to in_progress
// @Tags sessions
// @Accept json
// @Produce json
// @Param code path string true "Session code"
// @Param request body dto.StartSessionRequest true "Start request"
// @Success 200 {object} map[string]string
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/start [post]
func (h *GameHandler) StartSession(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.gameService.StartSession(c.Request.Context(), c.Param("code"), req.FacilitatorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session started"})
}

// SubmitAction godoc
// @Summary Submit an answer
// @Description Score a challenge answer; a repeat submission returns the stored result flagged as duplicate
// @Tags sessions
// @Accept json
// @Produce json
// @Param code path string true "Session code"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} service.AnswerResult
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/action [post]
func (h *GameHandler) SubmitAction(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.gameService.SubmitAnswer(c.Request.Context(), c.Param("code"), req.PlayerSessionID, req.ChallengeID, req.Answer, req.TimeSpentMs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Leaderboard godoc
// @Summary Session leaderboard
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/leaderboard [get]
func (h *GameHandler) Leaderboard(c *gin.Context) {
	entries, err := h.gameService.Leaderboard(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// CompleteSession godoc
// @Summary Complete a session
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} map[string]string
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/complete [post]
func (h *GameHandler) CompleteSession(c *gin.Context) {
	if err := h.gameService.CompleteSession(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session completed"})
}

// AbandonSession godoc
// @Summary Abandon a session
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} map[string]string
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/abandon [post]
func (h *GameHandler) AbandonSession(c *gin.Context) {
	if err := h.gameService.AbandonSession(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session abandoned"})
}

// ListChallenges godoc
// @Summary List challenges
// @Tags challenges
// @Produce json
// @Param game_type query string false "Filter by game type"
// @Param kind query string false "Filter by challenge kind"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/challenges [get]
func (h *GameHandler) ListChallenges(c *gin.Context) {
	challenges, err := h.gameService.ListChallenges(c.Request.Context(), c.Query("game_type"), c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.ChallengeDTO, len(challenges))
	for i, ch := range challenges {
		out[i] = dto.NewChallengeDTO(ch)
	}
	c.JSON(http.StatusOK, gin.H{"challenges": out})
}

// GetPlayerBadges godoc
// @Summary Badges earned by a player
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Param player_session_id path string true "Player session ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/players/{player_session_id}/badges [get]
func (h *GameHandler) GetPlayerBadges(c *gin.Context) {
	badges, err := h.gameService.GetPlayerBadges(c.Request.Context(), c.Param("code"), c.Param("player_session_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.BadgeDTO, len(badges))
	for i, b := range badges {
		out[i] = dto.NewBadgeDTO(b)
	}
	c.JSON(http.StatusOK, gin.H{"badges": out})
}
