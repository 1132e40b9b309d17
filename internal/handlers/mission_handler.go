package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

type MissionHandler struct {
	missionService *service.MissionService
}

func NewMissionHandler(missionService *service.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// AdvanceToMission godoc
// @Summary Advance a session to a mission
// @Description Move every team to the mission at the given order, marking earlier missions completed
// @Tags missions
// @Accept json
// @Produce json
// @Param code path string true "Session code"
// @Param request body dto.AdvanceMissionRequest true "Target mission"
// @Success 200 {object} service.MissionAdvanceResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/missions/advance [post]
func (h *MissionHandler) AdvanceToMission(c *gin.Context) {
	var req dto.AdvanceMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.missionService.AdvanceToMission(c.Request.Context(), c.Param("code"), req.MissionOrder)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AdvanceToNextMission godoc
// @Summary Advance to the next mission
// @Tags missions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} service.MissionAdvanceResult
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/missions/next [post]
func (h *MissionHandler) AdvanceToNextMission(c *gin.Context) {
	result, err := h.missionService.AdvanceToNextMission(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteCurrentMission godoc
// @Summary Mark the current mission completed for a team
// @Tags missions
// @Accept json
// @Produce json
// @Param code path string true "Session code"
// @Param request body dto.CompleteMissionRequest true "Team"
// @Success 200 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/missions/complete [post]
func (h *MissionHandler) CompleteCurrentMission(c *gin.Context) {
	var req dto.CompleteMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.missionService.CompleteCurrentMission(c.Request.Context(), c.Param("code"), req.TeamName); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mission completed"})
}

// GetProgress godoc
// @Summary Per-team mission progress
// @Tags missions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} service.SessionProgress
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/progress [get]
func (h *MissionHandler) GetProgress(c *gin.Context) {
	progress, err := h.missionService.GetSessionProgress(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListMissions godoc
// @Summary List design thinking missions
// @Tags missions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/missions [get]
func (h *MissionHandler) ListMissions(c *gin.Context) {
	missions, err := h.missionService.ListMissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.MissionDTO, len(missions))
	for i, m := range missions {
		out[i] = dto.NewMissionDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{"missions": out})
}
