package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jatinbhagat/decipherworld-backend/internal/dto"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
)

const maxArtifactSize = 10 << 20 // 10 MiB

type QuestHandler struct {
	questService *service.QuestService
}

func NewQuestHandler(questService *service.QuestService) *QuestHandler {
	return &QuestHandler{
		questService: questService,
	}
}

// SubmitLevel godoc
// @Summary Submit a quest level
// @Description Multipart form with team_name, answers map and an optional artifact file
// @Tags quest
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Session code"
// @Param order path int true "Level order"
// @Param team_name formData string true "Team name"
// @Param artifact formData file false "Prototype artifact"
// @Success 200 {object} service.LevelResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/levels/{order}/submit [post]
func (h *QuestHandler) SubmitLevel(c *gin.Context) {
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid level order")
		return
	}

	teamName := c.PostForm("team_name")
	if teamName == "" {
		dto.JsonError(c, http.StatusBadRequest, "team_name is required")
		return
	}

	submission := &service.LevelSubmission{
		TeamName:   teamName,
		LevelOrder: order,
		Answers:    c.PostFormMap("answers"),
	}

	if file, err := c.FormFile("artifact"); err == nil {
		if file.Size > maxArtifactSize {
			dto.JsonError(c, http.StatusRequestEntityTooLarge, "Artifact exceeds size limit")
			return
		}
		src, err := file.Open()
		if err != nil {
			dto.JsonError(c, http.StatusBadRequest, "Failed to read artifact")
			return
		}
		defer src.Close()

		submission.Artifact = src
		submission.Size = file.Size
		submission.ContentType = file.Header.Get("Content-Type")
		submission.Filename = file.Filename
	}

	result, err := h.questService.SubmitLevel(c.Request.Context(), c.Param("code"), submission)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Leaderboard godoc
// @Summary Quest leaderboard
// @Tags quest
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/sessions/{code}/quest-leaderboard [get]
func (h *QuestHandler) Leaderboard(c *gin.Context) {
	scores, err := h.questService.Leaderboard(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": scores})
}

// DownloadArtifact godoc
// @Summary Download a prototype artifact
// @Tags admin
// @Produce octet-stream
// @Security BearerAuth
// @Param key path string true "Artifact object key"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/artifacts/{key} [get]
func (h *QuestHandler) DownloadArtifact(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	reader, err := h.questService.GetArtifact(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		log.Printf("Failed to stream artifact %s: %v", key, err)
	}
}

// ListLevels godoc
// @Summary List quest levels
// @Tags quest
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/levels [get]
func (h *QuestHandler) ListLevels(c *gin.Context) {
	levels, err := h.questService.ListLevels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.QuestLevelDTO, len(levels))
	for i, l := range levels {
		out[i] = dto.NewQuestLevelDTO(l)
	}
	c.JSON(http.StatusOK, gin.H{"levels": out})
}
