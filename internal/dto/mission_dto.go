package dto

import "github.com/jatinbhagat/decipherworld-backend/internal/models"

type AdvanceMissionRequest struct {
	MissionOrder int `json:"mission_order" binding:"required,min=1,max=6"`
}

type CompleteMissionRequest struct {
	TeamName string `json:"team_name" binding:"required,max=50"`
}

type MissionDTO struct {
	ID              string `json:"id"`
	OrderIndex      int    `json:"order_index"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

func NewMissionDTO(m *models.DesignMission) MissionDTO {
	return MissionDTO{
		ID:              m.ID,
		OrderIndex:      m.OrderIndex,
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
	}
}
