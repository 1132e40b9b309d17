package dto

import "github.com/jatinbhagat/decipherworld-backend/internal/models"

type QuestLevelDTO struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
	Name       string `json:"name"`
	Prompt     string `json:"prompt"`
	Rubric     string `json:"rubric,omitempty"`
}

func NewQuestLevelDTO(l *models.QuestLevel) QuestLevelDTO {
	return QuestLevelDTO{
		ID:         l.ID,
		OrderIndex: l.OrderIndex,
		Name:       l.Name,
		Prompt:     l.Prompt,
		Rubric:     l.Rubric,
	}
}
