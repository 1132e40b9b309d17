package dto

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type CreateChallengeRequest struct {
	GameType      string `json:"game_type" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	MissionOrder  int    `json:"mission_order"`
	Title         string `json:"title" binding:"required,max=200"`
	Text          string `json:"text" binding:"required"`
	Options       string `json:"options"`
	CorrectAnswer string `json:"correct_answer"`
	Points        int    `json:"points" binding:"omitempty,min=0"`
	TimeLimitSec  int    `json:"time_limit_sec" binding:"omitempty,min=0"`
	Explanation   string `json:"explanation"`
	OrderIndex    int    `json:"order_index"`
}
