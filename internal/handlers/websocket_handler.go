package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jatinbhagat/decipherworld-backend/internal/service"
	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in prod
	},
}

type WebSocketHandler struct {
	hub         *ws.Hub
	gameService *service.GameService
}

func NewWebSocketHandler(hub *ws.Hub, gameService *service.GameService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		gameService: gameService,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	code := c.Param("code")
	playerSessionID := c.Query("player_session_id")
	playerName := c.Query("player_name")
	isFacilitator := c.Query("facilitator") == "true"

	if playerSessionID == "" && !isFacilitator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing player_session_id"})
		return
	}

	session, err := h.gameService.GetSession(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, session.SessionCode, playerSessionID, playerName, isFacilitator)

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	client.SendMessage(ws.MessageTypeConnected, ws.ConnectedPayload{
		SessionCode:   session.SessionCode,
		GameType:      session.GameType,
		SessionStatus: session.Status,
		IsFacilitator: isFacilitator,
	})
}
