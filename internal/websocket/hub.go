package websocket

import (
	"fmt"
	"log"
	"sync"

	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
)

type ClientMessage struct {
	Client  *Client
	Message Message
}

// Hub fans session events out to the browsers watching a session. It is a
// notification side-channel: every broadcast is fire-and-forget and game state
// always lives in the database, never in the hub.
type Hub struct {
	clients       map[string]map[*Client]bool
	Register      chan *Client
	Unregister    chan *Client
	HandleMessage chan *ClientMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[string]map[*Client]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		HandleMessage: make(chan *ClientMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.handleClientMessage(clientMsg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.SessionCode] == nil {
		h.clients[client.SessionCode] = make(map[*Client]bool)
	}
	h.clients[client.SessionCode][client] = true
	count := len(h.clients[client.SessionCode])
	h.mu.Unlock()

	log.Printf("Client registered: player=%s, session=%s, facilitator=%v",
		client.PlayerName, client.SessionCode, client.IsFacilitator)

	h.Broadcast(client.SessionCode, MessageTypeParticipantsUpdate, ParticipantsUpdatePayload{
		Action:     constants.ActionJoined,
		PlayerName: client.PlayerName,
		Count:      count,
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.SessionCode]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.Send)

			if len(clients) == 0 {
				delete(h.clients, client.SessionCode)
			} else {
				payload := ParticipantsUpdatePayload{
					Action:     constants.ActionLeft,
					PlayerName: client.PlayerName,
					Count:      len(clients),
				}
				for c := range clients {
					c.SendMessage(MessageTypeParticipantsUpdate, payload)
				}
			}

			log.Printf("Client unregistered: player=%s, session=%s", client.PlayerName, client.SessionCode)
		}
	}
}

func (h *Hub) handleClientMessage(clientMsg *ClientMessage) {
	client := clientMsg.Client
	msg := clientMsg.Message

	switch msg.Type {
	case MessageTypePing:
		client.SendMessage(MessageTypePong, nil)

	default:
		client.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// Broadcast sends a message to every client watching a session.
func (h *Hub) Broadcast(sessionCode string, msgType MessageType, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[sessionCode]
	for client := range clients {
		client.SendMessage(msgType, payload)
	}
}

func (h *Hub) ClientCount(sessionCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionCode])
}
