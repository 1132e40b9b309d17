package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func waitForCount(t *testing.T, hub *Hub, sessionCode string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionCode) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count for %s never reached %d", sessionCode, want)
}

func readMessage(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil, "ABC123", "browser-1", "Asha", false)
	hub.Register <- first
	waitForCount(t, hub, "ABC123", 1)

	joined := readMessage(t, first)
	if joined.Type != MessageTypeParticipantsUpdate {
		t.Errorf("first message type = %s, want participants_update", joined.Type)
	}

	second := NewClient(hub, nil, "ABC123", "browser-2", "Ravi", false)
	hub.Register <- second
	waitForCount(t, hub, "ABC123", 2)

	// Both clients see the second join.
	readMessage(t, first)
	readMessage(t, second)

	hub.Broadcast("ABC123", MessageTypeSessionStarted, SessionStartedPayload{GameType: "cyber_city"})

	for _, client := range []*Client{first, second} {
		msg := readMessage(t, client)
		if msg.Type != MessageTypeSessionStarted {
			t.Errorf("broadcast type = %s, want session_started", msg.Type)
		}
	}
}

func TestHubBroadcastIsScopedToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	inSession := NewClient(hub, nil, "ABC123", "browser-1", "Asha", false)
	other := NewClient(hub, nil, "XYZ789", "browser-2", "Ravi", false)
	hub.Register <- inSession
	hub.Register <- other
	waitForCount(t, hub, "ABC123", 1)
	waitForCount(t, hub, "XYZ789", 1)

	readMessage(t, inSession)
	readMessage(t, other)

	hub.Broadcast("ABC123", MessageTypeLeaderboard, LeaderboardPayload{})

	msg := readMessage(t, inSession)
	if msg.Type != MessageTypeLeaderboard {
		t.Errorf("in-session message = %s, want leaderboard", msg.Type)
	}

	select {
	case data := <-other.Send:
		t.Errorf("other session received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterNotifiesRemaining(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil, "ABC123", "browser-1", "Asha", false)
	second := NewClient(hub, nil, "ABC123", "browser-2", "Ravi", false)
	hub.Register <- first
	hub.Register <- second
	waitForCount(t, hub, "ABC123", 2)

	readMessage(t, first)
	readMessage(t, first)
	readMessage(t, second)

	hub.Unregister <- second
	waitForCount(t, hub, "ABC123", 1)

	left := readMessage(t, first)
	if left.Type != MessageTypeParticipantsUpdate {
		t.Errorf("message type = %s, want participants_update", left.Type)
	}

	if _, open := <-second.Send; open {
		t.Error("unregistered client's send channel should be closed")
	}
}

func TestHubPingPong(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "ABC123", "browser-1", "Asha", false)
	hub.Register <- client
	waitForCount(t, hub, "ABC123", 1)
	readMessage(t, client)

	hub.HandleMessage <- &ClientMessage{Client: client, Message: Message{Type: MessageTypePing}}

	pong := readMessage(t, client)
	if pong.Type != MessageTypePong {
		t.Errorf("reply type = %s, want pong", pong.Type)
	}
}
