package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed to connected members.
const (
	NotificationTypePayout            = "payout_received"
	NotificationTypePackageApproval   = "package_approval"
	NotificationTypeRankApproval      = "rank_approval"
	NotificationTypeIncentiveDecision = "incentive_decision"
)

// Notification represents a message sent over WebSocket.
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client.
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of connected members and pushes approval and payout
// events to them. Delivery is best effort; a member who is offline simply
// sees the result on their next dashboard load.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a notification to a specific member if connected.
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}
	return client.Conn.WriteJSON(notification)
}

// NotifyPayout tells a member a ledger entry was just written for them.
func (h *Hub) NotifyPayout(userID primitive.ObjectID, payout interface{}) {
	_ = h.SendToUser(userID, Notification{
		Type:    NotificationTypePayout,
		Message: "You received a new payout",
		Data:    payout,
	})
}

// NotifyPackageDecision tells a purchaser their package was resolved.
func (h *Hub) NotifyPackageDecision(userID primitive.ObjectID, status string) {
	_ = h.SendToUser(userID, Notification{
		Type:    NotificationTypePackageApproval,
		Message: fmt.Sprintf("Your package purchase was %s", status),
	})
}

// NotifyRankDecision tells a member their rank request was resolved.
func (h *Hub) NotifyRankDecision(userID primitive.ObjectID, status, targetRank string) {
	_ = h.SendToUser(userID, Notification{
		Type:    NotificationTypeRankApproval,
		Message: fmt.Sprintf("Your rank request for %s was %s", targetRank, status),
	})
}

// NotifyIncentiveDecision tells a member their application was resolved.
func (h *Hub) NotifyIncentiveDecision(userID primitive.ObjectID, incentiveType, status string) {
	_ = h.SendToUser(userID, Notification{
		Type:    NotificationTypeIncentiveDecision,
		Message: fmt.Sprintf("Your %s application was %s", incentiveType, status),
	})
}
