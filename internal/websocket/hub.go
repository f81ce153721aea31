package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and routes events to them.
// Subscriptions are keyed by user id so a user with several open tabs
// receives the event on each connection.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of user IDs to the set of their connected clients.
	subscriptions map[string]map[*Client]bool

	// Targeted events from the service layer.
	events chan userEvent
}

type userEvent struct {
	userID  string
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		events:        make(chan userEvent, 64),
	}
}

// Run starts the Hub's event processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

// NotifyUser sends an event envelope to every connection the user holds.
// Safe to call from any goroutine; drops the event when the hub is saturated
// rather than blocking the caller.
func (h *Hub) NotifyUser(userID, action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket event")
		return
	}
	select {
	case h.events <- userEvent{userID: userID, payload: data}:
	default:
		log.Warn().Str("user_id", userID).Msg("Websocket event queue full, dropping event")
	}
}

func (h *Hub) deliver(ev userEvent) {
	for client := range h.subscriptions[ev.userID] {
		select {
		case client.Send <- ev.payload:
		default:
			close(client.Send)
			delete(h.clients, client)
			h.removeSubscription(client)
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
