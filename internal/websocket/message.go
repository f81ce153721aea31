package websocket

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage builds an error envelope for a client.
func NewErrorMessage(text string) Message {
	return Message{Action: "error", Payload: map[string]string{"message": text}}
}
