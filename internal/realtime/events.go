package realtime

import "encoding/json"

// Event names exchanged with clients.
const (
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
	EventUsersOnline      = "users_online"
	EventActivities       = "activities"
	EventUpdateActivity   = "update_activity"
	EventActivityUpdated  = "activity_updated"
	EventSendMessage      = "send_message"
	EventReceiveMessage   = "receive_message"
	EventMessageSent      = "message_sent"
	EventMessageError     = "message_error"
)

const idleActivity = "Idle"

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type userPayload struct {
	UserID string `json:"userId"`
}

type activityPayload struct {
	UserID   string `json:"userId"`
	Activity string `json:"activity"`
}

type messagePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
