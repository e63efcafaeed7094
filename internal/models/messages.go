package models

import "encoding/json"

// WSMessage is the envelope for all WebSocket communication.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message types exchanged over the WebSocket.
const (
	MsgSelectSection = "select_section"
	MsgHoverField    = "hover_field"
	MsgHoverLayer    = "hover_layer"
	MsgToggleTheme   = "toggle_theme"
	MsgGetView       = "get_view"

	MsgSession = "session"
	MsgView    = "view"
	MsgError   = "error"
)

// SelectSectionRequest is sent by the client when a tab is clicked.
type SelectSectionRequest struct {
	Section string `json:"section"`
}

// HoverFieldRequest is sent on pointer enter/leave of a header field.
// An empty name clears the highlight.
type HoverFieldRequest struct {
	Name string `json:"name"`
}

// HoverLayerRequest is sent on pointer enter/leave of an OSI layer.
// Zero clears the highlight.
type HoverLayerRequest struct {
	Number int `json:"number"`
}

// SessionPayload announces the session bound to a connection.
type SessionPayload struct {
	ID      string `json:"id"`
	Variant string `json:"variant"`
}

// ViewPayload carries the explorer state and the re-rendered content region.
type ViewPayload struct {
	State interface{} `json:"state"`
	HTML  string      `json:"html"`
}

// VariantInfo describes a page variant available to clients.
type VariantInfo struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Sections  []string `json:"sections"`
	DarkTheme bool     `json:"darkTheme"`
}

// EngineStats reports session statistics.
type EngineStats struct {
	ActiveSessions  int     `json:"activeSessions"`
	TotalSessions   int     `json:"totalSessions"`
	ExpiredSessions int     `json:"expiredSessions"`
	Commands        int     `json:"commands"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
}

// ErrorPayload describes an error sent to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}
