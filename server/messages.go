package server

import (
	"github.com/tailored-agentic-units/supra/engine"
)

// ServiceName is the fully-qualified Connect service name.
const ServiceName = "supra.v1.SessionService"

// Procedure paths of the session service.
const (
	StartProcedure = "/" + ServiceName + "/Start"
	ChatProcedure  = "/" + ServiceName + "/Chat"
	StateProcedure = "/" + ServiceName + "/State"
	CloseProcedure = "/" + ServiceName + "/Close"
)

type StartRequest struct {
	Preferences string `json:"preferences"`
}

type StartResponse struct {
	SessionID string          `json:"session_id"`
	State     engine.Snapshot `json:"state"`
}

// ChatRequest is one turn. Attachment is base64 in JSON.
type ChatRequest struct {
	SessionID  string `json:"session_id"`
	Text       string `json:"text"`
	Attachment []byte `json:"attachment,omitempty"`
	MIMEType   string `json:"mime_type,omitempty"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type CloseResponse struct{}
