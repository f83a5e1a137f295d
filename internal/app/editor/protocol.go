// Package editor serves remote bilingual editing sessions. A session owns one
// bilingual.Field per open form field and mirrors every value and status
// change back to the admin's browser over a websocket.
package editor

import "github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"

// Client to server message types.
const (
	MsgOpen          = "open"
	MsgEnglish       = "en"
	MsgMarathi       = "mr"
	MsgAutoTranslate = "autoTranslate"
	MsgValidate      = "validate"
	MsgClose         = "close"
)

// Server to client message types.
const (
	MsgValue      = "value"
	MsgStatus     = "status"
	MsgValidation = "validation"
	MsgClosed     = "closed"
	MsgError      = "error"
)

type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field"`

	// open
	Value         *bilingual.Text    `json:"value,omitempty"`
	AutoTranslate *bool              `json:"autoTranslate,omitempty"`
	Options       *bilingual.Options `json:"options,omitempty"`

	// en, mr
	Text string `json:"text,omitempty"`

	// autoTranslate
	Enabled *bool `json:"enabled,omitempty"`
}

type ServerMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`

	Value  *bilingual.Text   `json:"value,omitempty"`
	Status *bilingual.Status `json:"status,omitempty"`
	Valid  *bool             `json:"valid,omitempty"`
	// Message explains errors, failed translations and validation failures.
	Message string `json:"message,omitempty"`
}
