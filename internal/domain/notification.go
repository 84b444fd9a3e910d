package domain

import (
	"time"
)

// Dispatch status constants. These are the only four terminal outcomes a
// dispatch can produce.
const (
	StatusSent            = "sent"
	StatusFailed          = "failed"
	StatusNoTemplateFound = "no_template_found"
	StatusNoDataFound     = "no_data_found"
)

// RecipientKey is the render-context field that carries the recipient address.
// A context without it is never handed to the mail client.
const RecipientKey = "email"

// RenderContext is the flat field-to-value mapping an assembler builds for the
// template engine. Monetary fields are always pre-formatted display strings by
// the time they land here, never raw minor-unit integers.
type RenderContext map[string]any

// Recipient returns the recipient address from the context, or "" if the
// context has none (which marks the dispatch as having produced no usable data).
func (c RenderContext) Recipient() string {
	if c == nil {
		return ""
	}
	if v, ok := c[RecipientKey].(string); ok {
		return v
	}
	return ""
}

// Attachment is a binary document attached to an outgoing email. Content is
// base64-encoded. Attachments are built per dispatch and never persisted.
type Attachment struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	MimeType string `json:"mime_type"`
}

// DispatchResult is the sole externally observable outcome of a dispatch.
// It is immutable once constructed.
type DispatchResult struct {
	To     string        `json:"to"`
	Status string        `json:"status"`
	Data   RenderContext `json:"data"`
}

// DispatchRecord is the persisted audit row for a dispatch. The dispatcher
// itself never writes these; the service layer stores one per dispatch so the
// outcome can be inspected and resent later.
type DispatchRecord struct {
	ID         string        `json:"id"`
	EventName  string        `json:"event_name"`
	TemplateID string        `json:"template_id,omitempty"`
	To         string        `json:"to,omitempty"`
	Status     string        `json:"status"`
	Data       RenderContext `json:"data,omitempty"`
	ResendOf   string        `json:"resend_of,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ValidStatuses returns the closed set of dispatch statuses.
func ValidStatuses() []string {
	return []string{StatusSent, StatusFailed, StatusNoTemplateFound, StatusNoDataFound}
}

// IsValidStatus checks whether the given string is a valid dispatch status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
