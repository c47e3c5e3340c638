// Package lexia defines the wire types exchanged with the Lexia platform.
//
// A Lexia agent receives a ChatMessage and answers through a streamed
// response. Per-agent secrets (API keys) travel inside the message as a list
// of named variables rather than in the process environment, so every request
// carries its own credentials.
package lexia

import "strings"

// Variable is a single named configuration value attached to a request.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ChatMessage is the request envelope for the send_message endpoint.
type ChatMessage struct {
	ThreadID             string     `json:"thread_id"`
	Message              string     `json:"message"`
	ResponseUUID         string     `json:"response_uuid"`
	Model                string     `json:"model"`
	SystemMessage        string     `json:"system_message,omitempty"`
	ProjectSystemMessage string     `json:"project_system_message,omitempty"`
	Variables            []Variable `json:"variables,omitempty"`
	StreamURL            string     `json:"stream_url,omitempty"`
	StreamToken          string     `json:"stream_token,omitempty"`
}

// Variables wraps a variable list with case-insensitive name lookup.
type Variables struct {
	vars []Variable
}

// NewVariables creates a lookup helper over the given variable list.
func NewVariables(vars []Variable) Variables {
	return Variables{vars: vars}
}

// Get returns the value for name, or "" when absent or empty.
// Names are compared case-insensitively and values are trimmed.
func (v Variables) Get(name string) string {
	for _, entry := range v.vars {
		if strings.EqualFold(entry.Name, name) {
			return strings.TrimSpace(entry.Value)
		}
	}
	return ""
}

// Has reports whether name resolves to a non-empty value.
func (v Variables) Has(name string) bool {
	return v.Get(name) != ""
}

// Well-known variable names.
const (
	VarOpenAIKey = "OPENAI_API_KEY"
	VarSerperKey = "SERPER_API_KEY"
)
