// Package ai defines the provider-neutral structured generation contract used
// by the sourcing workflow: an instruction, an ordered conversation and a
// schema the reply has to satisfy.
package ai

import (
	"context"
	"errors"
	"strings"
)

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	// ErrMalformedOutput means the model reply was not parseable JSON.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrSchemaViolation means the reply parsed but did not match the schema.
	ErrSchemaViolation = errors.New("model output does not match schema")
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single structured generation call.
type Request struct {
	// Name identifies the output shape in logs, e.g. "search_criteria".
	Name   string
	System string
	Turns  []Turn
	Schema *Schema
}

// StructuredGenerator returns the raw model text for a request. Callers use
// GenerateInto to get a validated, typed value.
type StructuredGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ParseRole maps free-form role names onto the two supported roles.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "human":
		return RoleUser, true
	case "assistant", "model", "ai":
		return RoleAssistant, true
	default:
		return "", false
	}
}

// CleanTurns drops blank turns and trims content.
func CleanTurns(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		role := t.Role
		if role != RoleAssistant {
			role = RoleUser
		}
		out = append(out, Turn{Role: role, Content: content})
	}
	return out
}
