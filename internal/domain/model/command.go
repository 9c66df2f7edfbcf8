package model

import (
	"fmt"
	"strings"
	"time"
)

// Op identifies the mutation carried by a Command.
type Op string

// Supported mutations.
const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// ParseOp maps a case-insensitive string onto an Op.
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToLower(strings.TrimSpace(s))); op {
	case OpAdd, OpUpdate, OpRemove:
		return op, nil
	default:
		return "", fmt.Errorf("unknown op %q", s)
	}
}

// Command is a queued mutation of the leaderboard.
type Command struct {
	ID    string    `json:"id,omitempty" yaml:"id,omitempty"`       // unique id for idempotency
	Op    Op        `json:"op" yaml:"op"`                           // add, update or remove
	Name  string    `json:"name" yaml:"name"`                       // entity name
	Score int       `json:"score,omitempty" yaml:"score,omitempty"` // ignored for remove
	TS    time.Time `json:"ts,omitempty" yaml:"ts,omitempty"`       // submission time
}
