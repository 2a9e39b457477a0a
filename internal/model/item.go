package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID identifies a checklist or item. The server sends either numbers or
// strings; both decode to the same textual form used in URL paths.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Status is the wire value sent when changing an item's completion flag.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggle returns the status literal for the complement of current.
func Toggle(current bool) Status {
	if current {
		return StatusPending
	}
	return StatusCompleted
}

// Item is a single task line within a checklist.
type Item struct {
	ID                   ID     `json:"id"`
	Name                 string `json:"name"`
	ItemCompletionStatus bool   `json:"itemCompletionStatus"`
}

// Label is the human form of the completion flag.
func (it Item) Label() string {
	if it.ItemCompletionStatus {
		return "Completed"
	}
	return "Pending"
}

// Stats counts done and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.ItemCompletionStatus {
			done++
		} else {
			pending++
		}
	}
	return
}

// Blank reports whether a user-supplied name is empty after trimming.
func Blank(name string) bool { return strings.TrimSpace(name) == "" }
