package model

// Checklist is a named, user-owned collection of items. Items may be
// absent from list responses.
type Checklist struct {
	ID                        ID     `json:"id"`
	Name                      string `json:"name"`
	ChecklistCompletionStatus bool   `json:"checklistCompletionStatus"`
	Items                     []Item `json:"items,omitempty"`
}

func (c Checklist) HasItems() bool { return len(c.Items) > 0 }

func (c Checklist) Label() string {
	if c.ChecklistCompletionStatus {
		return "Completed"
	}
	return "Not Completed"
}
