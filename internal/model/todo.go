package model

import (
	"fmt"
	"unicode/utf8"
)

const (
	maxTitleLen       = 64
	maxDescriptionLen = 256
)

// Todo is the persisted resource. ItemID is assigned by the store on insert.
type Todo struct {
	ItemID      int64  `json:"itemid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (t *Todo) Validate() error {
	if t.Title == "" || utf8.RuneCountInString(t.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidInput, maxTitleLen)
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}

// Item is the creation DTO: no id, no completed flag, the server assigns both.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TodoPatch is the partial-update DTO. Pointer fields distinguish "absent"
// from zero values so only keys present in the payload overwrite stored
// fields.
type TodoPatch struct {
	ItemID      int64   `json:"itemid"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Apply copies the provided fields onto t, leaving absent fields untouched.
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Message is the body returned by operations whose result is a confirmation
// rather than an entity.
type Message struct {
	Message string `json:"Message"`
}
