package ui

import (
	"context"
	"errors"
	"sync"

	"user-management-service/internal/client"
)

// ErrNoSelection is returned when an edit is attempted with no user selected.
var ErrNoSelection = errors.New("no user selected for editing")

// UpdateFunc and DeleteFunc are normally RootView.UpdateUser and RootView.DeleteUser.
type (
	UpdateFunc func(ctx context.Context, id int64, in client.UserInput) error
	DeleteFunc func(ctx context.Context, id int64) error
)

// Action is a control offered on a row.
type Action string

const (
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
	ActionSave   Action = "Save"
)

// Row is one rendered line of the list.
type Row struct {
	User    client.User
	Editing bool
	Buffer  Values // meaningful only when Editing
	Actions []Action
}

// ListView shows users and lets one of them be edited in place.
type ListView struct {
	update UpdateFunc
	delete DeleteFunc

	mu       sync.Mutex
	selected int64 // 0 means none
	buffer   Values
}

// NewListView creates a ListView wired to the given mutations.
func NewListView(update UpdateFunc, del DeleteFunc) *ListView {
	return &ListView{update: update, delete: del}
}

// Select puts u in edit mode with the buffer filled from its current values.
func (l *ListView) Select(u client.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = u.ID
	l.buffer = Values{Name: deref(u.Name), Email: deref(u.Email), Password: deref(u.Password)}
}

// Selected returns the id in edit mode, or 0.
func (l *ListView) Selected() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// SetField edits the buffer of the selected user.
func (l *ListView) SetField(f Field, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == 0 {
		return ErrNoSelection
	}
	l.buffer.set(f, value)
	return nil
}

// Cancel leaves edit mode without saving.
func (l *ListView) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = 0
	l.buffer = Values{}
}

// SubmitEdit sends the buffer as an update of the selected user, then
// leaves edit mode whatever the outcome.
func (l *ListView) SubmitEdit(ctx context.Context) error {
	l.mu.Lock()
	id, values := l.selected, l.buffer
	l.selected = 0
	l.buffer = Values{}
	l.mu.Unlock()

	if id == 0 {
		return ErrNoSelection
	}
	return l.update(ctx, id, values.Input())
}

// Delete removes a user.
func (l *ListView) Delete(ctx context.Context, id int64) error {
	return l.delete(ctx, id)
}

// Rows builds the rows for users in the given order.
func (l *ListView) Rows(users []client.User) []Row {
	l.mu.Lock()
	selected, buffer := l.selected, l.buffer
	l.mu.Unlock()

	rows := make([]Row, len(users))
	for i, u := range users {
		if u.ID == selected {
			rows[i] = Row{User: u, Editing: true, Buffer: buffer, Actions: []Action{ActionSave}}
			continue
		}
		rows[i] = Row{User: u, Actions: []Action{ActionUpdate, ActionDelete}}
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
