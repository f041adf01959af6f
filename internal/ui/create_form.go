package ui

import (
	"context"
	"fmt"
	"sync"

	"user-management-service/internal/client"
)

// Field names an editable user attribute.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldPassword
)

// ParseField maps "name", "email" or "password" to a Field.
func ParseField(s string) (Field, error) {
	switch s {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	case "password":
		return FieldPassword, nil
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// Values holds the text of the three user fields.
type Values struct {
	Name     string
	Email    string
	Password string
}

func (v *Values) set(f Field, s string) {
	switch f {
	case FieldName:
		v.Name = s
	case FieldEmail:
		v.Email = s
	case FieldPassword:
		v.Password = s
	}
}

// Input converts the values to an API body. Empty strings are sent as is.
func (v Values) Input() client.UserInput {
	name, email, password := v.Name, v.Email, v.Password
	return client.UserInput{Name: &name, Email: &email, Password: &password}
}

// FormStatus tracks the outcome of the last submit.
type FormStatus int

const (
	StatusIdle FormStatus = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s FormStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// AddFunc creates a user, normally RootView.AddUser.
type AddFunc func(ctx context.Context, in client.UserInput) error

// CreateForm collects name, email and password for a new user.
type CreateForm struct {
	add AddFunc

	mu     sync.Mutex
	values Values
	status FormStatus
}

// NewCreateForm creates an empty form that submits through add.
func NewCreateForm(add AddFunc) *CreateForm {
	return &CreateForm{add: add}
}

// Set changes one field.
func (f *CreateForm) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.set(field, value)
}

// Values returns the current field text.
func (f *CreateForm) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Status returns the outcome of the last submit.
func (f *CreateForm) Status() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Submit sends the current values and clears the fields straight away,
// whatever the outcome. The status records whether the create succeeded.
func (f *CreateForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	values := f.values
	f.values = Values{}
	f.status = StatusSubmitting
	f.mu.Unlock()

	err := f.add(ctx, values.Input())

	f.mu.Lock()
	if err != nil {
		f.status = StatusFailed
	} else {
		f.status = StatusSucceeded
	}
	f.mu.Unlock()

	return err
}
