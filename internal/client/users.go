package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// User mirrors the JSON user returned by the API.
type User struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Password  *string   `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserInput is the body for create and update. Nil fields are sent as null.
type UserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type messageBody struct {
	Message string `json:"message"`
}

// UsersAPI is a typed wrapper over the /api/users routes.
type UsersAPI struct {
	hook    *Hook
	baseURL string
}

// NewUsersAPI creates a client for the API served at baseURL, e.g. http://localhost:3000.
func NewUsersAPI(baseURL string, hook *Hook) *UsersAPI {
	return &UsersAPI{hook: hook, baseURL: strings.TrimRight(baseURL, "/")}
}

// Hook returns the hook whose loading and error state this client drives.
func (a *UsersAPI) Hook() *Hook { return a.hook }

func (a *UsersAPI) usersURL() string { return a.baseURL + "/api/users" }

func (a *UsersAPI) userURL(id int64) string {
	return a.usersURL() + "/" + strconv.FormatInt(id, 10)
}

// List fetches every user.
func (a *UsersAPI) List(ctx context.Context) ([]User, error) {
	var users []User
	err := a.hook.SendRequest(ctx, RequestConfig{URL: a.usersURL()}, func(data []byte) error {
		if string(data) == "{}" {
			users = nil
			return nil
		}
		return json.Unmarshal(data, &users)
	})
	return users, err
}

// Get fetches one user. It returns nil when no user has the id.
func (a *UsersAPI) Get(ctx context.Context, id int64) (*User, error) {
	var u *User
	err := a.hook.SendRequest(ctx, RequestConfig{URL: a.userURL(id)}, func(data []byte) error {
		var decoded User
		if err := json.Unmarshal(data, &decoded); err != nil {
			return err
		}
		if decoded.ID != 0 {
			u = &decoded
		}
		return nil
	})
	return u, err
}

// Create adds a user and returns it as stored.
func (a *UsersAPI) Create(ctx context.Context, in UserInput) (*User, error) {
	var u User
	err := a.hook.SendRequest(ctx, RequestConfig{
		URL:    a.usersURL(),
		Method: http.MethodPost,
		Body:   in,
	}, func(data []byte) error {
		return json.Unmarshal(data, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update changes a user and returns the server message.
func (a *UsersAPI) Update(ctx context.Context, id int64, in UserInput) (string, error) {
	var msg messageBody
	err := a.hook.SendRequest(ctx, RequestConfig{
		URL:    a.userURL(id),
		Method: http.MethodPut,
		Body:   in,
	}, func(data []byte) error {
		return json.Unmarshal(data, &msg)
	})
	return msg.Message, err
}

// Delete removes a user and returns the server message.
func (a *UsersAPI) Delete(ctx context.Context, id int64) (string, error) {
	var msg messageBody
	err := a.hook.SendRequest(ctx, RequestConfig{
		URL:    a.userURL(id),
		Method: http.MethodDelete,
	}, func(data []byte) error {
		return json.Unmarshal(data, &msg)
	})
	return msg.Message, err
}
