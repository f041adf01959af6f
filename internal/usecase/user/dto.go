package user

import "time"

// Result messages returned by successful mutations.
const (
	MsgUserUpdated = "User updated"
	MsgUserDeleted = "User deleted"
)

// Failure messages reported to clients.
const (
	MsgUserNotFound      = "User not found"
	MsgErrorGettingUsers = "Error getting users"
	MsgErrorGettingUser  = "Error getting user"
	MsgErrorCreatingUser = "Error creating user"
	MsgErrorUpdatingUser = "Error updating user"
	MsgErrorDeletingUser = "Error deleting user"
)

// ListUsersRequest represents the request payload for listing users.
type ListUsersRequest struct{}

// ListUsersResponse represents the response payload for user listing.
// Users are returned in store order.
type ListUsersResponse struct {
	Users []User
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
// User is nil when no user has the requested id.
type GetUserResponse struct {
	User *User
}

// CreateUserRequest represents the request payload for creating a new user.
// Fields are passed to the store as given; a nil Name is rejected there.
type CreateUserRequest struct {
	Name     *string
	Email    *string
	Password *string
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	User User
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Nil or empty fields keep their stored value.
type UpdateUserRequest struct {
	ID       int64
	Name     *string
	Email    *string
	Password *string
}

// UpdateUserResponse represents the response payload after updating a user.
type UpdateUserResponse struct {
	Message string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	Message string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID        int64
	Name      *string
	Email     *string
	Password  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
