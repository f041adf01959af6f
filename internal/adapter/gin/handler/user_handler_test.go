package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "user-management-service/internal/usecase/user"
	pkgerrors "user-management-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.UserUsecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) (*usecase.UpdateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UpdateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) (*usecase.DeleteUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DeleteUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, req usecase.ListUsersRequest) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func setupTest(t *testing.T) (*gin.Engine, *UserHandler, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	logger := zaptest.NewLogger(t)
	handler := NewUserHandler(mockUsecase, logger)

	t.Cleanup(func() { mockUsecase.AssertExpectations(t) })

	r := gin.New()
	return r, handler, mockUsecase
}

func strPtr(s string) *string { return &s }

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		jsonBody := []byte(`{"name":"A","email":"a@x.com","password":"p"}`)

		mockUsecase.On("CreateUser", mock.Anything, mock.MatchedBy(func(req usecase.CreateUserRequest) bool {
			return *req.Name == "A" && *req.Email == "a@x.com" && *req.Password == "p"
		})).Return(&usecase.CreateUserResponse{User: usecase.User{
			ID:       1,
			Name:     strPtr("A"),
			Email:    strPtr("a@x.com"),
			Password: strPtr("p"),
		}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "A", *resp.Name)
		assert.Equal(t, "p", *resp.Password)
	})

	t.Run("Missing fields are passed as nil", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{Email: strPtr("x@x.com")}).
			Return(&usecase.CreateUserResponse{User: usecase.User{ID: 2, Email: strPtr("x@x.com")}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"email":"x@x.com"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":2,"name":null,"email":"x@x.com","password":null,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`, w.Body.String())
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.POST("/users", handler.CreateUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Store Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		storeErr := errors.New(`null value in column "name" violates not-null constraint`)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError(usecase.MsgErrorCreatingUser, storeErr))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeMessage(t, w)
		assert.Equal(t, usecase.MsgErrorCreatingUser, resp.Message)
		assert.Equal(t, storeErr.Error(), resp.Error)
	})

	t.Run("Untyped error is a 500", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.POST("/users", handler.CreateUser)

		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(&usecase.GetUserResponse{User: &usecase.User{ID: 1, Name: strPtr("John Doe")}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Nil(t, resp.Email)
	})

	t.Run("Unknown id answers null", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 99}).Return(&usecase.GetUserResponse{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/99", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("Missing id", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.GET("/users", handler.GetUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgInvalidUserID, decodeMessage(t, w).Message)
	})

	t.Run("Store Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users/:id", handler.GetUser)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(nil, pkgerrors.NewInternalError(usecase.MsgErrorGettingUser, errors.New("connection refused")))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "connection refused", decodeMessage(t, w).Error)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PUT("/users/:id", handler.UpdateUser)

		mockUsecase.On("UpdateUser", mock.Anything, mock.MatchedBy(func(req usecase.UpdateUserRequest) bool {
			return req.ID == 1 && *req.Name == "John Updated" && req.Email == nil
		})).Return(&usecase.UpdateUserResponse{Message: usecase.MsgUserUpdated}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", bytes.NewBufferString(`{"name":"John Updated"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"User updated"}`, w.Body.String())
	})

	t.Run("Not found is a bad request", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PUT("/users/:id", handler.UpdateUser)

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewNotFoundError("user", usecase.MsgUserNotFound))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/42", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, usecase.MsgUserNotFound, decodeMessage(t, w).Message)
	})

	t.Run("No rows affected", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.PUT("/users/:id", handler.UpdateUser)

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewNoRowsAffectedError(usecase.MsgErrorUpdatingUser))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, usecase.MsgErrorUpdatingUser, decodeMessage(t, w).Message)
	})

	t.Run("Missing id", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.PUT("/users", handler.UpdateUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users", bytes.NewBufferString(`{}`))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.PUT("/users/:id", handler.UpdateUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/abc", bytes.NewBufferString("{}"))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgInvalidUserID, decodeMessage(t, w).Message)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 1}).
			Return(&usecase.DeleteUserResponse{Message: usecase.MsgUserDeleted}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"User deleted"}`, w.Body.String())
	})

	t.Run("Not found is a bad request", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 7}).
			Return(nil, pkgerrors.NewNotFoundError("user", usecase.MsgUserNotFound))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/7", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, handler, _ := setupTest(t)
		r.DELETE("/users/:id", handler.DeleteUser)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/x1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{}).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{
				{ID: 1, Name: strPtr("User 1")},
				{ID: 2, Name: strPtr("User 2")},
			},
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		assert.Equal(t, "User 2", *resp[1].Name)
	})

	t.Run("Empty list is an empty array", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, usecase.ListUsersRequest{}).Return(&usecase.ListUsersResponse{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("Store Error", func(t *testing.T) {
		r, handler, mockUsecase := setupTest(t)
		r.GET("/users", handler.ListUsers)

		mockUsecase.On("ListUsers", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError(usecase.MsgErrorGettingUsers, errors.New("relation \"users\" does not exist")))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeMessage(t, w)
		assert.Equal(t, usecase.MsgErrorGettingUsers, resp.Message)
		assert.NotEmpty(t, resp.Error)
	})
}
