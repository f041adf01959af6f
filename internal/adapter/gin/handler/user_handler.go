package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"user-management-service/internal/usecase/user"
	apperrors "user-management-service/pkg/errors"
	"user-management-service/pkg/logger"
)

// MsgInvalidUserID is returned when the :id path parameter is not a number.
const MsgInvalidUserID = "Invalid user id"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest is the body accepted by create and update, as JSON or as an
// urlencoded form. Every field is optional; a missing field and an explicit
// null both decode to nil.
type UserRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

// UserResponse is the JSON shape of a stored user
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Password  *string   `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageResponse carries a human readable result
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is returned for store failures. Error holds the raw cause.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)
	log.Info("list users request")

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{})
	if err != nil {
		log.Error("list users failed", zap.Error(err))
		h.respondError(c, err, http.StatusNotFound)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id. An unknown id answers 200 with a null body.
func (h *UserHandler) GetUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Param("id")
	if idStr == "" {
		log.Warn("get user without id")
		c.JSON(http.StatusNotFound, MessageResponse{Message: user.MsgUserNotFound})
		return
	}
	id, ok := h.parseID(c, idStr)
	if !ok {
		return
	}

	log.Info("get user request", zap.Int64("id", id))

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		log.Error("get user failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(c, err, http.StatusNotFound)
		return
	}

	if resp.User == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(resp.User))
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req UserRequest
	if !h.bindBody(c, &req) {
		return
	}

	log.Info("create user request", zap.Stringp("name", req.Name), zap.Stringp("email", req.Email))

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Error("create user failed", zap.Error(err))
		h.respondError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, toResponse(&resp.User))
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Param("id")
	if idStr == "" {
		log.Warn("update user without id")
		c.JSON(http.StatusBadRequest, MessageResponse{Message: user.MsgUserNotFound})
		return
	}
	id, ok := h.parseID(c, idStr)
	if !ok {
		return
	}

	var req UserRequest
	if !h.bindBody(c, &req) {
		return
	}

	log.Info("update user request", zap.Int64("id", id), zap.Stringp("name", req.Name), zap.Stringp("email", req.Email))

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Warn("update user failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Param("id")
	if idStr == "" {
		log.Warn("delete user without id")
		c.JSON(http.StatusBadRequest, MessageResponse{Message: user.MsgUserNotFound})
		return
	}
	id, ok := h.parseID(c, idStr)
	if !ok {
		return
	}

	log.Info("delete user request", zap.Int64("id", id))

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		log.Warn("delete user failed", zap.Int64("id", id), zap.Error(err))
		h.respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

func (h *UserHandler) parseID(c *gin.Context, idStr string) (int64, bool) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgInvalidUserID})
		return 0, false
	}
	return id, true
}

// bindBody decodes the body with the binding chosen by Content-Type. A body
// without a Content-Type is read as JSON. An empty body, including an empty
// chunked one, is treated as an empty object.
func (h *UserHandler) bindBody(c *gin.Context, dst *UserRequest) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}

	var err error
	if c.ContentType() == "" {
		err = c.ShouldBindWith(dst, binding.JSON)
	} else {
		err = c.ShouldBind(dst)
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		h.log.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return false
	}
	return true
}

// respondError maps usecase errors to HTTP responses. notFoundStatus lets
// each route pick how an unknown user is reported.
func (h *UserHandler) respondError(c *gin.Context, err error, notFoundStatus int) {
	status := apperrors.StatusOf(err)
	if apperrors.IsNotFound(err) {
		status = notFoundStatus
	}

	if status >= http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Message: apperrors.MessageOf(err),
			Error:   apperrors.DetailOf(err),
		})
		return
	}

	c.JSON(status, MessageResponse{Message: apperrors.MessageOf(err)})
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
