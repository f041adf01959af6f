package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-management-service/internal/domain/user"
	apperrors "user-management-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so the store handle can be injected.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)      // Insert and return the stored row
	FindAll(ctx context.Context) ([]domain.User, error)                    // All rows, unordered
	FindByID(ctx context.Context, id int64) (*domain.User, error)          // nil, nil when absent
	Update(ctx context.Context, id int64, f domain.Fields) (int64, error)  // Affected row count
	Destroy(ctx context.Context, id int64) (int64, error)                  // Affected row count
}

// Usecase implements the business logic for user management operations.
// It is stateless; every mutation writes straight through to the repository.
type Usecase struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

var _ UserUsecase = (*Usecase)(nil)

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

// ListUsers returns every user known to the store.
func (uc *Usecase) ListUsers(ctx context.Context, _ ListUsersRequest) (*ListUsersResponse, error) {
	uc.log.Info("listing users")

	domainUsers, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorGettingUsers, err)
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = toDTO(&domainUsers[i])
	}

	return &ListUsersResponse{Users: users}, nil
}

// GetUser looks up a single user. A missing user is not an error: the
// response carries a nil User.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	uc.log.Info("getting user", zap.Int64("id", in.ID))

	u, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorGettingUser, err)
	}
	if u == nil {
		uc.log.Debug("user not found", zap.Int64("id", in.ID))
		return &GetUserResponse{}, nil
	}

	dto := toDTO(u)
	return &GetUserResponse{User: &dto}, nil
}

// CreateUser persists a new user without validating its fields.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user", zap.Stringp("name", in.Name), zap.Stringp("email", in.Email))

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorCreatingUser, err)
	}

	return &CreateUserResponse{User: toDTO(created)}, nil
}

// UpdateUser merges the provided fields over the stored user and writes the result.
// The lookup and the write are separate store calls; concurrent writers can interleave.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	uc.log.Info("updating user", zap.Int64("id", in.ID), zap.Stringp("name", in.Name), zap.Stringp("email", in.Email))

	if in.ID <= 0 {
		uc.log.Warn("update user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, apperrors.NewValidationError("id", MsgUserNotFound)
	}

	existing, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to load user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorUpdatingUser, err)
	}
	if existing == nil {
		uc.log.Warn("user not found for update", zap.Int64("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", MsgUserNotFound)
	}

	fields := existing.Merge(domain.Fields{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})

	affected, err := uc.repo.Update(ctx, in.ID, fields)
	if err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorUpdatingUser, err)
	}
	if affected == 0 {
		uc.log.Warn("update affected no rows", zap.Int64("id", in.ID))
		return nil, apperrors.NewNoRowsAffectedError(MsgErrorUpdatingUser)
	}

	return &UpdateUserResponse{Message: MsgUserUpdated}, nil
}

// DeleteUser removes an existing user.
func (uc *Usecase) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	uc.log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		uc.log.Warn("delete user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, apperrors.NewValidationError("id", MsgUserNotFound)
	}

	existing, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to load user for delete", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorDeletingUser, err)
	}
	if existing == nil {
		uc.log.Warn("user not found for delete", zap.Int64("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", MsgUserNotFound)
	}

	affected, err := uc.repo.Destroy(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(MsgErrorDeletingUser, err)
	}
	if affected == 0 {
		uc.log.Warn("delete affected no rows", zap.Int64("id", in.ID))
		return nil, apperrors.NewNoRowsAffectedError(MsgErrorDeletingUser)
	}

	return &DeleteUserResponse{Message: MsgUserDeleted}, nil
}

func toDTO(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
