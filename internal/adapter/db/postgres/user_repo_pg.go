package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-management-service/internal/domain/user"
)

// UserRepoPG implements the user store on top of GORM.
// It is used with the PostgreSQL driver in production and SQLite in tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`  // Unique identifier with auto-increment
	Name      *string `gorm:"type:varchar(255);not null"` // Required, NULL is rejected by the table
	Email     *string `gorm:"type:varchar(255)"`          // Optional
	Password  *string `gorm:"type:varchar(255)"`          // Optional, stored as given
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new user and returns the stored row, including its generated id.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.logStoreError("failed to create user in db", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	created := model.toDomain()
	return &created, nil
}

// FindAll returns every user in the table. No ordering is applied.
func (r *UserRepoPG) FindAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.logStoreError("failed to list users from db", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}

	return users, nil
}

// FindByID retrieves a user by primary key. It returns nil, nil when no row matches.
func (r *UserRepoPG) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.logStoreError("failed to get user from db", err, zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	found := model.toDomain()
	return &found, nil
}

// Update writes fields to the row with the given id and returns the affected row count.
func (r *UserRepoPG) Update(ctx context.Context, id int64, f user.Fields) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":     nullable(f.Name),
			"email":    nullable(f.Email),
			"password": nullable(f.Password),
		})
	if result.Error != nil {
		r.logStoreError("failed to update user in db", result.Error, zap.Int64("id", id))
		return 0, fmt.Errorf("failed to update user: %w", result.Error)
	}

	r.log.Info("user updated in db", zap.Int64("id", id), zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// Destroy deletes the row with the given id and returns the affected row count.
func (r *UserRepoPG) Destroy(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if result.Error != nil {
		r.logStoreError("failed to delete user in db", result.Error, zap.Int64("id", id))
		return 0, fmt.Errorf("failed to delete user: %w", result.Error)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id), zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected, nil
}

// logStoreError logs err, adding SQLSTATE details when PostgreSQL reported a constraint violation.
func (r *UserRepoPG) logStoreError(msg string, err error, fields ...zap.Field) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields,
			zap.String("sqlstate", pgErr.Code),
			zap.String("constraint", pgErr.ConstraintName),
			zap.String("column", pgErr.ColumnName),
		)
	}
	r.log.Error(msg, append(fields, zap.Error(err))...)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
