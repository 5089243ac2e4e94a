package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/recipebook/recipebook-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `id, guid, first_name, last_name, email_address, password_hash, created_on, version`

// UserRepository handles user persistence operations. Every read filters out
// soft-deleted rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
// The unique index on email_address closes the concurrent-signup race; a
// duplicate insert surfaces as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO recipe_user (guid, first_name, last_name, email_address, password_hash) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.GUID, user.FirstName, user.LastName, user.EmailAddress, user.PasswordHash)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// ExistsByEmail reports whether a non-deleted user is registered under the
// email address, compared case-insensitively.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(1) FROM recipe_user WHERE LOWER(email_address) = LOWER(?) AND deleted = FALSE`

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByEmail retrieves a user by email address, compared case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM recipe_user WHERE LOWER(email_address) = LOWER(?) AND deleted = FALSE`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by their internal numeric id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM recipe_user WHERE id = ? AND deleted = FALSE`
	return r.getOne(ctx, query, id)
}

// GetByGUID retrieves a user by their external identifier.
func (r *UserRepository) GetByGUID(ctx context.Context, guid string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM recipe_user WHERE guid = ? AND deleted = FALSE`
	return r.getOne(ctx, query, guid)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.GUID, &user.FirstName, &user.LastName,
		&user.EmailAddress, &user.PasswordHash, &user.CreatedOn, &user.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
