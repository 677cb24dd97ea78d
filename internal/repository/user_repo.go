package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tamvems/internal/db"
)

// UserRepository is the persistence contract for accounts. Deleted users keep
// their rows with deleted_at set.
type UserRepository interface {
	Create(u *db.User) error
	GetByID(id int) (*db.User, error)
	GetByEmail(email string) (*db.User, error)
	Update(u *db.User) error
	UpdatePassword(id int, passwordHash string) error
	SoftDelete(id int, at time.Time) error
	List() ([]db.User, error)
	EmailExists(email string, excludeID int) (bool, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{DB: database}
}

const userColumns = `id, email, password_hash, name, employee_no, phone, role,
	division, is_active, can_change_password, deleted_at, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*db.User, error) {
	var u db.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.EmployeeNo,
		&u.Phone, &u.Role, &u.Division, &u.IsActive, &u.CanChangePassword,
		&u.DeletedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(u *db.User) error {
	query := `
		INSERT INTO users (email, password_hash, name, employee_no, phone, role,
			division, is_active, can_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query, u.Email, u.PasswordHash, u.Name, u.EmployeeNo,
		u.Phone, u.Role, u.Division, u.IsActive, u.CanChangePassword).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	u, err := scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	u, err := scanUser(r.DB.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) Update(u *db.User) error {
	result, err := r.DB.Exec(`
		UPDATE users
		SET email = $1, name = $2, employee_no = $3, phone = $4, role = $5,
			division = $6, is_active = $7, can_change_password = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL`,
		u.Email, u.Name, u.EmployeeNo, u.Phone, u.Role,
		u.Division, u.IsActive, u.CanChangePassword, u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	result, err := r.DB.Exec(
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *userRepository) SoftDelete(id int, at time.Time) error {
	result, err := r.DB.Exec(
		`UPDATE users SET deleted_at = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		at, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireOneRow(result, ErrNotFound)
}

func (r *userRepository) List() ([]db.User, error) {
	rows, err := r.DB.Query(
		`SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) EmailExists(email string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2 AND deleted_at IS NULL)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}
