package service

import (
	"errors"
	"strings"
	"time"

	"tamvems/internal/auth"
	"tamvems/internal/db"
	"tamvems/internal/httperr"
	"tamvems/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserInput carries the admin-editable fields of an account.
type UserInput struct {
	Email             string
	Password          string
	Name              string
	EmployeeNo        string
	Phone             *string
	Role              string
	Division          string
	IsActive          bool
	CanChangePassword bool
}

// UserService administers accounts. Two invariants guard it: an admin never
// touches their own account through these operations, and deletion requires
// the account to be inactive first.
type UserService struct {
	users repository.UserRepository
	now   func() time.Time
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, now: time.Now, log: log}
}

func validRole(role string) bool {
	switch role {
	case db.RoleUser, db.RoleAdmin, db.RoleSuperAdmin:
		return true
	}
	return false
}

func (s *UserService) validate(in *UserInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return httperr.Validation("email", "a valid email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return httperr.Validation("name", "name is required")
	}
	if strings.TrimSpace(in.EmployeeNo) == "" {
		return httperr.Validation("employee_no", "employee identifier is required")
	}
	if !validRole(in.Role) {
		return httperr.Validation("role", "role must be USER, ADMIN or SUPER_ADMIN")
	}
	if strings.TrimSpace(in.Division) == "" {
		return httperr.Validation("division", "division is required")
	}
	return nil
}

// Only a SUPER_ADMIN may create or modify privileged accounts.
func canManageRole(caller auth.Caller, role string) bool {
	if role == db.RoleUser {
		return true
	}
	return caller.Role == db.RoleSuperAdmin
}

func (s *UserService) checkEmail(email string, excludeID int) error {
	exists, err := s.users.EmailExists(email, excludeID)
	if err != nil {
		s.log.Error("check email", zap.Error(err))
		return httperr.Internal()
	}
	if exists {
		return httperr.Conflict(httperr.CodeDuplicateEmail, "an account with this email already exists")
	}
	return nil
}

func (s *UserService) Create(caller auth.Caller, in UserInput) (*db.User, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	if len(in.Password) < 8 {
		return nil, httperr.Validation("password", "password must be at least 8 characters")
	}
	if !canManageRole(caller, in.Role) {
		return nil, httperr.Forbidden("only a super admin can manage privileged accounts")
	}
	if err := s.checkEmail(in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return nil, httperr.Internal()
	}

	u := &db.User{
		Email:             in.Email,
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(in.Name),
		EmployeeNo:        strings.TrimSpace(in.EmployeeNo),
		Phone:             in.Phone,
		Role:              in.Role,
		Division:          strings.TrimSpace(in.Division),
		IsActive:          in.IsActive,
		CanChangePassword: in.CanChangePassword,
	}
	if err := s.users.Create(u); err != nil {
		s.log.Error("create user", zap.Error(err))
		return nil, httperr.Internal()
	}
	return u, nil
}

func (s *UserService) Update(caller auth.Caller, id int, in UserInput) (*db.User, error) {
	if id == caller.UserID {
		return nil, httperr.Forbidden("admins cannot modify their own account")
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !canManageRole(caller, u.Role) || !canManageRole(caller, in.Role) {
		return nil, httperr.Forbidden("only a super admin can manage privileged accounts")
	}
	if err := s.checkEmail(in.Email, id); err != nil {
		return nil, err
	}

	u.Email = in.Email
	u.Name = strings.TrimSpace(in.Name)
	u.EmployeeNo = strings.TrimSpace(in.EmployeeNo)
	u.Phone = in.Phone
	u.Role = in.Role
	u.Division = strings.TrimSpace(in.Division)
	u.IsActive = in.IsActive
	u.CanChangePassword = in.CanChangePassword
	if err := s.users.Update(u); err != nil {
		s.log.Error("update user", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return u, nil
}

// Delete soft-deletes an account. The account must already be inactive.
func (s *UserService) Delete(caller auth.Caller, id int) error {
	if id == caller.UserID {
		return httperr.Forbidden("admins cannot delete their own account")
	}
	u, err := s.get(id)
	if err != nil {
		return err
	}
	if !canManageRole(caller, u.Role) {
		return httperr.Forbidden("only a super admin can manage privileged accounts")
	}
	if u.IsActive {
		return httperr.Conflict("", "account must be deactivated before deletion")
	}

	if err := s.users.SoftDelete(id, s.now()); err != nil {
		s.log.Error("delete user", zap.Int("id", id), zap.Error(err))
		return httperr.Internal()
	}
	return nil
}

// ChangePassword lets a user rotate their own password when the permission
// flag allows it.
func (s *UserService) ChangePassword(caller auth.Caller, current, next string) error {
	if len(next) < 8 {
		return httperr.Validation("new_password", "password must be at least 8 characters")
	}

	u, err := s.get(caller.UserID)
	if err != nil {
		return err
	}
	if !u.CanChangePassword {
		return httperr.Forbidden("password changes are not permitted for this account")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return httperr.Validation("current_password", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return httperr.Internal()
	}
	if err := s.users.UpdatePassword(caller.UserID, string(hash)); err != nil {
		s.log.Error("update password", zap.Int("id", caller.UserID), zap.Error(err))
		return httperr.Internal()
	}
	return nil
}

func (s *UserService) Get(id int) (*db.User, error) {
	return s.get(id)
}

func (s *UserService) List() ([]db.User, error) {
	users, err := s.users.List()
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return nil, httperr.Internal()
	}
	return users, nil
}

func (s *UserService) get(id int) (*db.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("user not found")
		}
		s.log.Error("get user", zap.Int("id", id), zap.Error(err))
		return nil, httperr.Internal()
	}
	return u, nil
}
