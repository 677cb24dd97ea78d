package service

import (
	"net/http"
	"testing"

	"tamvems/internal/auth"
	"tamvems/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func loginFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	jwt := auth.NewMiddleware("test-secret")
	return NewAuthService(users, jwt, testLogger()), users
}

func TestLogin(t *testing.T) {
	svc, users := loginFixture(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	users.add(db.User{
		Email: "budi@corp.example", PasswordHash: string(hash),
		Name: "Budi", Role: db.RoleUser, Division: "Finance", IsActive: true,
	})

	token, user, err := svc.Login("  BUDI@corp.example ", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "budi@corp.example", user.Email)

	_, _, err = svc.Login("budi@corp.example", "wrong")
	he := asHTTPError(t, err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)

	_, _, err = svc.Login("nobody@corp.example", "correct-horse")
	he = asHTTPError(t, err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, users := loginFixture(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	users.add(db.User{
		Email: "gone@corp.example", PasswordHash: string(hash),
		Role: db.RoleUser, IsActive: false,
	})

	_, _, err := svc.Login("gone@corp.example", "correct-horse")
	he := asHTTPError(t, err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}
