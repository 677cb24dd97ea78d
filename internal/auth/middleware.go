package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tamvems/internal/db"

	"github.com/golang-jwt/jwt/v5"
)

// Caller is the authenticated identity handed explicitly to every service
// call. Nothing below the HTTP layer reads ambient session state.
type Caller struct {
	UserID   int
	Role     string
	Division string
}

// IsAdmin reports whether the caller may perform administrative transitions.
func (c Caller) IsAdmin() bool {
	return c.Role == db.RoleAdmin || c.Role == db.RoleSuperAdmin
}

type contextKey struct{}

var callerKey contextKey

// CallerFromContext returns the identity stored by the middleware.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

// Middleware validates bearer tokens and stores the Caller on the request
// context.
type Middleware struct {
	secret []byte
}

func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// GenerateToken signs a JWT for the given user.
func (m *Middleware) GenerateToken(user *db.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"role":     user.Role,
		"division": user.Division,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// RequireAuth rejects requests without a valid bearer token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		role, _ := claims["role"].(string)
		division, _ := claims["division"].(string)

		caller := Caller{UserID: int(userID), Role: role, Division: division}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

// RequireAdmin additionally rejects callers without an admin role. It must
// wrap handlers already behind RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok || !caller.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
