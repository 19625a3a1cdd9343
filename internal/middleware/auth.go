package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ContextKey string

// UserCtxKey holds the *domain.User attached by Authenticate.
const UserCtxKey = ContextKey("user")

// Claims defines the structure of the JWT claims expected from the token.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserFromContext returns the signed-in user or nil.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(UserCtxKey).(*domain.User)
	return u
}

// WithUser attaches u to ctx.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, u)
}

// Authenticate attaches the user from a valid Bearer token. Requests without
// a token pass through anonymous; a malformed or invalid token is rejected.
func Authenticate(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("Auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("invalid authorization header format")
				writeError(w, http.StatusUnauthorized, "authorization token format is invalid, expected 'Bearer <token>'")
				return
			}

			user, err := ParseToken(parts[1], jwtSecret)
			if err != nil {
				log.Warn("token parsing/validation failed", zap.Error(err))
				msg := "token is invalid"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token has expired"
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, domain.ErrAuthenticationRequired.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects users without role. Anonymous requests get 401.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFromContext(r.Context())
			if u == nil {
				writeError(w, http.StatusUnauthorized, domain.ErrAuthenticationRequired.Error())
				return
			}
			if u.Role != role {
				writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ParseToken validates an HMAC-signed token and maps its claims to a user.
func ParseToken(tokenString, jwtSecret string) (*domain.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("user_id claim %q is not a positive integer", claims.UserID)
	}
	return &domain.User{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// NewToken signs an HS256 token for u valid for ttl.
func NewToken(u *domain.User, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: strconv.FormatInt(u.ID, 10),
		Name:   u.Name,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
