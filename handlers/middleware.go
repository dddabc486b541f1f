package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// UserFromContext extracts the authenticated user placed by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// AuthMiddleware verifies the bearer token and, if valid, fetches the
// user (with panel memberships) and adds them to the request context.
func AuthMiddleware(userRepo repository.UserRepositoryInterface, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			var userID uint
			if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid user ID in token")
				return
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				// the user may have been deleted after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, "User not found")
				return
			}
			if !user.IsActive {
				WriteAPIError(w, http.StatusUnauthorized, "Account is disabled")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the user when a valid bearer token is present
// but lets anonymous requests through. Used on public endpoints whose
// response is richer for curators.
func OptionalAuth(userRepo repository.UserRepositoryInterface, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			var userID uint
			if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := userRepo.GetByID(userID)
			if err != nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperuser gates an endpoint to superusers. It should be used
// after AuthMiddleware.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteAPIError(w, http.StatusInternalServerError, "User not found in context")
			return
		}
		if !user.IsSuperuser {
			WriteAPIError(w, http.StatusForbidden, "Superuser access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
