package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gene2phenotype/g2pbackend/config"
	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type AuthHandler struct {
	UserRepo repository.UserRepositoryInterface
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepositoryInterface, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !user.IsActive || !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "g2pbackend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

type RegisterPayload struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	InviteCode string `json:"invite_code"`
}

// Register creates a curator account from a panel invite. The new user
// joins the invite's panel with the default curation permissions.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" || payload.InviteCode == "" {
		WriteAPIError(w, http.StatusBadRequest, "Username, email, password, and invite code are required")
		return
	}

	invite, err := h.UserRepo.GetInviteByCode(payload.InviteCode)
	if err != nil || !invite.IsUsable() {
		WriteAPIError(w, http.StatusForbidden, "Invalid or expired invite code")
		return
	}

	if _, err := h.UserRepo.GetByUsername(payload.Username); err == nil {
		WriteAPIError(w, http.StatusConflict, "Username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to check username")
		return
	}
	if _, err := h.UserRepo.GetByEmail(payload.Email); err == nil {
		WriteAPIError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to check email")
		return
	}

	user := models.User{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		IsActive:  true,
	}
	if err := user.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}
	if err := h.UserRepo.Create(&user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	membership := models.UserPanel{
		UserID:      user.ID,
		PanelID:     invite.PanelID,
		Permissions: []string{permissions.RecordEdit, permissions.CurationPublish},
	}
	if err := h.UserRepo.AddPanelMembership(&membership); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to add panel membership")
		return
	}
	if err := h.UserRepo.IncrementInviteUses(invite.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to redeem invite")
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusCreated, user)
}

// Logout is client-side for JWT: the token is simply discarded. The
// endpoint exists so the frontend has a uniform auth surface.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully. Please discard your token."})
}

// Me returns the authenticated user with panel memberships
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}
