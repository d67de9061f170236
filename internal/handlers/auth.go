package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"echoverse/internal/models"
	"echoverse/internal/services"
)

type AuthHandler struct {
	db        *sqlx.DB
	encSvc    *services.EncryptionService
	jwtSecret []byte
}

func NewAuthHandler(db *sqlx.DB, encSvc *services.EncryptionService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{db: db, encSvc: encSvc, jwtSecret: jwtSecret}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, "accounts require a database", http.StatusServiceUnavailable)
		return
	}
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if c.Email == "" || c.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{Email: c.Email}
	if err := h.encSvc.EncryptUser(&user); err != nil {
		http.Error(w, "could not protect account data", http.StatusInternalServerError)
		return
	}

	var userID int
	err = h.db.QueryRowx(
		`INSERT INTO users (email, email_blind_index, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		user.Email, user.EmailBlindIndex, string(hashed)).Scan(&userID)
	if err != nil {
		http.Error(w, "could not create user", http.StatusBadRequest)
		return
	}

	token, err := h.issueJWT(userID)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		http.Error(w, "accounts require a database", http.StatusServiceUnavailable)
		return
	}
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if c.Email == "" || c.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	var user models.User
	var err error
	if h.encSvc != nil {
		// Emails are encrypted at rest; lookups go through the blind index.
		err = h.db.Get(&user,
			`SELECT id, email, email_blind_index, password_hash, created_at FROM users WHERE email_blind_index=$1`,
			h.encSvc.EmailBlindIndex(c.Email))
	} else {
		err = h.db.Get(&user,
			`SELECT id, email, email_blind_index, password_hash, created_at FROM users WHERE email=$1`, c.Email)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := h.issueJWT(user.ID)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (h *AuthHandler) issueJWT(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
