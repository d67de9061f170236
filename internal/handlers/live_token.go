package handlers

import (
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const liveTokenTTL = 5 * time.Minute

// LiveTokenHandler mints short-lived scoped credentials for the realtime
// voice feature. The raw upstream API key stays server-side; clients only
// ever see tokens that expire in minutes and are useless against the
// general API.
type LiveTokenHandler struct {
	jwtSecret   []byte
	upstreamURL string
}

func NewLiveTokenHandler(jwtSecret []byte, upstreamURL string) *LiveTokenHandler {
	return &LiveTokenHandler{jwtSecret: jwtSecret, upstreamURL: upstreamURL}
}

type liveTokenResponse struct {
	Token       string `json:"token"`
	ExpiresIn   int    `json:"expires_in"`
	UpstreamURL string `json:"upstream_url"`
}

func (h *LiveTokenHandler) Mint(w http.ResponseWriter, r *http.Request) {
	if h.upstreamURL == "" {
		http.Error(w, "live conversation is not configured", http.StatusServiceUnavailable)
		return
	}
	userID := requestUserID(r)
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"scope": "live",
		"exp":   now.Add(liveTokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, liveTokenResponse{
		Token:       token,
		ExpiresIn:   int(liveTokenTTL.Seconds()),
		UpstreamURL: h.upstreamURL,
	})
}
