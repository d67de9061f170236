package handlers

import (
	"encoding/json"
	"net/http"

	"echoverse/internal/models"
	"echoverse/internal/store"
)

type SettingsHandler struct {
	kv store.KV
}

func NewSettingsHandler(kv store.KV) *SettingsHandler {
	return &SettingsHandler{kv: kv}
}

type settingsResponse struct {
	ColorTheme models.ColorTheme `json:"colorTheme"`
	ThemeMode  models.ThemeMode  `json:"themeMode"`
	IsPremium  bool              `json:"isPremium"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	resp := settingsResponse{
		ColorTheme: models.ThemeIndigo,
		ThemeMode:  models.ModeSystem,
	}
	readSetting(r, h.kv, userID, store.KeyColorTheme, &resp.ColorTheme)
	readSetting(r, h.kv, userID, store.KeyThemeMode, &resp.ThemeMode)
	readSetting(r, h.kv, userID, store.KeyIsPremium, &resp.IsPremium)
	if !resp.ColorTheme.Valid() {
		resp.ColorTheme = models.ThemeIndigo
	}
	if !resp.ThemeMode.Valid() {
		resp.ThemeMode = models.ModeSystem
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateSettingsRequest struct {
	ColorTheme *models.ColorTheme `json:"colorTheme"`
	ThemeMode  *models.ThemeMode  `json:"themeMode"`
	IsPremium  *bool              `json:"isPremium"`
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.ColorTheme != nil && !req.ColorTheme.Valid() {
		http.Error(w, "unknown color theme", http.StatusBadRequest)
		return
	}
	if req.ThemeMode != nil && !req.ThemeMode.Valid() {
		http.Error(w, "unknown theme mode", http.StatusBadRequest)
		return
	}

	if req.ColorTheme != nil {
		if err := writeSetting(r, h.kv, userID, store.KeyColorTheme, req.ColorTheme); err != nil {
			http.Error(w, "could not save", http.StatusInternalServerError)
			return
		}
	}
	if req.ThemeMode != nil {
		if err := writeSetting(r, h.kv, userID, store.KeyThemeMode, req.ThemeMode); err != nil {
			http.Error(w, "could not save", http.StatusInternalServerError)
			return
		}
	}
	if req.IsPremium != nil {
		if err := writeSetting(r, h.kv, userID, store.KeyIsPremium, req.IsPremium); err != nil {
			http.Error(w, "could not save", http.StatusInternalServerError)
			return
		}
	}
	h.Get(w, r)
}

// readSetting leaves the destination untouched when the key is missing or
// the stored value no longer parses.
func readSetting(r *http.Request, kv store.KV, userID int, key string, dst any) {
	raw, err := kv.Get(r.Context(), userID, key)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

func writeSetting(r *http.Request, kv store.KV, userID int, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(r.Context(), userID, key, raw)
}
