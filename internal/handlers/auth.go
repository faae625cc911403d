package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/saecki/minesweeper/internal/config"
	"github.com/saecki/minesweeper/internal/middleware"
	"github.com/saecki/minesweeper/internal/repository"
)

type AuthHandler struct {
	log     *logrus.Logger
	store   Store
	cookies *config.Cookies
}

func NewAuthHandler(log *logrus.Logger, store Store, cookies *config.Cookies) *AuthHandler {
	return &AuthHandler{
		log:     log,
		store:   store,
		cookies: cookies,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

// credentials pulls a username and password out of the url-encoded
// request body, answering 400 itself when they are missing.
func (h *AuthHandler) credentials(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return "", nil, false
	}
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("body must contain url-encoded username and password"))
		return "", nil, false
	}
	return username, []byte(password), true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.credentials(w, r)
	if !ok {
		return
	}
	// bcrypt refuses anything longer
	if len(password) > 72 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("password must not exceed 72 bytes"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to hash password: ", err)
		return
	}

	player, err := h.store.CreatePlayer(r.Context(), username, hash)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("username taken"))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to insert player: ", err)
		return
	}

	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if err := h.cookies.Issue(w, claims); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to issue cookies: ", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.credentials(w, r)
	if !ok {
		return
	}

	player, err := h.store.FetchPlayer(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("username unknown"))
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to fetch player: ", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(player.PasswordHash, password); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("wrong password"))
		return
	}

	claims := config.NewPlayerClaims(player.PlayerId, player.Username)
	if err := h.cookies.Issue(w, claims); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error("unable to issue cookies: ", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
}

// Me reports who the request is authenticated as. As a side effect it
// refreshes valid cookies and clears broken ones.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		status = &Status{
			LoggedIn: true,
			Player:   &PlayerInfo{claims.PlayerId, claims.Username},
		}
		if err := h.cookies.Issue(w, claims); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.log.Error("unable to refresh cookies: ", err)
			return
		}
	} else {
		status = &Status{LoggedIn: false}
		h.cookies.Clear(w)
	}

	if _, err := sendJSON(w, status); err != nil {
		h.log.Error(err)
	}
}
