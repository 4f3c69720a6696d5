package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"example.com/golfbuddy/internal/middleware"
	"example.com/golfbuddy/internal/social"
	"example.com/golfbuddy/internal/validate"
)

// --- HTTP Handlers ---

func (s *Server) helloHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "hello_world")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// registerHandler creates a user from
// {"name","gender","email","birthdate","hcp","password"}.
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	f, err := validate.DecodeFields(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validate.MsgMissing)
		return
	}
	out, err := s.svc.Register(r.Context(), f)
	if err == nil {
		logg.Info("http/user: user registered")
	}
	reply(w, "http/user", out, err)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.ListUsers(r.Context())
	if err != nil {
		fail(w, "http/user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": users})
}

// loginHandler exchanges {"email","password"} for {"token","id"}.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, social.MsgWrongLogin)
		return
	}

	u, err := s.svc.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		fail(w, "http/login", err)
		return
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		fail(w, "http/login", err)
		return
	}
	logg.Info("http/login: user " + strconv.FormatInt(u.ID, 10) + " logged in")
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "id": u.ID})
}

// logoutHandler revokes the presented token.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": middleware.MsgMissingHeader})
		return
	}
	if err := s.blocklist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		fail(w, "http/logout", err)
		return
	}
	writeJSON(w, http.StatusOK, social.MsgLoggedOut)
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GetUser(r.Context(), pathID(r, "uid"))
	if err != nil {
		fail(w, "http/user", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) editUserHandler(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "uid")
	f, err := validate.DecodeFields(r.Body)
	if err != nil {
		if err := s.svc.RequireUser(r.Context(), id); err != nil {
			fail(w, "http/user", err)
			return
		}
		writeJSON(w, http.StatusBadRequest, validate.MsgWrongInput)
		return
	}
	out, err := s.svc.EditUser(r.Context(), id, f)
	reply(w, "http/user", out, err)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.DeleteUser(r.Context(), pathID(r, "uid"))
	reply(w, "http/user", out, err)
}

func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.Feed(r.Context(), pathID(r, "uid"))
	if err != nil {
		fail(w, "http/feed", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// notificationsHandler returns the newest notifications.
// Query parameters: ?limit=50
func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "uid")
	if err := s.svc.RequireUser(r.Context(), userID); err != nil {
		fail(w, "http/notifications", err)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	items, err := s.notifications.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		fail(w, "http/notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// --- Social graph ---

// followHandler expects {"user_id": <target>}; the target may be a number or
// a numeric string.
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID flexibleID `json:"user_id"`
	}
	// an unreadable target resolves to no user
	_ = json.NewDecoder(r.Body).Decode(&body)

	out, err := s.svc.Follow(r.Context(), pathID(r, "uid"), int64(body.UserID))
	reply(w, "http/follow", out, err)
}

func (s *Server) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Unfollow(r.Context(), pathID(r, "uid"), pathID(r, "target"))
	reply(w, "http/follow", out, err)
}
