package http

import (
	"context"
	"net/http"
	"time"

	"fintrack/internal/log"
)

func handleIndex(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Message("Finance Advisor Backend Running ✅").Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady fails while the store cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err, failMessages{})
		return
	}

	user, err := s.auth.Signup(r.Context(), body.Get("name"), body.Get("email"), body.Get("password"))
	if err != nil {
		s.fail(w, r, err, failMessages{missing: "All fields are required"})
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Account created", log.FieldUserID, user.ID, log.FieldOperation, log.OpSignup)
	SuccessMessage("Account created successfully").Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err, failMessages{})
		return
	}

	user, err := s.auth.Login(r.Context(), body.Get("email"), body.Get("password"))
	if err != nil {
		s.fail(w, r, err, failMessages{missing: "Email and password required", notFound: "Account not found"})
		return
	}

	SuccessMessage("Login successful").Field("user", newUserView(user)).Write(w)
}
