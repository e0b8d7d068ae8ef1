package http

import (
	"net/http"

	"fintrack/internal/services"
)

var allFieldsRequired = failMessages{missing: "All fields required"}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := QueryUserID(r)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	txns, err := s.ledger.ListTransactions(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}
	Success().Field("transactions", newTransactionViews(txns)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err, failMessages{})
		return
	}
	userID, err := body.UserID()
	if err != nil {
		s.fail(w, r, err, allFieldsRequired)
		return
	}

	_, err = s.ledger.CreateTransaction(r.Context(), services.TransactionInput{
		UserID:   userID,
		Category: body.Get("category"),
		Amount:   body.Get("amount"),
		Kind:     body.Get("type"),
		Date:     body.Get("date"),
	})
	if err != nil {
		s.fail(w, r, err, allFieldsRequired)
		return
	}
	SuccessMessage("Transaction added").Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := QueryUserID(r)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	goals, err := s.ledger.ListGoals(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}
	Success().Field("goals", newGoalViews(goals)).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err, failMessages{})
		return
	}
	userID, err := body.UserID()
	if err != nil {
		s.fail(w, r, err, allFieldsRequired)
		return
	}

	_, err = s.ledger.CreateGoal(r.Context(), services.GoalInput{
		UserID: userID,
		Name:   body.Get("name"),
		Target: body.Get("target"),
		Saved:  body.Get("saved"),
		Date:   body.Get("date"),
	})
	if err != nil {
		s.fail(w, r, err, allFieldsRequired)
		return
	}
	SuccessMessage("Goal added").Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := QueryUserID(r)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	summary, err := s.ledger.Dashboard(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}
	Success().Field("summary", newDashboardView(summary)).Write(w)
}
