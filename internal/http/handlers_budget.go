package http

import (
	"net/http"
)

var userIDRequired = failMessages{missing: "user_id required"}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		s.fail(w, r, err, failMessages{})
		return
	}

	missing := failMessages{missing: "user_id and amount required"}
	userID, err := body.UserID()
	if err != nil {
		s.fail(w, r, err, missing)
		return
	}
	// A present but non-textual amount (object, array) is invalid, not missing.
	amount := body.Get("amount")
	if amount == "" && body.Has("amount") {
		amount = "invalid"
	}

	if err := s.analytics.SetBudget(r.Context(), userID, amount); err != nil {
		s.fail(w, r, err, missing)
		return
	}
	SuccessMessage("Budget set for current month").Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := QueryUserID(r)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	report, err := s.analytics.GetBudgetStatus(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	Success().
		Field("current", newCurrentBudgetView(report.Current)).
		Field("previous", newHistoryViews(report.Previous)).
		Write(w)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	userID, err := QueryUserID(r)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	series, err := s.analytics.GetForecast(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, userIDRequired)
		return
	}

	Success().
		Field("labels", monthLabels(series.Labels)).
		Field("actual", nonNil(series.Actual)).
		Field("predicted", nonNil(series.Predicted)).
		Field("next_pred", series.NextPrediction).
		Write(w)
}
