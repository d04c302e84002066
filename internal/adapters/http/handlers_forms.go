package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"

	"resultroad/internal/adapters/http/middleware"
	"resultroad/internal/application/orchestrators"
	"resultroad/internal/domain/submission"
)

// handleFeedbackForm handles GET/POST /forms/feedback for participants
// and instructors.
func handleFeedbackForm(w http.ResponseWriter, r *http.Request) {
	handleForm(w, r, submission.KindFeedback, "form_feedback.html")
}

// handleMonitoringForm handles GET/POST /forms/monitoring for fitness
// partners and service providers.
func handleMonitoringForm(w http.ResponseWriter, r *http.Request) {
	handleForm(w, r, submission.KindMonitoring, "form_monitoring.html")
}

// handleProgressForm handles GET/POST /forms/progress for support workers.
func handleProgressForm(w http.ResponseWriter, r *http.Request) {
	handleForm(w, r, submission.KindProgressOverview, "form_progress.html")
}

// handleForm is the shared GET/POST flow for all three form kinds. The
// route gates which roles reach it; the orchestrator re-checks the
// role-to-kind mapping anyway.
func handleForm(w http.ResponseWriter, r *http.Request, kind, templateName string) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	programs, err := stores.ProgramStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, templateName, map[string]any{
			"CSRFToken": csrf.Token(r),
			"Programs":  programs,
		})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.SubmitFormInput{
			Kind:        kind,
			SubmitterID: session.AccountID,
			Role:        session.Role,
		}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.ProgramID = r.FormValue("ProgramID")
			input.Notes = r.FormValue("Notes")
			input.Rating, _ = strconv.Atoi(r.FormValue("Rating"))
		} else {
			body := struct {
				ProgramID string `json:"programId"`
				Rating    int    `json:"rating"`
				Notes     string `json:"notes"`
			}{}
			if err := strictDecode(r, &body); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.ProgramID = body.ProgramID
			input.Rating = body.Rating
			input.Notes = body.Notes
		}

		deps := orchestrators.SubmitFormDeps{
			SubmissionStore: stores.SubmissionStore,
			Feed:            feed,
		}
		if _, err := orchestrators.ExecuteSubmitForm(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, templateName, map[string]any{
				"CSRFToken": csrf.Token(r),
				"Programs":  programs,
				"Error":     err.Error(),
				"Notes":     input.Notes,
			})
			return
		}

		renderTemplate(w, r, templateName, map[string]any{
			"CSRFToken": csrf.Token(r),
			"Programs":  programs,
			"Submitted": true,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
