// internal/controller/submission_controller.go
package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/unclebandit/campaign-intake/internal/form"
	"github.com/unclebandit/campaign-intake/internal/service"
)

// maxFormMemory bounds the in-memory part of a multipart submission.
const maxFormMemory = 1 << 20

type SubmissionController struct {
	Service *service.SubmissionService
}

// formView is what templates/form.html renders.
type formView struct {
	Page       *form.Page
	Categories []string
	Targets    []string
	Sentinel   string
}

type submitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Form serves the empty campaign form.
func (c *SubmissionController) Form(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, form.NewPage())
}

// Submit saves one campaign and answers with the same page showing the
// outcome. Script callers asking for JSON get the outcome as JSON.
func (c *SubmissionController) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	// FormData bodies from scripts arrive as multipart
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	values := form.ValuesFromForm(r.PostForm)
	page := form.NewPage()
	page.Fill(values)

	campaign, err := c.Service.Submit(r.Context(), values)

	if wantsJSON(r) {
		if err != nil {
			writeJSON(w, http.StatusBadGateway, submitResponse{Message: form.FailureText})
			return
		}
		writeJSON(w, http.StatusCreated, submitResponse{OK: true, Message: form.SuccessText, ID: campaign.ID})
		return
	}

	if err != nil {
		page.Fail()
		renderPage(w, http.StatusBadGateway, page)
		return
	}
	page.Succeed()
	renderPage(w, http.StatusOK, page)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderPage(w http.ResponseWriter, status int, page *form.Page) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "form.html", formView{
		Page:       page,
		Categories: form.Categories,
		Targets:    form.Targets,
		Sentinel:   form.Sentinel,
	})
	if err != nil {
		log.Println("❌ Failed to render form:", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
