package api

import (
	"net/http"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
)

// ListGovernanceTerms lists all terms, drafts included (operator view).
// GET /api/admin/governance/terms
func ListGovernanceTerms(c *gin.Context) {
	rows, err := governanceService().ListTerms(true)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// UpsertGovernanceTermRequest represents term content
type UpsertGovernanceTermRequest struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// UpsertGovernanceTerm creates or updates a term draft.
// POST /api/admin/governance/terms
func UpsertGovernanceTerm(c *gin.Context) {
	var req UpsertGovernanceTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	term, err := governanceService().UpsertTerm(req.Slug, req.Title, req.Body)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, term)
}

// PublishGovernanceTerm publishes a term, bumping its version.
// POST /api/admin/governance/terms/:slug/publish
func PublishGovernanceTerm(c *gin.Context) {
	term, err := governanceService().PublishTerm(c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, term)
}

// ListPublishedTerms lists published terms with the caller's acceptance state.
// GET /api/governance/terms
func ListPublishedTerms(c *gin.Context) {
	actor := middleware.Actor(c)
	service := governanceService()
	terms, err := service.ListTerms(false)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	type termView struct {
		Slug     string `json:"slug"`
		Title    string `json:"title"`
		Body     string `json:"body"`
		Version  int    `json:"version"`
		Accepted bool   `json:"accepted"`
	}
	views := make([]termView, 0, len(terms))
	for _, term := range terms {
		accepted, err := service.HasAccepted(actor.UUID, term.Slug)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		views = append(views, termView{
			Slug:     term.Slug,
			Title:    term.Title,
			Body:     term.Body,
			Version:  term.Version,
			Accepted: accepted,
		})
	}
	response.SuccessJSON(c, views)
}

// AcceptGovernanceTerm records the caller's acceptance of the current version.
// POST /api/governance/terms/:slug/accept
func AcceptGovernanceTerm(c *gin.Context) {
	actor := middleware.Actor(c)
	acceptance, err := governanceService().AcceptTerm(actor.UUID, c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, acceptance)
}
