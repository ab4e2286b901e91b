package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.POST("/drafts", h.saveDraft)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/post", h.postDraft)
		journals.POST("/:id/void", h.voidJournal)
	}
}

func (h *journalHandler) bindJournal(c *gin.Context) (dto.CreateJournalRequest, string, bool) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for journal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return req, "", false
	}
	userID, ok := requireUserID(c)
	return req, userID, ok
}

// postJournal godoc
// @Summary Post a journal entry
// @Description Validates and atomically posts a balanced journal entry, updating account balances
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Unbalanced, malformed or referencing unknown accounts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]interface{} "Concurrent update, retryable"
// @Failure 500 {object} map[string]string "Failed to post journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	req, userID, ok := h.bindJournal(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostJournal(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// saveDraft godoc
// @Summary Save a draft journal entry
// @Description Stores an entry without touching balances; balance is checked when it is posted
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Draft entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save draft"
// @Security BearerAuth
// @Router /journals/drafts [post]
func (h *journalHandler) saveDraft(c *gin.Context) {
	req, userID, ok := h.bindJournal(c)
	if !ok {
		return
	}

	entry, err := h.journalService.SaveDraft(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to save draft")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// postDraft godoc
// @Summary Post a draft
// @Description Runs full validation on a draft and posts it
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Draft does not validate"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Failure 500 {object} map[string]string "Failed to post draft"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostDraft(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to post draft")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// voidJournal godoc
// @Summary Void a posted journal entry
// @Description Posts the mirror entry, marks the original void and returns the reversing entry
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not posted"
// @Failure 500 {object} map[string]string "Failed to void journal"
// @Security BearerAuth
// @Router /journals/{id}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.VoidJournal(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to void journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// getJournal godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its items
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	entry, err := h.journalService.GetJournalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// listJournals godoc
// @Summary List journal entries
// @Description Lists journal entries newest first with token pagination
// @Tags journals
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   includeDrafts query bool false "Include draft entries"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid list journals query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}
