package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusego/src/retrieval"
)

const defaultTopK = 5

type searchRequest struct {
	Query string   `json:"query" binding:"required"`
	TopK  int      `json:"top_k"`
	Alpha *float64 `json:"alpha"` // nil means the configured default
}

type searchResponse struct {
	Query   string             `json:"query"`
	Alpha   float64            `json:"alpha"`
	Results []retrieval.Result `json:"results"`
}

// Search fuses dense and keyword rankings for the request's query. Alpha can
// be overridden per request, so each call builds its own fusion.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}
	alpha := h.defaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	hybrid, err := retrieval.NewHybrid(h.vector, h.keyword, alpha, h.rrfK)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	results, err := hybrid.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	if results == nil {
		results = []retrieval.Result{}
	}

	sendJSON(c, http.StatusOK, searchResponse{
		Query:   req.Query,
		Alpha:   alpha,
		Results: results,
	})
}
