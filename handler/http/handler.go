// Package http exposes hybrid search over a small gin API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fusego/src/agent"
	"fusego/src/retrieval"
)

type Handler struct {
	vector       retrieval.VectorSearcher
	keyword      retrieval.KeywordSearcher
	registry     *agent.Registry
	defaultAlpha float64
	rrfK         int
}

func NewHandler(vector retrieval.VectorSearcher, keyword retrieval.KeywordSearcher, defaultAlpha float64, rrfK int) *Handler {
	h := &Handler{
		vector:       vector,
		keyword:      keyword,
		registry:     agent.NewRegistry(),
		defaultAlpha: defaultAlpha,
		rrfK:         rrfK,
	}

	hybrid, err := retrieval.NewHybrid(vector, keyword, defaultAlpha, rrfK)
	if err == nil {
		h.registry.Register(agent.NewHybridSearchTool(hybrid))
	}
	h.registry.Register(agent.NewVectorSearchTool(vector))
	h.registry.Register(agent.NewBM25SearchTool(keyword))

	return h
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.POST("/search", h.Search)
	v1.GET("/tools", h.ListTools)
	v1.POST("/tools/:name", h.CallTool)

	r.GET("/healthz", h.CheckHealth)
}

// ErrorResponse is the common error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// CheckHealth reports liveness.
func (h *Handler) CheckHealth(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
