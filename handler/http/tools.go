package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fusego/src/agent"
)

// toolInfo is the listing shape for one registered tool.
type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// ListTools returns the registered tools.
func (h *Handler) ListTools(c *gin.Context) {
	tools := h.registry.Tools()

	out := make([]toolInfo, len(tools))
	for i, tool := range tools {
		out[i] = toolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			Schema:      tool.Schema,
		}
	}
	sendJSON(c, http.StatusOK, out)
}

// CallTool dispatches one tool invocation. The request body is the tool's
// argument object as-is.
func (h *Handler) CallTool(c *gin.Context) {
	name := c.Param("name")

	args, err := io.ReadAll(c.Request.Body)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	result, err := h.registry.Dispatch(c.Request.Context(), agent.ToolCall{
		Name:      name,
		Arguments: string(args),
	})
	if err != nil {
		sendError(c, http.StatusBadRequest, "TOOL_ERROR", err)
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(result))
}
