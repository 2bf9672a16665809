package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarquote/core/estimate"
	"solarquote/core/simulation"
	"solarquote/internal/errors"
	"solarquote/internal/logging"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleListPlans(c *gin.Context) {
	plans := s.store.Plans()
	out := make([]gin.H, 0, len(plans))
	for _, p := range plans {
		out = append(out, gin.H{
			"id":          p.ID(),
			"name":        p.Name(),
			"kind":        p.Kind(),
			"export_rate": p.ExportRate(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}

func (s *Server) handleListPanels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"panels": s.store.Panels()})
}

func (s *Server) handleListBatteries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"batteries": s.store.Batteries()})
}

func (s *Server) handleEstimate(c *gin.Context) {
	var req estimate.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.Input("invalid request body: "+err.Error()))
		return
	}

	resp, err := s.estimates.Run(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCommercial(c *gin.Context) {
	var req simulation.CommercialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.Input("invalid request body: "+err.Error()))
		return
	}

	res, err := simulation.Commercial(req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError maps the typed error taxonomy onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errType := errors.TypeInternal
	message := err.Error()

	if e, ok := err.(*errors.Error); ok {
		errType = e.Type
		message = e.Message
		switch e.Type {
		case errors.TypeInput, errors.TypeGeometry:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeExternal:
			status = http.StatusBadGateway
		}
	}

	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		logging.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Type:      string(errType),
		Message:   message,
		RequestID: requestID,
	})
}
