package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kritsadaw/asklaw/internal/domain"
	"github.com/kritsadaw/asklaw/internal/repository"
)

// Handler handles admin API requests
type Handler struct {
	sessions *repository.SessionRepository
}

// NewHandler creates a new admin handler
func NewHandler(sessions *repository.SessionRepository) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sessions/:id", h.GetSession)
}

// GetSession returns a stored session transcript
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")

	session, err := h.sessions.GetSession(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return
	}

	messages, err := h.sessions.Messages(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  session,
		"messages": messages,
	})
}
