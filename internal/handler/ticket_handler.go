package handler

import (
	"errors"
	"go-event-ticketing/internal/service"
	apperrors "go-event-ticketing/pkg/app_errors"
	"go-event-ticketing/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketHandler struct {
	ticketService service.TicketService
	claimService  service.ClaimService
}

func NewTicketHandler(ticketService service.TicketService, claimService service.ClaimService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		claimService:  claimService,
	}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:id/tickets", h.Issue)
		router.GET("events/:id/tickets", h.ListByEvent)
		router.POST("tickets/:code/claim", h.Claim)
		router.GET("tickets/:code", h.Status)
	}
}

func (h *TicketHandler) Issue(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}
	ticket, err := h.ticketService.Issue(c, eventID)
	if err != nil {
		h.handleError(c, err, "Issue")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) ListByEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}
	tickets, err := h.ticketService.ListByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "ListByEvent")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Claim(c *gin.Context) {
	code, err := uuid.Parse(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket code"})
		return
	}
	ticket, err := h.claimService.Claim(c, code)
	if err != nil {
		h.handleError(c, err, "Claim")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Status(c *gin.Context) {
	code, err := uuid.Parse(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket code"})
		return
	}
	status, err := h.claimService.Status(c, code)
	if err != nil {
		h.handleError(c, err, "Status")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *TicketHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrCapacityExhausted):
		log.Warn("Capacity exhausted")
		c.JSON(http.StatusConflict, gin.H{"error": "No tickets available"})
	case errors.Is(err, apperrors.ErrAlreadyClaimed):
		log.Warn("Ticket already claimed")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket already claimed"})
	case errors.Is(err, apperrors.ErrOutOfWindow):
		log.Warn("Claim out of event window")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket cannot be claimed outside the event window"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
