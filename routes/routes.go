package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"massage-service-server/models"
	"massage-service-server/services"
	ws "massage-service-server/websocket"
)

// Route layer dependencies, wired once from main.
var (
	bookingSvc *services.BookingService
	orderSvc   *services.OrderService
	registry   *ws.Registry
)

// Setup injects the services the handlers depend on. Must run before any
// Register*Routes call.
func Setup(b *services.BookingService, o *services.OrderService, r *ws.Registry) {
	bookingSvc = b
	orderSvc = o
	registry = r
}

// respondServiceError maps service errors onto HTTP responses. Conflicts
// (lost slot race, illegal transition) are 409 so clients know to refresh
// their view rather than retry blindly.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case err == services.ErrSlotUnavailable:
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Slot unavailable",
			"message": "The selected time slot has just been booked. Please pick another one.",
		})
	case err == services.ErrBookingNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case err == services.ErrTherapistNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found or inactive"})
	case err == services.ErrServiceNotOffered:
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not offered by this therapist"})
	case err == services.ErrAddressNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
	case err == services.ErrCouponInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon cannot be used for this order"})
	case err == services.ErrInsufficientPoints:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough points"})
	case err == services.ErrTherapistProfile:
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
	default:
		if transErr, ok := err.(*models.InvalidTransitionError); ok {
			c.JSON(http.StatusConflict, gin.H{
				"error":          "Invalid status transition",
				"message":        transErr.Error(),
				"current_status": transErr.Current,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pagination pulls page/page_size query params with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page = intQuery(c, "page", 1)
	pageSize = intQuery(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
