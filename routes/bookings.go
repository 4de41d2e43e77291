package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"massage-service-server/middleware"
	"massage-service-server/services"
)

// RegisterBookingRoutes registers the customer-facing booking routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("/preview-price", previewBookingPrice)
		bookings.POST("", createBooking)
		bookings.GET("", getMyBookings)
		bookings.GET("/:id", getBooking)
		bookings.POST("/:id/cancel", cancelBooking)
	}
}

type previewPriceRequest struct {
	TherapistID uint  `json:"therapist_id" binding:"required"`
	ServiceID   uint  `json:"service_id" binding:"required"`
	CouponID    *uint `json:"coupon_id"`
	PointsToUse int   `json:"points_to_use"`
}

func previewBookingPrice(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req previewPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := bookingSvc.PreviewPrice(user, req.TherapistID, req.ServiceID, req.CouponID, req.PointsToUse)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

type createBookingRequest struct {
	TherapistID uint    `json:"therapist_id" binding:"required"`
	ServiceID   uint    `json:"service_id" binding:"required"`
	AddressID   uint    `json:"address_id" binding:"required"`
	BookingDate string  `json:"booking_date" binding:"required"` // "2006-01-02"
	StartTime   string  `json:"start_time" binding:"required"`   // "14:00"
	CouponID    *uint   `json:"coupon_id"`
	PointsToUse int     `json:"points_to_use"`
	UserNote    *string `json:"user_note"`
}

func createBooking(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_date must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be HH:MM"})
		return
	}

	booking, err := bookingSvc.Create(user, services.CreateBookingInput{
		TherapistID: req.TherapistID,
		ServiceID:   req.ServiceID,
		AddressID:   req.AddressID,
		BookingDate: bookingDate,
		StartTime:   req.StartTime,
		CouponID:    req.CouponID,
		PointsToUse: req.PointsToUse,
		UserNote:    req.UserNote,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created",
		"booking": booking,
	})
}

func getMyBookings(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	page, pageSize := pagination(c)

	bookings, total, err := bookingSvc.List(user.ID, c.Query("status"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":  bookings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func getBooking(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := bookingSvc.Get(user.ID, uint(bookingID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type cancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func cancelBooking(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := bookingSvc.Cancel(user.ID, uint(bookingID), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled",
		"booking": booking,
	})
}
