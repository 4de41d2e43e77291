package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"massage-service-server/middleware"
	"massage-service-server/models"
	"massage-service-server/services"
)

// RegisterTherapistOrderRoutes registers the therapist order management routes
func RegisterTherapistOrderRoutes(router *gin.RouterGroup) {
	orders := router.Group("/therapist/orders")
	orders.Use(middleware.AuthMiddleware(), middleware.RequireTherapist())
	{
		orders.GET("", getTherapistOrders)
		orders.GET("/stats/summary", getTherapistOrderStats)
		orders.GET("/:id", getTherapistOrder)
		orders.POST("/:id/accept", acceptOrder)
		orders.POST("/:id/reject", rejectOrder)
		orders.POST("/:id/update-status", updateOrderStatus)
		orders.POST("/:id/checkin", checkInOrder)
	}
}

// currentTherapist resolves the therapist profile for the authenticated user
// and writes the error response itself when there is none.
func currentTherapist(c *gin.Context) (*models.Therapist, bool) {
	therapist, err := orderSvc.TherapistByUser(c.GetUint("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return therapist, true
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}

func getTherapistOrders(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	bookings, total, err := orderSvc.List(therapist.ID, services.OrderListFilter{
		Status:   c.Query("status"),
		Date:     c.Query("date"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    bookings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func getTherapistOrder(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}
	bookingID, ok := orderIDParam(c)
	if !ok {
		return
	}

	booking, err := orderSvc.Get(therapist.ID, bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": booking})
}

func acceptOrder(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}
	bookingID, ok := orderIDParam(c)
	if !ok {
		return
	}

	booking, err := orderSvc.Accept(therapist.ID, bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order accepted",
		"order":   booking,
	})
}

type rejectOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func rejectOrder(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}
	bookingID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req rejectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := orderSvc.Reject(therapist.ID, bookingID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order rejected",
		"order":   booking,
	})
}

type updateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note"`
}

func updateOrderStatus(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}
	bookingID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := orderSvc.UpdateStatus(therapist.ID, bookingID, models.BookingStatus(req.Status), req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   booking,
	})
}

type checkInRequest struct {
	CheckType string  `json:"check_type" binding:"required"` // arrived/start_service/complete_service
	Note      *string `json:"note"`
}

func checkInOrder(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}
	bookingID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.OrderEvent(req.CheckType)
	switch event {
	case models.EventArrived, models.EventStartService, models.EventCompleteService:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_type must be arrived, start_service or complete_service"})
		return
	}

	booking, err := orderSvc.CheckIn(therapist.ID, bookingID, event, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Check-in recorded",
		"order":   booking,
	})
}

func getTherapistOrderStats(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	stats, err := orderSvc.Stats(therapist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
