package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"massage-service-server/database"
	"massage-service-server/middleware"
	"massage-service-server/models"
)

// RegisterNotificationRoutes registers the therapist notification routes
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(), middleware.RequireTherapist())
	{
		notifications.POST("/push-token", registerPushToken)
		notifications.GET("", getNotifications)
		notifications.PUT("/:id/read", markNotificationRead)
		notifications.PUT("/read-all", markAllNotificationsRead)
		notifications.GET("/settings", getNotificationSettings)
		notifications.PUT("/settings", updateNotificationSettings)
		notifications.GET("/debug/online-therapists", getOnlineTherapists)
	}
}

type pushTokenRequest struct {
	Token      string  `json:"token" binding:"required"`
	Platform   string  `json:"platform" binding:"required"` // ios/android/web
	DeviceID   *string `json:"device_id"`
	DeviceName *string `json:"device_name"`
	AppVersion *string `json:"app_version"`
}

// registerPushToken stores or replaces the therapist's device token. One
// active token per therapist; registering from a new device takes over.
func registerPushToken(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := models.PushToken{
		TherapistID: therapist.ID,
		Token:       req.Token,
		Platform:    req.Platform,
		DeviceID:    req.DeviceID,
		DeviceName:  req.DeviceName,
		AppVersion:  req.AppVersion,
		IsActive:    true,
	}

	err := database.DB.
		Where(models.PushToken{TherapistID: therapist.ID}).
		Assign(map[string]interface{}{
			"token":       req.Token,
			"platform":    req.Platform,
			"device_id":   req.DeviceID,
			"device_name": req.DeviceName,
			"app_version": req.AppVersion,
			"is_active":   true,
		}).
		FirstOrCreate(&token).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save push token"})
		return
	}

	log.Printf("📱 Push token registered for therapist %d (%s)", therapist.ID, req.Platform)
	c.JSON(http.StatusOK, gin.H{"message": "Push token registered"})
}

func getNotifications(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	query := database.DB.Model(&models.Notification{}).Where("therapist_id = ?", therapist.ID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).
		Where("therapist_id = ? AND read_at IS NULL", therapist.ID).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unreadCount,
		"page":          page,
		"page_size":     pageSize,
	})
}

func markNotificationRead(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	now := time.Now()
	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND therapist_id = ?", notificationID, therapist.ID).
		Updates(map[string]interface{}{
			"read_at": now,
			"status":  models.NotificationStatusRead,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	now := time.Now()
	res := database.DB.Model(&models.Notification{}).
		Where("therapist_id = ? AND read_at IS NULL", therapist.ID).
		Updates(map[string]interface{}{
			"read_at": now,
			"status":  models.NotificationStatusRead,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": res.RowsAffected,
	})
}

func getNotificationSettings(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	var settings models.NotificationSettings
	err := database.DB.Where("therapist_id = ?", therapist.ID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		defaults := models.DefaultNotificationSettings(therapist.ID)
		if err := database.DB.Create(defaults).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": defaults})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type notificationSettingsRequest struct {
	NotificationsEnabled *bool `json:"notifications_enabled"`
	SoundEnabled         *bool `json:"sound_enabled"`
	VibrationEnabled     *bool `json:"vibration_enabled"`

	NewOrderEnabled       *bool `json:"new_order_enabled"`
	OrderCancelledEnabled *bool `json:"order_cancelled_enabled"`
	OrderCompletedEnabled *bool `json:"order_completed_enabled"`
	SystemMessageEnabled  *bool `json:"system_message_enabled"`

	NewOrderSound            *string `json:"new_order_sound"`
	NewOrderVibrationPattern *string `json:"new_order_vibration_pattern"`
	DoNotDisturbPeriods      *string `json:"do_not_disturb_periods"`
}

func updateNotificationSettings(c *gin.Context) {
	therapist, ok := currentTherapist(c)
	if !ok {
		return
	}

	var req notificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var settings models.NotificationSettings
	err := database.DB.Where("therapist_id = ?", therapist.ID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = *models.DefaultNotificationSettings(therapist.ID)
		if err := database.DB.Create(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	updates := map[string]interface{}{}
	if req.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *req.NotificationsEnabled
	}
	if req.SoundEnabled != nil {
		updates["sound_enabled"] = *req.SoundEnabled
	}
	if req.VibrationEnabled != nil {
		updates["vibration_enabled"] = *req.VibrationEnabled
	}
	if req.NewOrderEnabled != nil {
		updates["new_order_enabled"] = *req.NewOrderEnabled
	}
	if req.OrderCancelledEnabled != nil {
		updates["order_cancelled_enabled"] = *req.OrderCancelledEnabled
	}
	if req.OrderCompletedEnabled != nil {
		updates["order_completed_enabled"] = *req.OrderCompletedEnabled
	}
	if req.SystemMessageEnabled != nil {
		updates["system_message_enabled"] = *req.SystemMessageEnabled
	}
	if req.NewOrderSound != nil {
		updates["new_order_sound"] = *req.NewOrderSound
	}
	if req.NewOrderVibrationPattern != nil {
		updates["new_order_vibration_pattern"] = *req.NewOrderVibrationPattern
	}
	if req.DoNotDisturbPeriods != nil {
		updates["do_not_disturb_periods"] = *req.DoNotDisturbPeriods
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&settings).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	database.DB.Where("therapist_id = ?", therapist.ID).First(&settings)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated",
		"settings": settings,
	})
}

// getOnlineTherapists reports who currently holds a live connection. Debug
// surface for operations.
func getOnlineTherapists(c *gin.Context) {
	ids := registry.OnlineTherapists()

	sessions := make(map[uint]int, len(ids))
	for _, id := range ids {
		sessions[id] = registry.SessionCount(id)
	}

	c.JSON(http.StatusOK, gin.H{
		"online_count": len(ids),
		"therapists":   ids,
		"sessions":     sessions,
	})
}
