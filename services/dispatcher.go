package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"massage-service-server/models"
	ws "massage-service-server/websocket"
)

// NotificationStore is the persistence surface the dispatcher needs.
type NotificationStore interface {
	Settings(therapistID uint) (*models.NotificationSettings, error)
	ActivePushToken(therapistID uint) (*models.PushToken, error)
	SaveNotification(n *models.Notification) error
}

// LiveChannel delivers to connected devices in real time.
type LiveChannel interface {
	IsOnline(therapistID uint) bool
	SendToTherapist(message *ws.OutboundMessage, therapistID uint) bool
}

// PushSender delivers to a registered device token.
type PushSender interface {
	Send(token, title, body string, data map[string]interface{}, sound, priority string) error
}

// DeliveryResult summarizes one dispatch.
type DeliveryResult struct {
	Success  bool     `json:"success"`
	Declined bool     `json:"declined"`
	SentVia  []string `json:"sent_via"`
	Errors   []string `json:"errors,omitempty"`
}

// Dispatcher routes notifications to therapists. Live delivery is preferred;
// push is the fallback, attempted only when live delivery was not attempted
// or did not reach any device. A Notification row is written for every
// dispatch except those declined by the therapist's settings.
type Dispatcher struct {
	store NotificationStore
	live  LiveChannel
	push  PushSender
}

func NewDispatcher(store NotificationStore, live LiveChannel, push PushSender) *Dispatcher {
	return &Dispatcher{store: store, live: live, push: push}
}

// Notify dispatches one notification to a therapist. Delivery failure is part
// of the result, not an error; the returned error covers persistence problems
// only.
func (d *Dispatcher) Notify(therapistID uint, typ models.NotificationType, title, body string, data map[string]interface{}, priority models.NotificationPriority) (*DeliveryResult, error) {
	settings, err := d.store.Settings(therapistID)
	if err != nil {
		log.Printf("⚠️ Failed to load notification settings for therapist %d, using defaults: %v", therapistID, err)
		settings = models.DefaultNotificationSettings(therapistID)
	}

	if !settings.CategoryEnabled(typ) {
		log.Printf("🔕 Notification %s declined by therapist %d settings", typ, therapistID)
		return &DeliveryResult{Declined: true}, nil
	}

	result := &DeliveryResult{}

	liveAttempted := false
	if d.live != nil && d.live.IsOnline(therapistID) {
		liveAttempted = true
		msg := &ws.OutboundMessage{
			Type: "notification",
			Notification: map[string]interface{}{
				"type":     typ,
				"title":    title,
				"body":     body,
				"data":     data,
				"priority": priority,
			},
			TherapistID: therapistID,
			Timestamp:   time.Now(),
		}
		if d.live.SendToTherapist(msg, therapistID) {
			result.SentVia = append(result.SentVia, models.ChannelWebsocket)
			log.Printf("✅ Live notification delivered to therapist %d", therapistID)
		} else {
			result.Errors = append(result.Errors, "websocket delivery failed")
			log.Printf("⚠️ Live delivery to therapist %d failed, falling back to push", therapistID)
		}
	}

	if !liveAttempted || len(result.SentVia) == 0 {
		d.sendPush(therapistID, typ, title, body, data, priority, settings, result)
	}

	n := d.buildRecord(therapistID, typ, title, body, data, priority, result)
	if err := d.store.SaveNotification(n); err != nil {
		log.Printf("❌ Failed to persist notification for therapist %d: %v", therapistID, err)
		return result, err
	}

	result.Success = len(result.SentVia) > 0
	return result, nil
}

func (d *Dispatcher) sendPush(therapistID uint, typ models.NotificationType, title, body string, data map[string]interface{}, priority models.NotificationPriority, settings *models.NotificationSettings, result *DeliveryResult) {
	token, err := d.store.ActivePushToken(therapistID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("push token lookup failed: %v", err))
		return
	}
	if token == nil {
		result.Errors = append(result.Errors, "no active push token")
		log.Printf("⚠️ Therapist %d is offline and has no push token", therapistID)
		return
	}

	sound := "default"
	if typ == models.NotificationNewOrder && settings.NewOrderSound != nil && *settings.NewOrderSound != "" {
		sound = *settings.NewOrderSound
	}
	if !settings.SoundEnabled {
		sound = ""
	}

	if err := d.push.Send(token.Token, title, body, data, sound, pushPriority(priority)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("push failed: %v", err))
		return
	}
	result.SentVia = append(result.SentVia, models.ChannelPush)
}

func (d *Dispatcher) buildRecord(therapistID uint, typ models.NotificationType, title, body string, data map[string]interface{}, priority models.NotificationPriority, result *DeliveryResult) *models.Notification {
	dataJSON, _ := json.Marshal(data)

	n := &models.Notification{
		TherapistID: therapistID,
		Type:        typ,
		Priority:    priority,
		Title:       title,
		Body:        body,
		Data:        string(dataJSON),
		Status:      models.NotificationStatusFailed,
	}
	if len(result.SentVia) > 0 {
		n.Status = models.NotificationStatusSent
		sentVia := strings.Join(result.SentVia, ",")
		n.SentVia = &sentVia
		now := time.Now()
		n.SentAt = &now
	}
	if len(result.Errors) > 0 {
		errMsg := strings.Join(result.Errors, "; ")
		n.ErrorMessage = &errMsg
	}
	return n
}

// pushPriority maps notification priority onto Expo's high/normal scheme
func pushPriority(p models.NotificationPriority) string {
	switch p {
	case models.PriorityHigh, models.PriorityUrgent:
		return "high"
	default:
		return "normal"
	}
}

// NotifyNewOrder tells a therapist a new booking is waiting for them.
func (d *Dispatcher) NotifyNewOrder(therapistID uint, booking *models.Booking, serviceName, customerName string) {
	data := map[string]interface{}{
		"type":          string(models.NotificationNewOrder),
		"booking_id":    booking.ID,
		"booking_no":    booking.BookingNo,
		"service_name":  serviceName,
		"customer_name": customerName,
		"booking_date":  booking.BookingDate.Format("2006-01-02"),
		"start_time":    booking.StartTime,
		"total_price":   booking.TotalPrice,
		"screen":        "OrderDetail",
	}
	title := "New order received"
	body := fmt.Sprintf("%s booked %s on %s at %s", customerName, serviceName, booking.BookingDate.Format("2006-01-02"), booking.StartTime)
	if _, err := d.Notify(therapistID, models.NotificationNewOrder, title, body, data, models.PriorityHigh); err != nil {
		log.Printf("❌ new_order dispatch failed for therapist %d: %v", therapistID, err)
	}
}

// NotifyOrderCancelled tells a therapist a customer cancelled.
func (d *Dispatcher) NotifyOrderCancelled(therapistID uint, booking *models.Booking, reason string) {
	data := map[string]interface{}{
		"type":          string(models.NotificationOrderCancelled),
		"booking_id":    booking.ID,
		"booking_no":    booking.BookingNo,
		"cancel_reason": reason,
		"screen":        "OrderDetail",
	}
	title := "Order cancelled"
	body := fmt.Sprintf("Booking %s was cancelled by the customer", booking.BookingNo)
	if _, err := d.Notify(therapistID, models.NotificationOrderCancelled, title, body, data, models.PriorityNormal); err != nil {
		log.Printf("❌ order_cancelled dispatch failed for therapist %d: %v", therapistID, err)
	}
}

// NotifyOrderCompleted confirms a completed service and its income.
func (d *Dispatcher) NotifyOrderCompleted(therapistID uint, booking *models.Booking) {
	data := map[string]interface{}{
		"type":       string(models.NotificationOrderCompleted),
		"booking_id": booking.ID,
		"booking_no": booking.BookingNo,
		"income":     booking.TotalPrice,
		"screen":     "OrderDetail",
	}
	title := "Service completed"
	body := fmt.Sprintf("Booking %s is complete. Income: %.2f", booking.BookingNo, booking.TotalPrice)
	if _, err := d.Notify(therapistID, models.NotificationOrderCompleted, title, body, data, models.PriorityNormal); err != nil {
		log.Printf("❌ order_completed dispatch failed for therapist %d: %v", therapistID, err)
	}
}
