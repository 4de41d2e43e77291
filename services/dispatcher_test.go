package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massage-service-server/models"
	ws "massage-service-server/websocket"
)

type fakeStore struct {
	settings    *models.NotificationSettings
	token       *models.PushToken
	saved       []*models.Notification
	saveErr     error
	tokenErr    error
	settingsErr error
}

func (f *fakeStore) Settings(therapistID uint) (*models.NotificationSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	if f.settings != nil {
		return f.settings, nil
	}
	return models.DefaultNotificationSettings(therapistID), nil
}

func (f *fakeStore) ActivePushToken(therapistID uint) (*models.PushToken, error) {
	return f.token, f.tokenErr
}

func (f *fakeStore) SaveNotification(n *models.Notification) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, n)
	return nil
}

type fakeLive struct {
	online    bool
	delivered bool
	sent      []*ws.OutboundMessage
}

func (f *fakeLive) IsOnline(therapistID uint) bool { return f.online }

func (f *fakeLive) SendToTherapist(message *ws.OutboundMessage, therapistID uint) bool {
	f.sent = append(f.sent, message)
	return f.delivered
}

type fakePush struct {
	err   error
	calls int
	token string
	sound string
}

func (f *fakePush) Send(token, title, body string, data map[string]interface{}, sound, priority string) error {
	f.calls++
	f.token = token
	f.sound = sound
	return f.err
}

func activeToken() *models.PushToken {
	return &models.PushToken{TherapistID: 7, Token: "ExponentPushToken[abc]", Platform: "ios", IsActive: true}
}

func TestNotifyDeclinedBySettingsWritesNoRow(t *testing.T) {
	settings := models.DefaultNotificationSettings(7)
	settings.NewOrderEnabled = false

	store := &fakeStore{settings: settings, token: activeToken()}
	live := &fakeLive{online: true, delivered: true}
	push := &fakePush{}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "t", "b", nil, models.PriorityHigh)
	require.NoError(t, err)

	assert.True(t, result.Declined)
	assert.False(t, result.Success)
	assert.Empty(t, store.saved, "declined dispatch must not persist a row")
	assert.Empty(t, live.sent)
	assert.Zero(t, push.calls)
}

func TestNotifyGlobalSwitchDisablesEverything(t *testing.T) {
	settings := models.DefaultNotificationSettings(7)
	settings.NotificationsEnabled = false

	store := &fakeStore{settings: settings}
	d := NewDispatcher(store, &fakeLive{online: true, delivered: true}, &fakePush{})

	result, err := d.Notify(7, models.NotificationSystemMessage, "t", "b", nil, models.PriorityNormal)
	require.NoError(t, err)
	assert.True(t, result.Declined)
	assert.Empty(t, store.saved)
}

func TestNotifyLiveSuccessSkipsPush(t *testing.T) {
	store := &fakeStore{token: activeToken()}
	live := &fakeLive{online: true, delivered: true}
	push := &fakePush{}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "New order", "body", map[string]interface{}{"booking_id": 1}, models.PriorityHigh)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{models.ChannelWebsocket}, result.SentVia)
	assert.Zero(t, push.calls, "push must not fire when live delivery succeeded")

	require.Len(t, store.saved, 1)
	row := store.saved[0]
	assert.Equal(t, models.NotificationStatusSent, row.Status)
	require.NotNil(t, row.SentVia)
	assert.Equal(t, "websocket", *row.SentVia)
	assert.NotNil(t, row.SentAt)
	assert.Nil(t, row.ErrorMessage)
}

func TestNotifyOfflineFallsBackToPush(t *testing.T) {
	store := &fakeStore{token: activeToken()}
	live := &fakeLive{online: false}
	push := &fakePush{}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "New order", "body", nil, models.PriorityHigh)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{models.ChannelPush}, result.SentVia)
	assert.Equal(t, 1, push.calls)
	assert.Empty(t, live.sent)

	require.Len(t, store.saved, 1)
	require.NotNil(t, store.saved[0].SentVia)
	assert.Equal(t, "push", *store.saved[0].SentVia)
}

func TestNotifyLiveFailureFallsBackToPush(t *testing.T) {
	store := &fakeStore{token: activeToken()}
	live := &fakeLive{online: true, delivered: false}
	push := &fakePush{}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "New order", "body", nil, models.PriorityHigh)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{models.ChannelPush}, result.SentVia)
	assert.Equal(t, 1, push.calls)

	require.Len(t, store.saved, 1)
	row := store.saved[0]
	assert.Equal(t, models.NotificationStatusSent, row.Status)
	require.NotNil(t, row.ErrorMessage, "the failed live attempt should be recorded")
}

func TestNotifyOfflineWithoutTokenFails(t *testing.T) {
	store := &fakeStore{token: nil}
	live := &fakeLive{online: false}
	push := &fakePush{}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "New order", "body", nil, models.PriorityHigh)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.SentVia)
	assert.Zero(t, push.calls)

	require.Len(t, store.saved, 1)
	row := store.saved[0]
	assert.Equal(t, models.NotificationStatusFailed, row.Status)
	assert.Nil(t, row.SentVia)
	assert.Nil(t, row.SentAt)
	require.NotNil(t, row.ErrorMessage)
}

func TestNotifyPushErrorRecorded(t *testing.T) {
	store := &fakeStore{token: activeToken()}
	live := &fakeLive{online: false}
	push := &fakePush{err: errors.New("expo push failed: 502 Bad Gateway")}
	d := NewDispatcher(store, live, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "New order", "body", nil, models.PriorityHigh)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, store.saved, 1)
	assert.Equal(t, models.NotificationStatusFailed, store.saved[0].Status)
}

func TestNotifyUsesCustomNewOrderSound(t *testing.T) {
	settings := models.DefaultNotificationSettings(7)
	custom := "ding"
	settings.NewOrderSound = &custom

	store := &fakeStore{settings: settings, token: activeToken()}
	push := &fakePush{}
	d := NewDispatcher(store, &fakeLive{online: false}, push)

	_, err := d.Notify(7, models.NotificationNewOrder, "t", "b", nil, models.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, "ding", push.sound)
}

func TestNotifySettingsErrorFallsBackToDefaults(t *testing.T) {
	store := &fakeStore{settingsErr: errors.New("db down"), token: activeToken()}
	push := &fakePush{}
	d := NewDispatcher(store, &fakeLive{online: false}, push)

	result, err := d.Notify(7, models.NotificationNewOrder, "t", "b", nil, models.PriorityHigh)
	require.NoError(t, err)
	assert.False(t, result.Declined)
	assert.Equal(t, 1, push.calls)
}
