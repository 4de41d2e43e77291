package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current BookingStatus
		event   OrderEvent
		actor   OrderActor
		want    BookingStatus
		wantErr bool
	}{
		{"therapist accepts pending", BookingStatusPending, EventAccept, ActorTherapist, BookingStatusConfirmed, false},
		{"therapist rejects pending", BookingStatusPending, EventReject, ActorTherapist, BookingStatusCancelled, false},
		{"customer cancels pending", BookingStatusPending, EventCancel, ActorCustomer, BookingStatusCancelled, false},
		{"customer cancels confirmed", BookingStatusConfirmed, EventCancel, ActorCustomer, BookingStatusCancelled, false},
		{"therapist arrives", BookingStatusConfirmed, EventArrived, ActorTherapist, BookingStatusEnRoute, false},
		{"start from confirmed", BookingStatusConfirmed, EventStartService, ActorTherapist, BookingStatusInProgress, false},
		{"start from en_route", BookingStatusEnRoute, EventStartService, ActorTherapist, BookingStatusInProgress, false},
		{"complete in_progress", BookingStatusInProgress, EventCompleteService, ActorTherapist, BookingStatusCompleted, false},

		{"customer cancels en_route", BookingStatusEnRoute, EventCancel, ActorCustomer, "", true},
		{"customer cancels in_progress", BookingStatusInProgress, EventCancel, ActorCustomer, "", true},
		{"customer cancels completed", BookingStatusCompleted, EventCancel, ActorCustomer, "", true},
		{"therapist rejects confirmed", BookingStatusConfirmed, EventReject, ActorTherapist, "", true},
		{"accept already confirmed", BookingStatusConfirmed, EventAccept, ActorTherapist, "", true},
		{"complete from confirmed", BookingStatusConfirmed, EventCompleteService, ActorTherapist, "", true},
		{"arrive from pending", BookingStatusPending, EventArrived, ActorTherapist, "", true},
		{"customer cannot accept", BookingStatusPending, EventAccept, ActorCustomer, "", true},
		{"therapist cannot use customer cancel", BookingStatusPending, EventCancel, ActorTherapist, "", true},
		{"nothing from cancelled", BookingStatusCancelled, EventAccept, ActorTherapist, "", true},
		{"nothing from refunded", BookingStatusRefunded, EventStartService, ActorTherapist, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.current, tt.event, tt.actor)
			if tt.wantErr {
				require.Error(t, err)
				transErr, ok := err.(*InvalidTransitionError)
				require.True(t, ok, "error should be *InvalidTransitionError")
				assert.Equal(t, tt.current, transErr.Current)
				assert.Equal(t, tt.event, transErr.Event)
				// Booking must be left as-is on an illegal event
				assert.Equal(t, tt.current, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{Current: BookingStatusCompleted, Event: EventCancel}
	assert.Equal(t, "cannot apply cancel while booking is completed", err.Error())
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, BookingStatusPending.IsCancellable())
	assert.True(t, BookingStatusConfirmed.IsCancellable())
	assert.False(t, BookingStatusEnRoute.IsCancellable())
	assert.False(t, BookingStatusInProgress.IsCancellable())
	assert.False(t, BookingStatusCompleted.IsCancellable())
	assert.False(t, BookingStatusCancelled.IsCancellable())
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefunded} {
		assert.True(t, s.IsTerminal(), string(s))
	}
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusEnRoute, BookingStatusInProgress} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}
