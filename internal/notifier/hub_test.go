package notifier

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschof1/val-des-roses/internal/domain"
)

type fakeTimer struct {
	stopped bool
	fire    func()
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

// newTestHub returns a hub whose timers never fire on their own; the
// returned slice collects them so tests can fire or inspect them.
func newTestHub() (*Hub, *[]*fakeTimer) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	timers := &[]*fakeTimer{}
	h.after = func(d time.Duration, fn func()) timer {
		t := &fakeTimer{fire: fn}
		*timers = append(*timers, t)
		return t
	}
	return h, timers
}

func TestHub_Add_AssignsIDAndDefaultDuration(t *testing.T) {
	h, timers := newTestHub()

	n := h.Add(domain.Notification{
		Type:    domain.NotificationSuccess,
		Title:   "Added to cart",
		Message: "Heritage Rosa Damascena",
	})

	require.NotEmpty(t, n.ID)
	assert.Equal(t, domain.DefaultNotificationDuration, n.Duration)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Len(t, *timers, 1)

	list := h.List()
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
}

func TestHub_Add_PreservesInsertionOrder(t *testing.T) {
	h, _ := newTestHub()

	first := h.Info("one", "")
	second := h.Warning("two", "")
	third := h.Error("three", "")

	list := h.List()
	require.Len(t, list, 3)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, third.ID, list[2].ID)
}

func TestHub_TimerFire_RemovesNotification(t *testing.T) {
	h, timers := newTestHub()

	h.Success("Added to cart", "Gallica Officinalis")
	require.Len(t, *timers, 1)

	(*timers)[0].fire()

	assert.Empty(t, h.List())
}

func TestHub_Add_Persistent_SchedulesNoTimer(t *testing.T) {
	h, timers := newTestHub()

	h.Add(domain.Notification{
		Type:       domain.NotificationError,
		Title:      "Checkout unavailable",
		Persistent: true,
	})

	assert.Empty(t, *timers)
	assert.Len(t, h.List(), 1)
}

func TestHub_Remove_CancelsTimer(t *testing.T) {
	h, timers := newTestHub()

	n := h.Success("Added to cart", "")
	h.Remove(n.ID)

	assert.Empty(t, h.List())
	require.Len(t, *timers, 1)
	assert.True(t, (*timers)[0].stopped)
}

func TestHub_Remove_UnknownID_IsNoOp(t *testing.T) {
	h, _ := newTestHub()

	h.Success("kept", "")
	h.Remove("does-not-exist")

	assert.Len(t, h.List(), 1)
}

func TestHub_Clear_CancelsAllTimers(t *testing.T) {
	h, timers := newTestHub()

	h.Success("one", "")
	h.Info("two", "")
	h.Clear()

	assert.Empty(t, h.List())
	for _, ft := range *timers {
		assert.True(t, ft.stopped)
	}
}

func TestHub_TimerFireAfterClear_IsNoOp(t *testing.T) {
	h, timers := newTestHub()

	h.Success("one", "")
	h.Clear()

	require.Len(t, *timers, 1)
	(*timers)[0].fire()

	assert.Empty(t, h.List())
}

func TestHub_SuccessWithAction_CarriesAction(t *testing.T) {
	h, _ := newTestHub()

	n := h.SuccessWithAction("Added to cart", "Alba Maxima", &domain.NotificationAction{
		Label: "View cart",
		URL:   "/cart",
	})

	require.NotNil(t, n.Action)
	assert.Equal(t, "View cart", n.Action.Label)
	assert.Equal(t, "/cart", n.Action.URL)
}
