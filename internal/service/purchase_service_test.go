package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestPurchaseService(delay time.Duration) (*PurchaseService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewPurchaseService(catalog.Default(), notifier, nil, delay)
	return svc, notifier
}

func TestCreateAndGetSession(t *testing.T) {
	svc, _ := newTestPurchaseService(0)

	sess := svc.CreateSession("airtime", "glo")
	got, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	snap := got.Snapshot()
	assert.Equal(t, models.ServiceAirtime, snap.Selection.Service)
	assert.Equal(t, "glo", snap.Selection.ProviderID)
	assert.Equal(t, FlowIdle, snap.Flow.State)
	assert.Equal(t, 1, svc.ActiveSessions())

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestSessionPurchaseRoundTrip(t *testing.T) {
	svc, notifier := newTestPurchaseService(5 * time.Millisecond)
	sess := svc.CreateSession("", "")

	_, err := sess.Update(func(m *SelectionMachine) error {
		if err := m.SetProduct("mtn-1gb"); err != nil {
			return err
		}
		m.SetRecipient("08031234567")
		m.SetSecret("1234")
		return nil
	})
	require.NoError(t, err)

	snap, err := sess.Submit()
	require.NoError(t, err)
	assert.Equal(t, FlowSubmitting, snap.Flow.State)

	_, err = sess.Update(func(m *SelectionMachine) error { return m.SetProvider("glo") })
	assert.ErrorIs(t, err, utils.ErrSubmissionInProgress)

	require.NoError(t, sess.Wait(waitCtx(t)))
	snap = sess.Snapshot()
	require.Equal(t, FlowSucceeded, snap.Flow.State)
	assert.Equal(t, "mtn", snap.Selection.ProviderID)
	assert.Len(t, notifier.records(), 1)

	snap, err = sess.Acknowledge()
	require.NoError(t, err)
	assert.Equal(t, FlowIdle, snap.Flow.State)
	assert.Empty(t, snap.Selection.ProductID)
}

func TestEndSessionAbandonsSubmission(t *testing.T) {
	svc, notifier := newTestPurchaseService(time.Hour)
	sess := svc.CreateSession("electricity", "ikeja")

	_, err := sess.Update(func(m *SelectionMachine) error {
		m.SetRecipient("45012345678")
		m.SetSecret("9999")
		return m.SetAmount("3000")
	})
	require.NoError(t, err)
	_, err = sess.Submit()
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(sess.ID))
	require.NoError(t, sess.Wait(waitCtx(t)))

	snap := sess.Snapshot()
	assert.Equal(t, FlowIdle, snap.Flow.State)
	assert.Empty(t, snap.Selection.Secret)
	assert.Empty(t, notifier.records())

	assert.ErrorIs(t, svc.EndSession(sess.ID), utils.ErrSessionNotFound)
	assert.Zero(t, svc.ActiveSessions())
}

func TestEvictIdle(t *testing.T) {
	svc, _ := newTestPurchaseService(0)
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now

	stale := svc.CreateSession("data", "")
	clock.now = clock.now.Add(20 * time.Minute)
	fresh := svc.CreateSession("tv", "")

	clock.now = clock.now.Add(15 * time.Minute)
	_, err := fresh.Update(func(m *SelectionMachine) error { return m.SetProduct("compact") })
	require.NoError(t, err)

	assert.Equal(t, 1, svc.EvictIdle(30*time.Minute))

	_, err = svc.Get(stale.ID)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
	_, err = svc.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestShutdownEndsAllSessions(t *testing.T) {
	svc, _ := newTestPurchaseService(0)
	svc.CreateSession("data", "")
	svc.CreateSession("tv", "")

	svc.Shutdown()
	assert.Zero(t, svc.ActiveSessions())
}
