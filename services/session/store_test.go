package session_test

import (
	"context"
	"testing"
	"time"

	"cupbot/models"
	"cupbot/services/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreSuite runs the same contract against every Store implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() session.Store
	store    session.Store
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) TestGetUnknownUserReturnsIdle() {
	sess, err := s.store.Get(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal(int64(42), sess.UserID)
	s.Equal(models.StepIdle, sess.Step)
	s.Nil(sess.Booking)
	s.Nil(sess.Order)
}

func (s *StoreSuite) TestUpdateMergesStepAndKeepsDraft() {
	_, err := s.store.Update(s.ctx, 1, models.SessionPatch{
		Step:    stepPtr(models.StepBookingDate),
		Booking: &models.BookingDraft{ServiceID: "svc-1"},
	})
	s.Require().NoError(err)

	sess, err := s.store.Update(s.ctx, 1, models.StepPatch(models.StepBookingTime))
	s.Require().NoError(err)
	s.Equal(models.StepBookingTime, sess.Step)
	s.Require().NotNil(sess.Booking)
	s.Equal("svc-1", sess.Booking.ServiceID)
}

func (s *StoreSuite) TestDraftsAreReplacedWholesale() {
	order := &models.OrderDraft{}
	order.Add("a", "Latte", 2, 3.5)
	_, err := s.store.Update(s.ctx, 1, models.SessionPatch{Order: order})
	s.Require().NoError(err)

	_, err = s.store.Update(s.ctx, 1, models.SessionPatch{Order: &models.OrderDraft{}})
	s.Require().NoError(err)

	sess, err := s.store.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(sess.Order)
	s.Empty(sess.Order.Items)
	s.Zero(sess.Order.Total)
}

func (s *StoreSuite) TestStartingOneFlowDropsTheOther() {
	order := &models.OrderDraft{}
	order.Add("a", "Latte", 1, 3.5)
	_, err := s.store.Update(s.ctx, 1, models.SessionPatch{Step: stepPtr(models.StepOrderCart), Order: order})
	s.Require().NoError(err)

	sess, err := s.store.Update(s.ctx, 1, models.SessionPatch{
		Step:    stepPtr(models.StepBookingService),
		Booking: &models.BookingDraft{},
	})
	s.Require().NoError(err)
	s.Nil(sess.Order)
	s.NotNil(sess.Booking)
}

func (s *StoreSuite) TestClearResetsToIdle() {
	_, err := s.store.Update(s.ctx, 7, models.SessionPatch{
		Step:    stepPtr(models.StepBookingTime),
		Booking: &models.BookingDraft{ServiceID: "x", Date: "2025-01-06"},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Clear(s.ctx, 7))

	sess, err := s.store.Get(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(models.StepIdle, sess.Step)
	s.Nil(sess.Booking)
}

func (s *StoreSuite) TestReturnedSessionIsACopy() {
	_, err := s.store.Update(s.ctx, 3, models.SessionPatch{Booking: &models.BookingDraft{ServiceID: "x"}})
	s.Require().NoError(err)

	sess, err := s.store.Get(s.ctx, 3)
	s.Require().NoError(err)
	sess.Booking.ServiceID = "mutated"

	again, err := s.store.Get(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal("x", again.Booking.ServiceID)
}

func stepPtr(s models.Step) *models.Step { return &s }

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() session.Store { return session.NewMemoryStore() }})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreSuite{newStore: func() session.Store {
		mr.FlushAll()
		return session.NewRedisStore(client, time.Minute)
	}})
}

func TestRedisStoreExpiresIdleSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(client, time.Minute)
	ctx := context.Background()

	_, err := store.Update(ctx, 9, models.StepPatch(models.StepOrderCategory))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	sess, err := store.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, models.StepIdle, sess.Step)
}
