package repository

import (
	"context"
	"testing"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmsMessageRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	bookingID := int64(10)
	created, err := repo.Create(ctx, &model.SmsMessage{
		BookingID: &bookingID,
		Direction: model.SmsDirectionOutbound,
		Type:      model.SmsTypeConfirmation,
		Recipient: "+447700900123",
		Body:      "Hi Sarah, your booking is confirmed",
		Status:    model.SmsStatusQueued,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.BookingID)
	assert.Equal(t, int64(10), *created.BookingID)
	assert.False(t, created.Archived)
}

func TestSmsMessageRepository_GetBySid(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.SmsMessage{
		Direction:  model.SmsDirectionOutbound,
		Type:       model.SmsTypeManual,
		Recipient:  "+447700900123",
		Body:       "hello",
		Status:     model.SmsStatusQueued,
		MessageSid: "SMabc123",
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := repo.GetBySid(ctx, "SMabc123")
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Body)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetBySid(ctx, "SMnope")
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestSmsMessageRepository_UpdateStatusBySid(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.SmsMessage{
		Direction:  model.SmsDirectionOutbound,
		Type:       model.SmsTypeConfirmation,
		Recipient:  "+447700900123",
		Body:       "hello",
		Status:     model.SmsStatusQueued,
		MessageSid: "SMstatus1",
	})
	require.NoError(t, err)

	t.Run("status transition", func(t *testing.T) {
		err := repo.UpdateStatusBySid(ctx, "SMstatus1", model.SmsStatusDelivered)
		assert.NoError(t, err)

		got, err := repo.GetBySid(ctx, "SMstatus1")
		require.NoError(t, err)
		assert.Equal(t, model.SmsStatusDelivered, got.Status)
	})

	t.Run("unknown sid", func(t *testing.T) {
		err := repo.UpdateStatusBySid(ctx, "SMmissing", model.SmsStatusDelivered)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestSmsMessageRepository_ArchiveByBooking(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	bookingID := int64(7)
	otherBooking := int64(8)

	for _, typ := range []model.SmsType{model.SmsTypeConfirmation, model.SmsTypeReminder7Day} {
		_, err := repo.Create(ctx, &model.SmsMessage{
			BookingID: &bookingID,
			Direction: model.SmsDirectionOutbound,
			Type:      typ,
			Recipient: "+447700900123",
			Body:      "msg",
			Status:    model.SmsStatusSent,
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &model.SmsMessage{
		BookingID: &otherBooking,
		Direction: model.SmsDirectionOutbound,
		Type:      model.SmsTypeConfirmation,
		Recipient: "+447700900456",
		Body:      "other",
		Status:    model.SmsStatusSent,
	})
	require.NoError(t, err)

	err = repo.ArchiveByBooking(ctx, bookingID)
	require.NoError(t, err)

	t.Run("archived records drop out of existence checks", func(t *testing.T) {
		exists, err := repo.ExistsForBooking(ctx, bookingID, model.SmsTypeConfirmation)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other bookings untouched", func(t *testing.T) {
		exists, err := repo.ExistsForBooking(ctx, otherBooking, model.SmsTypeConfirmation)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("records survive as audit rows", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.SmsFilter{BookingID: &bookingID, IncludeArchived: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, m := range messages {
			assert.True(t, m.Archived)
		}
	})
}

func TestSmsMessageRepository_ExistsForBooking(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	bookingID := int64(3)
	_, err := repo.Create(ctx, &model.SmsMessage{
		BookingID: &bookingID,
		Direction: model.SmsDirectionOutbound,
		Type:      model.SmsTypeReminder24Hr,
		Recipient: "+447700900123",
		Body:      "see you tomorrow",
		Status:    model.SmsStatusSent,
	})
	require.NoError(t, err)

	t.Run("exists for recorded type", func(t *testing.T) {
		exists, err := repo.ExistsForBooking(ctx, bookingID, model.SmsTypeReminder24Hr)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("other type does not count", func(t *testing.T) {
		exists, err := repo.ExistsForBooking(ctx, bookingID, model.SmsTypeReminder7Day)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("failed attempts still count", func(t *testing.T) {
		failedBooking := int64(4)
		_, err := repo.Create(ctx, &model.SmsMessage{
			BookingID: &failedBooking,
			Direction: model.SmsDirectionOutbound,
			Type:      model.SmsTypeReminder24Hr,
			Recipient: "+447700900123",
			Body:      "see you tomorrow",
			Status:    model.SmsStatusFailed,
		})
		require.NoError(t, err)

		exists, err := repo.ExistsForBooking(ctx, failedBooking, model.SmsTypeReminder24Hr)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestSmsMessageRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewSmsMessageRepository(db)
	ctx := context.Background()

	inbound := model.SmsDirectionInbound
	now := time.Now()

	seed := []*model.SmsMessage{
		{Direction: model.SmsDirectionOutbound, Type: model.SmsTypeConfirmation, Recipient: "+447700900001", Body: "a", Status: model.SmsStatusSent},
		{Direction: model.SmsDirectionOutbound, Type: model.SmsTypeReminder7Day, Recipient: "+447700900002", Body: "b", Status: model.SmsStatusFailed},
		{Direction: model.SmsDirectionInbound, Type: model.SmsTypeInbound, Recipient: "+447700900003", Body: "c", Status: model.SmsStatusReceived},
	}
	for _, m := range seed {
		_, err := repo.Create(ctx, m)
		require.NoError(t, err)
	}

	t.Run("filter by direction", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.SmsFilter{Direction: &inbound})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, messages, 1)
		assert.Equal(t, "c", messages[0].Body)
	})

	t.Run("filter by status", func(t *testing.T) {
		messages, total, err := repo.List(ctx, model.SmsFilter{Statuses: []model.SmsStatus{model.SmsStatusFailed}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, messages, 1)
		assert.Equal(t, model.SmsTypeReminder7Day, messages[0].Type)
	})

	t.Run("filter by type", func(t *testing.T) {
		_, total, err := repo.List(ctx, model.SmsFilter{Types: []model.SmsType{model.SmsTypeConfirmation, model.SmsTypeReminder7Day}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("future window is empty", func(t *testing.T) {
		from := now.Add(time.Hour)
		_, total, err := repo.List(ctx, model.SmsFilter{From: &from})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
