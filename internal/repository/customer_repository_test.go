package repository

import (
	"context"
	"testing"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Customer{
		FirstName: "Sarah",
		LastName:  "Jones",
		Mobile:    "+447700900123",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", got.FirstName)
	assert.Equal(t, "+447700900123", got.Mobile)
}

func TestCustomerRepository_GetByID(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerRepository_GetByMobile(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Customer{
		FirstName: "Tom",
		Mobile:    "+447700900456",
	})
	require.NoError(t, err)

	t.Run("found by normalized number", func(t *testing.T) {
		got, err := repo.GetByMobile(ctx, "+447700900456")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := repo.GetByMobile(ctx, "+447700900999")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Customer{
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	t.Run("successful update", func(t *testing.T) {
		created.LastName = "Brown"
		created.Mobile = "+447700900777"
		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "Brown", updated.LastName)
		assert.Equal(t, "+447700900777", updated.Mobile)
	})

	t.Run("clearing a field persists", func(t *testing.T) {
		created.Mobile = ""
		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Empty(t, updated.Mobile)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Update(ctx, &model.Customer{ID: 999, FirstName: "Ghost"})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Customer{FirstName: "Eve"})
		require.NoError(t, err)

		err = repo.Delete(ctx, created.ID)
		assert.NoError(t, err)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("blocked when bookings exist", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Customer{FirstName: "Booked"})
		require.NoError(t, err)

		event := &EventEntity{Title: "Quiz Night", StartsAt: time.Now().Add(24 * time.Hour), Capacity: 40}
		require.NoError(t, db.Write(ctx).Create(event).Error)

		booking := &BookingEntity{CustomerID: created.ID, EventID: event.ID, Seats: 2}
		require.NoError(t, db.Write(ctx).Create(booking).Error)

		err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, ErrCustomerHasBookings)

		_, err = repo.GetByID(ctx, created.ID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		err := repo.Delete(ctx, 999)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	names := [][2]string{
		{"Zoe", "Adams"},
		{"Amy", "Clark"},
		{"Ben", "Adams"},
	}
	for _, n := range names {
		_, err := repo.Create(ctx, &model.Customer{FirstName: n[0], LastName: n[1]})
		require.NoError(t, err)
	}

	customers, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, customers, 3)

	// ordered by last name then first name
	assert.Equal(t, "Ben", customers[0].FirstName)
	assert.Equal(t, "Zoe", customers[1].FirstName)
	assert.Equal(t, "Amy", customers[2].FirstName)
}
