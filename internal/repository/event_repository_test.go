package repository

import (
	"context"
	"testing"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewEventRepository(db)
	ctx := context.Background()

	starts := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, &model.Event{
		Title:    "Quiz Night",
		StartsAt: starts,
		Capacity: 40,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quiz Night", got.Title)
	assert.True(t, got.StartsAt.Equal(starts))
	assert.False(t, got.Canceled)
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewEventRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventRepository_SetCanceled(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewEventRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Event{
		Title:    "Live Music",
		StartsAt: time.Now().Add(48 * time.Hour),
		Capacity: 60,
	})
	require.NoError(t, err)

	t.Run("flips the flag", func(t *testing.T) {
		err := repo.SetCanceled(ctx, created.ID)
		assert.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Canceled)
	})

	t.Run("update does not resurrect a canceled event", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)

		got.Title = "Live Music (moved)"
		updated, err := repo.Update(ctx, got)
		require.NoError(t, err)
		assert.True(t, updated.Canceled)
	})

	t.Run("not found", func(t *testing.T) {
		err := repo.SetCanceled(ctx, 999)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewEventRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &model.Event{
			Title:    "Event",
			StartsAt: base.AddDate(0, 0, i),
			Capacity: 20,
		})
		require.NoError(t, err)
	}
	canceled, err := repo.Create(ctx, &model.Event{
		Title:    "Canceled Event",
		StartsAt: base.AddDate(0, 0, 3),
		Capacity: 20,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetCanceled(ctx, canceled.ID))

	t.Run("excludes canceled by default", func(t *testing.T) {
		events, total, err := repo.List(ctx, model.EventFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, events, 3)
	})

	t.Run("includes canceled on request", func(t *testing.T) {
		events, total, err := repo.List(ctx, model.EventFilter{IncludeCanceled: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, events, 4)
	})

	t.Run("date window", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		to := base.AddDate(0, 0, 2)
		events, total, err := repo.List(ctx, model.EventFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, events, 1)
		assert.True(t, events[0].StartsAt.Equal(from))
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.List(ctx, model.EventFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, events, 2)
	})
}

func TestEventRepository_Categories(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewEventRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Write(ctx).Create(&EventCategoryEntity{Name: "Tasting", DefaultCapacity: 25, DefaultStart: "18:30"}).Error)
	require.NoError(t, db.Write(ctx).Create(&EventCategoryEntity{Name: "Quiz Night", DefaultCapacity: 40, DefaultStart: "19:00"}).Error)

	t.Run("get category", func(t *testing.T) {
		cat, err := repo.GetCategory(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Tasting", cat.Name)
		assert.Equal(t, 25, cat.DefaultCapacity)
	})

	t.Run("category not found", func(t *testing.T) {
		_, err := repo.GetCategory(ctx, 999)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("list ordered by name", func(t *testing.T) {
		cats, err := repo.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 2)
		assert.Equal(t, "Quiz Night", cats[0].Name)
		assert.Equal(t, "Tasting", cats[1].Name)
	})
}
