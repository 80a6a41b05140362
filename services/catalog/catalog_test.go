package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cupbot/models"
	"cupbot/services/catalog"
	"cupbot/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()
	biz := testutil.NewBusinessBuilder().Build()
	lookup := catalog.NewLookup(testutil.NewBusinessRepo(biz))

	t.Run("empty id resolves to first business", func(t *testing.T) {
		b, err := lookup.Business(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, biz.ID, b.ID)
	})

	t.Run("missing business is distinct from missing service", func(t *testing.T) {
		_, err := lookup.FindService(ctx, "nope", "svc-cut")
		assert.ErrorIs(t, err, catalog.ErrBusinessNotFound)

		_, err = lookup.FindService(ctx, biz.ID, "nope")
		assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
		assert.False(t, errors.Is(err, catalog.ErrBusinessNotFound))
	})

	t.Run("finds menu items across categories", func(t *testing.T) {
		item, err := lookup.FindMenuItem(ctx, biz.ID, "item-c")
		require.NoError(t, err)
		assert.Equal(t, "Croissant", item.Name)
		assert.Equal(t, "Pastry", item.Category)

		_, err = lookup.FindMenuItem(ctx, biz.ID, "item-z")
		assert.ErrorIs(t, err, catalog.ErrItemNotFound)
	})

	t.Run("category lookup", func(t *testing.T) {
		cat, err := lookup.MenuCategoryAt(ctx, biz.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, "Coffee", cat.Name)
		assert.Len(t, cat.Items, 2)

		_, err = lookup.MenuCategoryAt(ctx, biz.ID, 2)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
		_, err = lookup.MenuCategoryAt(ctx, biz.ID, -1)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("working hours by weekday", func(t *testing.T) {
		h, err := lookup.WorkingHoursFor(ctx, biz.ID, time.Monday)
		require.NoError(t, err)
		assert.Equal(t, models.WorkingHours{Day: "Monday", Open: "09:00", Close: "17:00", IsOpen: true}, *h)

		h, err = lookup.WorkingHoursFor(ctx, biz.ID, time.Sunday)
		require.NoError(t, err)
		assert.False(t, h.IsOpen)
	})

	t.Run("no business at all", func(t *testing.T) {
		empty := catalog.NewLookup(testutil.NewBusinessRepo())
		_, err := empty.ListMenuCategories(ctx, "")
		assert.ErrorIs(t, err, catalog.ErrBusinessNotFound)
	})
}

func TestGroupServices(t *testing.T) {
	services := []models.Service{
		{ID: "1", Name: "Cut", Category: "Hair"},
		{ID: "2", Name: "Chat"},
		{ID: "3", Name: "Shave", Category: "Hair"},
	}

	got := catalog.GroupServices(services)

	want := []catalog.ServiceGroup{
		{Category: "Hair", Services: []models.Service{services[0], services[2]}},
		{Category: catalog.DefaultCategory, Services: []models.Service{services[1]}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupServices() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, catalog.Location(nil))

	b := testutil.NewBusinessBuilder().WithSettings(func(s *models.Settings) { s.TimeZone = "Not/AZone" }).Build()
	assert.Equal(t, time.UTC, catalog.Location(b))
}
