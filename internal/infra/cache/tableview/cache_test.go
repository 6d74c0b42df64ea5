package tableview

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

func TestKeys(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	window := domain.MustTimeWindow(start, start.Add(24*time.Hour))

	assert.Equal(t, "smc:tableview:15", TableKey(15))
	assert.Equal(t, "smc:tableview:ver:15", VersionKey(15))
	assert.Equal(t, "1772323200-1772409600", RangeField(window))
}

func TestEncodeDecodeView(t *testing.T) {
	seated := time.Date(2026, 3, 1, 18, 5, 0, 0, time.UTC)
	view := &domain.TableView{
		Table: domain.OutletTable{ID: 5, OutletID: 1, Name: "T5", MinPax: 2, MaxPax: 4},
		Bookings: []*domain.TableBooking{{
			ID:               9,
			TableID:          5,
			BookingStartTime: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
			BookingEndTime:   time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
			Status:           domain.StatusSeated,
			SeatStartTime:    &seated,
			IsActive:         true,
		}},
	}

	raw, err := encodeView(view)
	require.NoError(t, err)

	got, err := decodeView(raw)
	require.NoError(t, err)
	assert.Equal(t, "T5", got.Table.Name)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, domain.StatusSeated, got.Bookings[0].Status)
	require.NotNil(t, got.Bookings[0].SeatStartTime)
	assert.True(t, seated.Equal(*got.Bookings[0].SeatStartTime))
	assert.Nil(t, got.Bookings[0].SeatEndTime)
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(nil, time.Minute)
	window := domain.MustTimeWindow(time.Unix(0, 0), time.Unix(3600, 0))

	assert.False(t, c.Enabled())

	view, version, hit, err := c.Get(ctx, 1, window)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, view)
	assert.Zero(t, version)

	stored, err := c.Set(ctx, &domain.TableView{Table: domain.OutletTable{ID: 1}}, window, version)
	assert.NoError(t, err)
	assert.False(t, stored)
	assert.NoError(t, c.Invalidate(ctx, 1, 2))
}

// redisCache подключается к Redis из SMC_TEST_REDIS_ADDR и пропускает тест без него
func redisCache(t *testing.T) (*Cache, *redis.Client) {
	t.Helper()
	addr := os.Getenv("SMC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SMC_TEST_REDIS_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return New(client, time.Minute), client
}

func TestCache_SetAfterInvalidateIsSkipped(t *testing.T) {
	c, client := redisCache(t)
	ctx := context.Background()
	const tableID = int64(990001)
	t.Cleanup(func() { client.Del(ctx, TableKey(tableID), VersionKey(tableID)) })

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	window := domain.MustTimeWindow(start, start.Add(24*time.Hour))
	stale := &domain.TableView{Table: domain.OutletTable{ID: tableID, Name: "before"}}
	fresh := &domain.TableView{Table: domain.OutletTable{ID: tableID, Name: "after"}}

	// чтение промахнулось, схема строится по старым данным
	_, version, hit, err := c.Get(ctx, tableID, window)
	require.NoError(t, err)
	require.False(t, hit)

	// тем временем бронирование закоммичено и стол инвалидирован
	require.NoError(t, c.Invalidate(ctx, tableID))

	stored, err := c.Set(ctx, stale, window, version)
	require.NoError(t, err)
	assert.False(t, stored)

	_, version, hit, err = c.Get(ctx, tableID, window)
	require.NoError(t, err)
	assert.False(t, hit)

	stored, err = c.Set(ctx, fresh, window, version)
	require.NoError(t, err)
	assert.True(t, stored)

	got, _, hit, err := c.Get(ctx, tableID, window)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "after", got.Table.Name)
}
