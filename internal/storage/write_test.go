package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perch/entity"
)

func TestInsertTimelineStatuses_StoresDenormalizedRows(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	target := testStatus("1", "a1")
	boost := testBoost("2", "a2", target)
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{boost}))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["statuses"], "boost and its target are independent rows")
	assert.Equal(t, int64(2), counts["accounts"], "both authors stored")
	assert.Equal(t, int64(1), counts["status_timelines"], "only the boost is on the timeline")
}

func TestInsertTimelineStatuses_Idempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	st := testStatus("10", "a1")
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{st}))
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{testStatus("10", "a1")}))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["statuses"])
	assert.Equal(t, int64(1), counts["status_timelines"])
}

func TestInsertTimelineStatuses_LastWriteWins(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	first := testStatus("10", "a1")
	first.Content = "<p>first</p>"
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{first}))

	second := testStatus("10", "a1")
	second.Content = "<p>second</p>"
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{second}))

	got, err := d.GetStatus(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "<p>second</p>", got.Content)
}

func TestInsertTimelineStatuses_MalformedItemFailsWholeBatch(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	batch := []*entity.Status{
		testStatus("1", "a1"),
		{ID: "2"}, // no account
		testStatus("3", "a1"),
	}
	require.Error(t, d.InsertTimelineStatuses(ctx, "home", batch))

	// Nothing from the batch was persisted.
	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["statuses"])
	assert.Equal(t, int64(0), counts["status_timelines"])
}

func TestInsertTimelineStatuses_SameStatusOnTwoTimelines(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{testStatus("5", "a1")}))
	require.NoError(t, d.InsertTimelineStatuses(ctx, "account/a1", []*entity.Status{testStatus("5", "a1")}))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["statuses"], "one entity row")
	assert.Equal(t, int64(2), counts["status_timelines"], "one entry per timeline")
}

func TestInsertTimelineNotifications_StoresChain(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	st := testStatus("7", "a1")
	n := testNotification("n1", "favourite", "a2", st)
	require.NoError(t, d.InsertTimelineNotifications(ctx, "notifications", []*entity.Notification{n}))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["notifications"])
	assert.Equal(t, int64(1), counts["statuses"])
	assert.Equal(t, int64(2), counts["accounts"], "notifier and status author")
	assert.Equal(t, int64(1), counts["notification_timelines"])
}

func TestInsertPinnedStatuses_WritesOneSlotPerStatus(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	statuses := []*entity.Status{
		testStatus("30", "a1"),
		testStatus("10", "a1"),
		testStatus("20", "a1"),
	}
	require.NoError(t, d.InsertPinnedStatuses(ctx, "a1", statuses))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["pinned_statuses"])
	assert.Equal(t, int64(3), counts["statuses"])
}

func TestInsertTimelineStatuses_ManyBatches(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 100; i++ {
		st := testStatus(fmt.Sprintf("%d", i), "a1")
		require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{st}))
	}

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), counts["statuses"])
	assert.Equal(t, int64(100), counts["status_timelines"])
}
