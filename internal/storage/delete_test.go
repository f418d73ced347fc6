package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perch/entity"
)

func TestDeleteCascade_RemovesEveryReference(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	st := testStatus("7", "a1")
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{testStatus("7", "a1")}))
	require.NoError(t, d.InsertTimelineStatuses(ctx, "account/a1", []*entity.Status{testStatus("7", "a1")}))
	require.NoError(t, d.InsertPinnedStatuses(ctx, "a1", []*entity.Status{st}))

	require.NoError(t, d.DeleteStatusesAndNotifications(ctx, []string{"7"}, nil))

	_, err := d.GetStatus(ctx, "7")
	assert.True(t, errors.Is(err, ErrNotFound))

	for _, timeline := range []string{"home", "account/a1"} {
		statuses, err := d.GetStatusTimeline(ctx, timeline, "", 20)
		require.NoError(t, err)
		assert.Empty(t, statuses, "timeline %q still references the deleted status", timeline)
	}

	pinned, err := d.GetPinnedStatuses(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, pinned)

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["status_timelines"], "no orphaned timeline entries")
	assert.Equal(t, int64(0), counts["pinned_statuses"], "no orphaned pinned slots")
}

func TestDeleteCascade_NotificationSide(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertTimelineNotifications(ctx, "notifications", []*entity.Notification{
		testNotification("n1", "mention", "a2", testStatus("7", "a1")),
		testNotification("n2", "follow", "a3", nil),
	}))

	require.NoError(t, d.DeleteStatusesAndNotifications(ctx, nil, []string{"n1"}))

	_, err := d.GetNotification(ctx, "n1")
	assert.True(t, errors.Is(err, ErrNotFound))

	notifications, err := d.GetNotificationTimeline(ctx, "notifications", "", 20)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "n2", notifications[0].ID)
}

func TestDeleteCascade_LeavesDependentReblogs(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	target := testStatus("1", "a1")
	boost := testBoost("2", "a2", target)
	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{boost}))

	require.NoError(t, d.DeleteStatusesAndNotifications(ctx, []string{"1"}, nil))

	// The boost stays; only its target is gone. Accepted trade-off:
	// no reverse cascade through reblog_id.
	got, err := d.GetStatus(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, got.Reblog)

	statuses, err := d.GetStatusTimeline(ctx, "home", "", 20)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "2", statuses[0].ID)
}

func TestDeleteCascade_UnpinnedStatusIsNotAnError(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{testStatus("7", "a1")}))

	// No pinned slot exists for "7"; the cascade must not fail on that.
	require.NoError(t, d.DeleteStatusesAndNotifications(ctx, []string{"7"}, nil))
}

func TestDeleteCascade_MixedBatchIsAtomic(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, d.InsertTimelineStatuses(ctx, "home", []*entity.Status{
		testStatus("1", "a1"),
		testStatus("2", "a1"),
	}))
	require.NoError(t, d.InsertTimelineNotifications(ctx, "notifications", []*entity.Notification{
		testNotification("n1", "mention", "a2", testStatus("1", "a1")),
	}))

	require.NoError(t, d.DeleteStatusesAndNotifications(ctx, []string{"1", "2"}, []string{"n1"}))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["statuses"])
	assert.Equal(t, int64(0), counts["notifications"])
	assert.Equal(t, int64(0), counts["status_timelines"])
	assert.Equal(t, int64(0), counts["notification_timelines"])
}

func TestDelete_MissingIDsAreNoOps(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.DeleteStatusesAndNotifications(context.Background(), []string{"nope"}, []string{"also-nope"}))
}
