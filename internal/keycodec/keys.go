package keycodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator joins a timeline or account name with an encoded position.
// NUL sorts before every printable character, so "home" and "home/local"
// can never interleave in a scan.
const Separator = "\x00"

// RangeSentinel terminates an exclusive upper bound. U+FFFF sorts after
// every decimal digit.
const RangeSentinel = "￿"

// threadPrefix marks per-status thread timelines, which are stored in
// forward chronological order and always read in full.
const threadPrefix = "status/"

// IsThread reports whether a timeline is a single-status thread view.
func IsThread(timeline string) bool {
	return strings.HasPrefix(timeline, threadPrefix)
}

// PositionKey builds the timeline-entry key for an entity id.
// Thread timelines use the ascending encoding (chronological); all
// other timelines use the descending encoding so that an ascending scan
// yields most-recent-first.
func PositionKey(timeline, id string) (string, error) {
	var enc string
	var err error
	if IsThread(timeline) {
		enc, err = EncodeAscending(id)
	} else {
		enc, err = EncodeDescending(id)
	}
	if err != nil {
		return "", fmt.Errorf("position key for %q: %w", timeline, err)
	}
	return timeline + Separator + enc, nil
}

// TimelineRange returns the exclusive scan bounds for a timeline page.
// With maxID set, the lower bound is that id's position key, so the scan
// resumes strictly after the cursor. Both bounds are exclusive.
func TimelineRange(timeline, maxID string) (start, end string, err error) {
	start = timeline + Separator
	if maxID != "" {
		start, err = PositionKey(timeline, maxID)
		if err != nil {
			return "", "", fmt.Errorf("timeline range: %w", err)
		}
	}
	return start, timeline + Separator + RangeSentinel, nil
}

// PinnedKey builds the pinned-slot key for an account's ordinal position.
// Ordinals preserve explicit list order, not chronological order.
func PinnedKey(accountID string, ordinal int) (string, error) {
	enc, err := EncodeAscending(strconv.Itoa(ordinal))
	if err != nil {
		return "", fmt.Errorf("pinned key for %q: %w", accountID, err)
	}
	return accountID + Separator + enc, nil
}

// PinnedRange returns the exclusive scan bounds covering every pinned
// slot for an account.
func PinnedRange(accountID string) (start, end string) {
	return accountID + Separator, accountID + Separator + RangeSentinel
}
