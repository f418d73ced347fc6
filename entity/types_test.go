package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValidate(t *testing.T) {
	ok := &Status{ID: "1", Account: &Account{ID: "a1"}}
	require.NoError(t, ok.Validate())

	assert.Error(t, (&Status{Account: &Account{ID: "a1"}}).Validate(), "missing id")
	assert.Error(t, (&Status{ID: "1"}).Validate(), "missing account")

	reblog := &Status{
		ID:      "2",
		Account: &Account{ID: "a1"},
		Reblog:  &Status{ID: "1"}, // reblog target without an account
	}
	assert.Error(t, reblog.Validate())
}

func TestNotificationValidate(t *testing.T) {
	ok := &Notification{ID: "n1", Type: "follow", Account: &Account{ID: "a1"}}
	require.NoError(t, ok.Validate())

	assert.Error(t, (&Notification{ID: "n1"}).Validate(), "missing account")

	withBadStatus := &Notification{
		ID:      "n2",
		Account: &Account{ID: "a1"},
		Status:  &Status{ID: "1"},
	}
	assert.Error(t, withBadStatus.Validate())
}

func TestStatusShallow_DetachesNestedEntities(t *testing.T) {
	s := &Status{
		ID:      "1",
		Content: "hello",
		Account: &Account{ID: "a1"},
		Reblog:  &Status{ID: "2", Account: &Account{ID: "a2"}},
	}

	shallow := s.Shallow()
	assert.Nil(t, shallow.Account)
	assert.Nil(t, shallow.Reblog)
	assert.Equal(t, "1", shallow.ID)
	assert.Equal(t, "hello", shallow.Content)

	// Original is untouched.
	assert.NotNil(t, s.Account)
	assert.NotNil(t, s.Reblog)
}

func TestReblogAndStatusIDs(t *testing.T) {
	plain := &Status{ID: "1", Account: &Account{ID: "a1"}}
	assert.Equal(t, "", plain.ReblogID())

	boost := &Status{ID: "3", Account: &Account{ID: "a1"}, Reblog: plain}
	assert.Equal(t, "1", boost.ReblogID())

	follow := &Notification{ID: "n1", Account: &Account{ID: "a1"}}
	assert.Equal(t, "", follow.StatusID())

	mention := &Notification{ID: "n2", Account: &Account{ID: "a1"}, Status: plain}
	assert.Equal(t, "1", mention.StatusID())
}

func TestNormalize_ComposesToNFC(t *testing.T) {
	// "é" as 'e' + combining acute accent (NFD).
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	s := &Status{
		ID:      "1",
		Content: decomposed,
		Account: &Account{ID: "a1", DisplayName: decomposed},
		Reblog: &Status{
			ID:      "2",
			Content: decomposed,
			Account: &Account{ID: "a2"},
		},
	}
	s.Normalize()

	assert.Equal(t, composed, s.Content)
	assert.Equal(t, composed, s.Account.DisplayName)
	assert.Equal(t, composed, s.Reblog.Content)
}
