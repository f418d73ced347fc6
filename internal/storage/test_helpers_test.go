package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/perch/entity"
)

// openTestDB creates a fresh tenant database in a temp dir.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "tenant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func testAccount(id string) *entity.Account {
	return &entity.Account{
		ID:          id,
		Username:    "user" + id,
		Acct:        "user" + id + "@example.social",
		DisplayName: "User " + id,
	}
}

func testStatus(id, accountID string) *entity.Status {
	return &entity.Status{
		ID:      id,
		Content: fmt.Sprintf("<p>status %s</p>", id),
		Account: testAccount(accountID),
	}
}

// testBoost returns a status that reblogs target.
func testBoost(id, accountID string, target *entity.Status) *entity.Status {
	st := testStatus(id, accountID)
	st.Content = ""
	st.Reblog = target
	return st
}

func testNotification(id, typ, accountID string, st *entity.Status) *entity.Notification {
	return &entity.Notification{
		ID:      id,
		Type:    typ,
		Account: testAccount(accountID),
		Status:  st,
	}
}
