package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/perch/entity"
)

// Entity rows store the shallow JSON of each entity: nested account,
// reblog, and status objects are detached into their own tables and
// re-attached on read. HTML escaping is disabled so stored content
// matches what the remote service sent byte for byte.

func marshalShallow(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal entity: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func marshalStatusRow(st *entity.Status) (string, error) {
	data, err := marshalShallow(st.Shallow())
	if err != nil {
		return "", fmt.Errorf("status %s: %w", st.ID, err)
	}
	return data, nil
}

func marshalAccountRow(a *entity.Account) (string, error) {
	data, err := marshalShallow(a)
	if err != nil {
		return "", fmt.Errorf("account %s: %w", a.ID, err)
	}
	return data, nil
}

func marshalNotificationRow(n *entity.Notification) (string, error) {
	data, err := marshalShallow(n.Shallow())
	if err != nil {
		return "", fmt.Errorf("notification %s: %w", n.ID, err)
	}
	return data, nil
}

func unmarshalStatusRow(data string) (*entity.Status, error) {
	var st entity.Status
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &st, nil
}

func unmarshalAccountRow(data string) (*entity.Account, error) {
	var a entity.Account
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &a, nil
}

func unmarshalNotificationRow(data string) (*entity.Notification, error) {
	var n entity.Notification
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &n, nil
}
