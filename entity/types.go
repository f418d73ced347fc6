package entity

import (
	"errors"
	"fmt"
)

// Account is an actor on the remote service.
type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	Acct        string `json:"acct,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	URL         string `json:"url,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Header      string `json:"header,omitempty"`
	Note        string `json:"note,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// MediaAttachment is a media object attached to a status.
type MediaAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Status is a post. Account and Reblog are nested in the network shape
// and detached into their own rows for storage.
type Status struct {
	ID               string            `json:"id"`
	URI              string            `json:"uri,omitempty"`
	URL              string            `json:"url,omitempty"`
	CreatedAt        string            `json:"created_at,omitempty"`
	Content          string            `json:"content,omitempty"`
	SpoilerText      string            `json:"spoiler_text,omitempty"`
	Visibility       string            `json:"visibility,omitempty"`
	Sensitive        bool              `json:"sensitive,omitempty"`
	InReplyToID      string            `json:"in_reply_to_id,omitempty"`
	ReblogsCount     int64             `json:"reblogs_count,omitempty"`
	FavouritesCount  int64             `json:"favourites_count,omitempty"`
	MediaAttachments []MediaAttachment `json:"media_attachments,omitempty"`
	Account          *Account          `json:"account,omitempty"`
	Reblog           *Status           `json:"reblog,omitempty"`
}

// Notification is an event about the owning account: a mention, favourite,
// reblog, or follow, optionally referencing a status.
type Notification struct {
	ID        string   `json:"id"`
	Type      string   `json:"type,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	Account   *Account `json:"account,omitempty"`
	Status    *Status  `json:"status,omitempty"`
}

// Validate checks that a status carries everything storage needs.
// A reblog target must itself be a complete status.
func (s *Status) Validate() error {
	if s == nil {
		return errors.New("status is nil")
	}
	if s.ID == "" {
		return errors.New("status has no id")
	}
	if s.Account == nil || s.Account.ID == "" {
		return fmt.Errorf("status %s has no account", s.ID)
	}
	if s.Reblog != nil {
		if err := s.Reblog.Validate(); err != nil {
			return fmt.Errorf("status %s reblog: %w", s.ID, err)
		}
	}
	return nil
}

// Validate checks that a notification carries everything storage needs.
func (n *Notification) Validate() error {
	if n == nil {
		return errors.New("notification is nil")
	}
	if n.ID == "" {
		return errors.New("notification has no id")
	}
	if n.Account == nil || n.Account.ID == "" {
		return fmt.Errorf("notification %s has no account", n.ID)
	}
	if n.Status != nil {
		if err := n.Status.Validate(); err != nil {
			return fmt.Errorf("notification %s status: %w", n.ID, err)
		}
	}
	return nil
}

// Shallow returns a copy with nested entities detached. The copy is what
// gets marshaled into the statuses table; Account and Reblog become the
// account_id and reblog_id columns instead.
func (s *Status) Shallow() *Status {
	c := *s
	c.Account = nil
	c.Reblog = nil
	return &c
}

// Shallow returns a copy with nested entities detached.
func (n *Notification) Shallow() *Notification {
	c := *n
	c.Account = nil
	c.Status = nil
	return &c
}

// ReblogID returns the reblog target's id, or "" for an original post.
func (s *Status) ReblogID() string {
	if s.Reblog == nil {
		return ""
	}
	return s.Reblog.ID
}

// StatusID returns the associated status id, or "" if the notification
// has none (e.g. a follow).
func (n *Notification) StatusID() string {
	if n.Status == nil {
		return ""
	}
	return n.Status.ID
}
