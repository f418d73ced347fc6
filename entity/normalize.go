package entity

import "golang.org/x/text/unicode/norm"

// Remote instances are inconsistent about Unicode composition (NFC vs
// NFD, typically from macOS clients). Normalizing on ingest keeps cache
// lookups and stored rows byte-stable for the same logical text.

func nfc(s string) string {
	return norm.NFC.String(s)
}

// Normalize NFC-normalizes an account's textual fields in place.
func (a *Account) Normalize() {
	if a == nil {
		return
	}
	a.DisplayName = nfc(a.DisplayName)
	a.Note = nfc(a.Note)
}

// Normalize NFC-normalizes a status's textual fields in place,
// including its nested account and reblog chain.
func (s *Status) Normalize() {
	if s == nil {
		return
	}
	s.Content = nfc(s.Content)
	s.SpoilerText = nfc(s.SpoilerText)
	for i := range s.MediaAttachments {
		s.MediaAttachments[i].Description = nfc(s.MediaAttachments[i].Description)
	}
	s.Account.Normalize()
	s.Reblog.Normalize()
}

// Normalize NFC-normalizes a notification's nested entities in place.
func (n *Notification) Normalize() {
	if n == nil {
		return
	}
	n.Account.Normalize()
	n.Status.Normalize()
}
