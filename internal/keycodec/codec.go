package keycodec

import (
	"fmt"
	"math/big"
	"strings"
)

// Width is the fixed length of every encoded id.
// 30 decimal digits comfortably exceeds any id a remote instance hands
// out (64-bit snowflake ids are at most 20 digits).
const Width = 30

// ceiling is 10^Width, the exclusive upper bound on encodable ids.
// maxValue (ceiling - 1) is the subtrahend base for descending encoding.
var (
	ceiling  = new(big.Int).Exp(big.NewInt(10), big.NewInt(Width), nil)
	maxValue = new(big.Int).Sub(ceiling, big.NewInt(1))
)

// parseID validates and parses a decimal id string.
func parseID(id string) (*big.Int, error) {
	if id == "" {
		return nil, fmt.Errorf("parse id: empty")
	}
	n, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return nil, fmt.Errorf("parse id %q: not a base-10 integer", id)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("parse id %q: negative", id)
	}
	if n.Cmp(ceiling) >= 0 {
		return nil, fmt.Errorf("parse id %q: exceeds %d digits", id, Width)
	}
	return n, nil
}

// pad left-pads a decimal string with zeros to Width.
func pad(s string) string {
	return strings.Repeat("0", Width-len(s)) + s
}

// EncodeAscending encodes id so that string order equals numeric order.
func EncodeAscending(id string) (string, error) {
	n, err := parseID(id)
	if err != nil {
		return "", fmt.Errorf("encode ascending: %w", err)
	}
	return pad(n.String()), nil
}

// EncodeDescending encodes id so that string order is the exact inverse
// of numeric order: for ids a < b, EncodeDescending(a) > EncodeDescending(b).
func EncodeDescending(id string) (string, error) {
	n, err := parseID(id)
	if err != nil {
		return "", fmt.Errorf("encode descending: %w", err)
	}
	return pad(new(big.Int).Sub(maxValue, n).String()), nil
}

// DecodeAscending recovers the id from an ascending encoding.
func DecodeAscending(key string) (string, error) {
	if len(key) != Width {
		return "", fmt.Errorf("decode ascending: key length %d, want %d", len(key), Width)
	}
	n, ok := new(big.Int).SetString(key, 10)
	if !ok {
		return "", fmt.Errorf("decode ascending: %q is not a base-10 integer", key)
	}
	return n.String(), nil
}

// DecodeDescending recovers the id from a descending encoding.
func DecodeDescending(key string) (string, error) {
	if len(key) != Width {
		return "", fmt.Errorf("decode descending: key length %d, want %d", len(key), Width)
	}
	n, ok := new(big.Int).SetString(key, 10)
	if !ok {
		return "", fmt.Errorf("decode descending: %q is not a base-10 integer", key)
	}
	return new(big.Int).Sub(maxValue, n).String(), nil
}
