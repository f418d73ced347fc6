// Package keycodec builds the sortable string keys that make
// lexicographic range scans equivalent to chronological iteration.
//
// Remote entity ids are non-negative integers of arbitrary precision
// (they may exceed 64 bits), carried as decimal strings. The codec maps
// an id to a fixed-width, zero-padded decimal encoding so that string
// order equals numeric order (ascending form) or its exact inverse
// (descending form, computed as ceiling-minus-id).
//
// Fixed width is a hard invariant: if two encodings had different
// lengths, lexicographic order would diverge from numeric order and
// every timeline scan would return entries out of order.
//
// Position keys compose a timeline (or account) name with an encoded id
// using a NUL separator; the exclusive upper bound for range scans is
// the name plus U+FFFF, which sorts after every encoded id.
package keycodec
