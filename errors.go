// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decoding failure.
type ErrorKind uint8

const (
	KindUnexpectedEOF      ErrorKind = iota + 1 // buffer exhausted mid-read
	KindInvalidUTF8                             // string bytes are not valid UTF-8
	KindUnknownTypeTag                          // property tree tag outside 0-5
	KindUnsupportedVersion                      // no known save header layout for the version
	KindTrailingData                            // bytes left after the top-level value
	KindMaxDepthExceeded                        // property tree nested too deeply
	KindMalformed                               // structurally valid bytes with the wrong shape
)

// Sentinel errors matched by errors.Is against a *DecodeError.
var (
	ErrUnexpectedEOF      = errors.New("unexpected end of data")
	ErrInvalidUTF8        = errors.New("invalid UTF-8 string")
	ErrUnknownTypeTag     = errors.New("unknown property type tag")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrTrailingData       = errors.New("trailing data")
	ErrMaxDepthExceeded   = errors.New("maximum nesting depth exceeded")
	ErrMalformed          = errors.New("malformed data")
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "unexpected EOF"
	case KindInvalidUTF8:
		return "invalid UTF-8"
	case KindUnknownTypeTag:
		return "unknown type tag"
	case KindUnsupportedVersion:
		return "unsupported version"
	case KindTrailingData:
		return "trailing data"
	case KindMaxDepthExceeded:
		return "max depth exceeded"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnexpectedEOF:
		return ErrUnexpectedEOF
	case KindInvalidUTF8:
		return ErrInvalidUTF8
	case KindUnknownTypeTag:
		return ErrUnknownTypeTag
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	case KindTrailingData:
		return ErrTrailingData
	case KindMaxDepthExceeded:
		return ErrMaxDepthExceeded
	case KindMalformed:
		return ErrMalformed
	default:
		return nil
	}
}

// DecodeError is returned for every decoding failure. Offset is the byte
// position in the input at which the failing read started.
type DecodeError struct {
	Kind    ErrorKind
	Offset  int
	Tag     byte    // KindUnknownTypeTag only
	Version Version // KindUnsupportedVersion only
	Reason  string  // optional detail
}

func (e *DecodeError) Error() string {
	msg := "factorio: " + e.Kind.String()
	switch e.Kind {
	case KindUnknownTypeTag:
		msg += fmt.Sprintf(" 0x%02X", e.Tag)
	case KindUnsupportedVersion:
		msg += " " + e.Version.String()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return fmt.Sprintf("%s at offset %d", msg, e.Offset)
}

// Unwrap returns the sentinel error for the kind.
func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

func errAt(kind ErrorKind, offset int, reason string) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Reason: reason}
}
