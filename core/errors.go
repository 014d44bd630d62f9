// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import "fmt"

// Kind classifies an Error without requiring callers to match error strings.
// This is the taxonomy from the format's error-handling design: every
// failure a parser or decoder can produce falls into exactly one Kind.
type Kind int

// Error kinds.
const (
	// KindIO is an underlying storage or stream failure, surfaced verbatim.
	KindIO Kind = iota

	// KindInvalidSignature is a container magic mismatch.
	KindInvalidSignature

	// KindCorruptStream is a decompression or internal length-check failure.
	KindCorruptStream

	// KindSchemaMismatch is raised when a type-tree-driven parse consumes
	// the wrong number of bytes or hits an unknown composite.
	KindSchemaMismatch

	// KindUnsupported is a known-but-unimplemented format variant.
	KindUnsupported

	// KindUnknownClassID is raised when an object references a class id
	// absent from the registry; the object is still retained under a
	// synthetic name.
	KindUnknownClassID

	// KindPropertyNotFound is a programmatic property-access error.
	KindPropertyNotFound

	// KindTypeConversion is a programmatic value-conversion error.
	KindTypeConversion

	// KindInvalidGeometry flags texture dimensions out of the valid range.
	KindInvalidGeometry
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "Io"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindCorruptStream:
		return "CorruptStream"
	case KindSchemaMismatch:
		return "SchemaMismatch"
	case KindUnsupported:
		return "Unsupported"
	case KindUnknownClassID:
		return "UnknownClassId"
	case KindPropertyNotFound:
		return "PropertyNotFound"
	case KindTypeConversion:
		return "TypeConversion"
	case KindInvalidGeometry:
		return "InvalidGeometry"
	default:
		return "Unknown"
	}
}

// Error is the error type every unityasset package returns. Op names the
// failing operation (e.g. "container.ParseBundle"), Err is the underlying
// cause when there is one.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so that
// callers can write errors.Is(err, core.ErrKind(core.KindCorruptStream)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == ""
}

// NewError builds an *Error. Err may be nil.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ErrKind returns a sentinel usable with errors.Is to match on Kind alone.
func ErrKind(kind Kind) error {
	return &Error{Kind: kind}
}
