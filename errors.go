package bkio

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bkio/captype"
	"github.com/hupe1980/bkio/internal/blockcodec"
	"github.com/hupe1980/bkio/internal/conv"
	"github.com/hupe1980/bkio/internal/layout"
	"github.com/hupe1980/bkio/internal/wire"
)

var (
	// ErrInvalidHeader is returned when the magic is wrong or the header is truncated.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrInvalidTypeCode is returned for a type code outside 0-9.
	ErrInvalidTypeCode = captype.ErrInvalidTypeCode
	// ErrUnsupportedType is returned for values that are none of the ten capacity types.
	ErrUnsupportedType = captype.ErrUnsupportedType
	// ErrTypeMismatch is returned when a typed read meets a file written with other value types.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrLengthMismatch is returned when parallel batch slices differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrMalformedPayload is returned when a section does not match its declared count.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrCorruptPayload is returned when a compressed block fails to decode.
	ErrCorruptPayload = errors.New("corrupt payload")
	// ErrBlockTooLarge is returned when a section exceeds the compressed block limit.
	ErrBlockTooLarge = errors.New("block too large")
)

// TypeMismatchError reports which value type of a file differs from the
// requested one.
//
// It matches ErrTypeMismatch with errors.Is.
type TypeMismatchError struct {
	Field string
	Want  captype.Code
	Got   captype.Code
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s is %s, requested %s", e.Field, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func checkType(field string, want, got captype.Code) error {
	if want != got {
		return &TypeMismatchError{Field: field, Want: want, Got: got}
	}
	return nil
}

// translateError maps errors of internal packages onto the public sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidHeader),
		errors.Is(err, ErrMalformedPayload),
		errors.Is(err, ErrCorruptPayload),
		errors.Is(err, ErrBlockTooLarge):
		return err
	case errors.Is(err, blockcodec.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrBlockTooLarge, err)
	case errors.Is(err, blockcodec.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	case errors.Is(err, layout.ErrMalformed),
		errors.Is(err, wire.ErrShortRead),
		errors.Is(err, conv.ErrOverflow):
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return err
}
