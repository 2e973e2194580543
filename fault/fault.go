// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrAlreadyRegistered      = ExistsError("decoder already registered")
	ErrBatchInUse             = ProcessError("batch already in use")
	ErrBatchNotInUse          = ProcessError("batch not in use")
	ErrDuplicatePrefix        = ExistsError("duplicate storage prefix")
	ErrEmptyPlaceholder       = InvalidError("placeholder token is empty")
	ErrIncompatibleDatabase   = InvalidError("incompatible database version")
	ErrInvalidAddress         = InvalidError("invalid SS58 address")
	ErrInvalidConcrete        = InvalidError("concrete name contains a line break")
	ErrInvalidConfiguration   = InvalidError("configuration must return a table")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidCursor          = InvalidError("invalid cursor")
	ErrInvalidDataDirectory   = InvalidError("invalid data directory")
	ErrInvalidDecoder         = InvalidError("decoder is nil")
	ErrInvalidFileName        = InvalidError("file name must not contain a directory")
	ErrInvalidHasher          = InvalidError("invalid hasher")
	ErrInvalidHex             = InvalidError("invalid hex string")
	ErrInvalidKeyLength       = InvalidError("key length must be a positive even number of hex characters")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidPlaceholder     = InvalidError("concrete name contains a placeholder token")
	ErrInvalidPrefix          = InvalidError("storage prefix must be 32 lowercase hex characters")
	ErrInvalidSS58Format      = InvalidError("invalid SS58 address format")
	ErrInvalidShape           = InvalidError("invalid storage entry shape")
	ErrInvalidStructPointer   = InvalidError("invalid struct pointer")
	ErrInvalidTag             = RecordError("invalid option or enum tag")
	ErrInvalidUTF8            = RecordError("text is not valid UTF-8")
	ErrKeyTooShort            = LengthError("storage key is shorter than the prefix")
	ErrKeyTruncated           = LengthError("storage key is truncated")
	ErrMalformed              = RecordError("malformed value")
	ErrMissingSchemaFile      = NotFoundError("schema file is required")
	ErrNotInitialised         = NotFoundError("not initialised")
	ErrOverlappingPlaceholder = InvalidError("concrete name overlaps a placeholder token")
	ErrTrailingBytes          = RecordError("trailing bytes after value")
	ErrUnknownKey1Length      = NotFoundError("unknown length for double map key1 type")
	ErrUnknownPrefix          = NotFoundError("unknown storage prefix")
	ErrUnknownType            = NotFoundError("no decoder registered for type")
	ErrUnrecoverableHasher    = InvalidError("hasher does not allow key recovery")
	ErrValueTooLarge          = RecordError("value length exceeds limit")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error, unwrapping any context
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool   { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
func IsErrRecord(e error) bool   { var t RecordError; return errors.As(e, &t) }
