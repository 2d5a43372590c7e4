package indexcore

import (
	"errors"
	"fmt"

	"github.com/codectx/codectx/internal/vectorstore"
)

// ErrorKind classifies indexcore failures so callers can branch without
// string-matching messages, mirroring vectorstore's StoreError pattern one
// layer up the stack.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindPathNotFound
	KindNotADirectory
	KindAlreadyIndexing
	KindNotIndexed
	KindDimensionMismatch
	KindCollectionLimitReached
	KindProviderUnavailable
	KindProviderAuthFailure
	KindInvalidFilter
	KindVerificationInconclusive
	KindCancelled
)

// IndexError is the error type every indexcore operation returns on failure.
type IndexError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *IndexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("indexcore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("indexcore: %s", e.Op)
}

func (e *IndexError) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, op string, err error) *IndexError {
	return &IndexError{Kind: kind, Op: op, Err: err}
}

func kindIs(err error, kind ErrorKind) bool {
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie.Kind == kind
	}
	return false
}

func IsPathNotFound(err error) bool            { return kindIs(err, KindPathNotFound) }
func IsNotADirectory(err error) bool           { return kindIs(err, KindNotADirectory) }
func IsAlreadyIndexing(err error) bool         { return kindIs(err, KindAlreadyIndexing) }
func IsNotIndexed(err error) bool              { return kindIs(err, KindNotIndexed) }
func IsDimensionMismatch(err error) bool       { return kindIs(err, KindDimensionMismatch) }
func IsCollectionLimitReached(err error) bool  { return kindIs(err, KindCollectionLimitReached) }
func IsProviderUnavailable(err error) bool     { return kindIs(err, KindProviderUnavailable) }
func IsProviderAuthFailure(err error) bool     { return kindIs(err, KindProviderAuthFailure) }
func IsInvalidFilter(err error) bool           { return kindIs(err, KindInvalidFilter) }
func IsVerificationInconclusive(err error) bool { return kindIs(err, KindVerificationInconclusive) }
func IsCancelled(err error) bool               { return kindIs(err, KindCancelled) }

// translateStoreErr maps a vectorstore.StoreError onto the coarser indexcore
// taxonomy so callers above this package only ever see IndexError.
func translateStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case vectorstore.IsNotFound(err):
		return newErr(KindNotIndexed, op, err)
	case vectorstore.IsInvalidFilter(err):
		return newErr(KindInvalidFilter, op, err)
	case vectorstore.IsDimensionMismatch(err):
		return newErr(KindDimensionMismatch, op, err)
	case vectorstore.IsUnavailable(err):
		return newErr(KindProviderUnavailable, op, err)
	default:
		return newErr(KindInternal, op, err)
	}
}
