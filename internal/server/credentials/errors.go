package credentials

import (
	"errors"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
)

// IssuanceError reports an internal failure while issuing credentials.
// It matches common.ErrIssuanceFailed with errors.Is and unwraps to the
// cause, which is meant for logs only.
type IssuanceError struct {
	Op    string
	Cause error
}

func (e *IssuanceError) Error() string {
	if e.Cause == nil {
		return e.Op + ": " + common.ErrIssuanceFailed.Error()
	}
	return e.Op + ": " + common.ErrIssuanceFailed.Error() + ": " + e.Cause.Error()
}

func (e *IssuanceError) Is(target error) bool {
	return target == common.ErrIssuanceFailed
}

func (e *IssuanceError) Unwrap() error {
	return e.Cause
}

// AsIssuanceError extracts an *IssuanceError from err's chain.
func AsIssuanceError(err error) (*IssuanceError, bool) {
	var ie *IssuanceError
	ok := errors.As(err, &ie)
	return ie, ok
}
