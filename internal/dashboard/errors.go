package dashboard

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSuperseded       = errors.New("superseded by a newer request")
	ErrNothingPending   = errors.New("no deletion pending")
	ErrFormClosed       = errors.New("form is not open")
)
