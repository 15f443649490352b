package types

import "github.com/m-mizutani/goerr/v2"

// Error tags for distinguishing failure classes at the caller.
// Config errors are fatal and never retried; provider errors are fatal for
// the current request and left to the caller's retry policy.
var (
	ErrTagConfig   = goerr.NewTag("config")
	ErrTagProvider = goerr.NewTag("provider")
)
