package domain

import "errors"

// Business rejections. These are expected outcomes, reported to the caller as
// structured results and never retried automatically.
var (
	ErrNotBound         = errors.New("telegram account is not bound")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrEmailTaken       = errors.New("email already bound to another telegram account")
	ErrAccountNotFound  = errors.New("account not found in panel")
	ErrPlanNotAllowed   = errors.New("plan is not eligible for check-in rewards")
	ErrBindingNotFound  = errors.New("binding not found")
)

// ErrPanelUnavailable is an infrastructure failure: the panel database could
// not be reached or the call timed out. Distinct from ErrAccountNotFound,
// which is a valid business result.
var ErrPanelUnavailable = errors.New("panel database unavailable")
