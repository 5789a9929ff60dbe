package policy

import "errors"

var (
	// ErrInvalidProfileName is returned when a profile name fails safety
	// validation. The requesting invocation must not proceed.
	ErrInvalidProfileName = errors.New("invalid profile name")
	// ErrProfileNotFound is returned when an explicitly requested profile
	// has no file on disk. Fail-closed: falling back to the base config
	// would silently widen access beyond what the caller asked for.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMalformedProfile is returned when a requested profile file exists
	// but cannot be parsed. Treated like ErrProfileNotFound: the requested
	// narrowing cannot be honored, so the invocation must not proceed.
	ErrMalformedProfile = errors.New("malformed profile")
	// ErrAccessDenied is returned when an item or its container is excluded
	// by the active filter configuration.
	ErrAccessDenied = errors.New("not permitted by the access policy")
	// ErrNotFound is returned when a referenced item does not exist at all,
	// as opposed to existing but being filtered out.
	ErrNotFound = errors.New("not found")
	// ErrDomainDisabled is returned when a whole domain is switched off.
	// Distinct from ErrAccessDenied: re-enabling the domain is a different
	// fix than editing an item list.
	ErrDomainDisabled = errors.New("domain is disabled by the access policy")
)
