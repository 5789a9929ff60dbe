// Package policy implements the central access-policy engine that every
// pimguard domain command consults before reading or mutating PIM data.
//
// Multiple independent callers (agents, scripts) may share one user's data
// store with different trust levels, so the decision of what is visible or
// writable is made in exactly one place: here.
//
// # Configuration layout
//
// Configuration lives under one root directory (APPLE_PIM_CONFIG_DIR, else
// ~/.pimguard):
//
//	config.json              base configuration
//	profiles/<name>.json     optional named overrides
//
// The base config holds one filter section per domain plus optional
// defaults:
//
//	{
//	  "calendars": {"enabled": true, "mode": "all"},
//	  "reminders": {"enabled": true, "mode": "allowlist", "items": ["Inbox"]},
//	  "contacts":  {"enabled": true, "mode": "blocklist", "items": ["VIPs"]},
//	  "mail":      {"enabled": false},
//	  "defaultCalendar": "Work"
//	}
//
// A profile is the same shape with every key optional. A present key
// replaces the corresponding base section wholesale; there is no
// field-by-field merge within a section. Overriding a domain's mode
// without its items therefore yields that override's (empty) item list.
//
// # Failure asymmetry
//
// A missing or malformed base config is the expected "nothing configured
// yet" state: the loader logs a warning and substitutes the all-access
// default. An explicitly requested profile that is missing, malformed or
// unsafely named is a hard error instead — honoring the request is
// impossible, and ignoring it would silently widen access. The package
// never terminates the process; it returns typed errors
// (ErrInvalidProfileName, ErrProfileNotFound, ErrMalformedProfile) and the
// CLI boundary decides the exit code.
//
// # Basic usage
//
//	res, err := policy.NewLoader().Load(profileFlag)
//	if err != nil {
//		return err // fail-closed; do not fall back to the base config
//	}
//	eng := policy.NewEngine(res)
//	if err := eng.RequireDomain(policy.DomainCalendars); err != nil {
//		return err
//	}
//	if err := eng.ValidateForWrite(policy.DomainCalendars, name); err != nil {
//		return err // before any mutation, never after
//	}
//
// # Concurrency
//
// One invocation is single-threaded and holds one resolved snapshot.
// Separate invocations may read the config files while a Writer replaces
// them; the Writer's atomic rename guarantees readers never observe a
// partial file. Nothing is cached across invocations, so edits apply
// immediately.
package policy
