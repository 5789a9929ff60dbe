package policy

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

// Item is a policy-visible PIM container: a calendar, a reminder list or a
// contact group.
type Item struct {
	ID   string
	Name string
}

// Lookup lists the containers of one domain so the engine can resolve
// targets. Implementations come from the data layer; the engine never
// touches platform data itself.
type Lookup interface {
	// Items returns every container in the domain, unfiltered.
	Items(ctx context.Context) ([]Item, error)
	// DefaultItem returns the platform's default container, or nil when
	// the platform has none.
	DefaultItem(ctx context.Context) (*Item, error)
}

// Engine is the consumer-facing policy surface for one invocation. It
// holds exactly one resolved configuration snapshot; commands issued
// within the same invocation share it instead of re-reading files.
type Engine struct {
	resolved *Resolved

	// Decision counters, surfaced for diagnostics.
	allowed atomic.Int64
	denied  atomic.Int64
}

// NewEngine wraps a resolved configuration.
func NewEngine(r *Resolved) *Engine {
	return &Engine{resolved: r}
}

// Resolved returns the configuration snapshot the engine decides against.
func (e *Engine) Resolved() *Resolved { return e.resolved }

// IsDomainEnabled reports whether a domain is switched on.
func (e *Engine) IsDomainEnabled(d Domain) bool {
	return e.resolved.DomainEnabled(d)
}

// RequireDomain returns ErrDomainDisabled when the domain is switched off.
// Every operation in a domain must pass this gate before any item-level
// check, so callers get remediation guidance that names the right knob.
func (e *Engine) RequireDomain(d Domain) error {
	if !e.resolved.DomainEnabled(d) {
		return fmt.Errorf("%s: %w", d, ErrDomainDisabled)
	}
	return nil
}

// IsAllowed reports whether the named item is visible in the domain.
// Domains without item-level filtering (mail) always allow.
func (e *Engine) IsAllowed(d Domain, name, id string) bool {
	cfg, ok := e.resolved.DomainConfig(d)
	if !ok {
		return true
	}
	return e.decide(cfg.Allows(name, id))
}

// Filter returns the policy-visible subset of items for a domain.
func (e *Engine) Filter(d Domain, items []Item) []Item {
	cfg, ok := e.resolved.DomainConfig(d)
	if !ok {
		return items
	}
	return FilterCollection(items, cfg,
		func(it Item) string { return it.Name },
		func(it Item) string { return it.ID })
}

// ResolveTarget resolves the effective container for an operation:
// the explicit argument first, else the configured default, else the
// platform default. Explicit and configured targets must both exist and be
// allowed; a configured default that has fallen outside the active
// profile's filter is rejected rather than silently honored.
func (e *Engine) ResolveTarget(ctx context.Context, d Domain, explicit string, lk Lookup) (*Item, error) {
	cfg, ok := e.resolved.DomainConfig(d)
	if !ok {
		return nil, fmt.Errorf("domain %s has no targetable containers: %w", d, ErrNotFound)
	}

	if explicit != "" {
		return e.lookup(ctx, d, cfg, explicit, lk)
	}

	if def := e.resolved.DefaultFor(d); def != "" {
		it, err := e.lookup(ctx, d, cfg, def, lk)
		if err != nil {
			return nil, fmt.Errorf("configured default: %w", err)
		}
		return it, nil
	}

	it, err := lk.DefaultItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving platform default %s: %w", singular(d), err)
	}
	if it == nil {
		return nil, fmt.Errorf("no %s available: %w", singular(d), ErrNotFound)
	}
	return it, nil
}

// ValidateForWrite blocks a mutation aimed at a disallowed container
// before any side effect occurs. An empty name is a no-op success: the
// caller will use a resolved default, which ResolveTarget validates
// separately. Must be invoked strictly before any create/update/delete.
func (e *Engine) ValidateForWrite(d Domain, name string) error {
	if name == "" {
		return nil
	}
	cfg, ok := e.resolved.DomainConfig(d)
	if !ok {
		return nil
	}
	if !e.decide(cfg.Allows(name, "")) {
		return e.deniedErr(d, name)
	}
	return nil
}

// Decisions returns how many item-level checks this engine has allowed
// and denied.
func (e *Engine) Decisions() (allowed, denied int64) {
	return e.allowed.Load(), e.denied.Load()
}

// lookup finds a container by name or id and applies the item filter.
// A container that exists but is filtered out yields ErrAccessDenied,
// which callers must keep distinct from ErrNotFound.
func (e *Engine) lookup(ctx context.Context, d Domain, cfg DomainConfig, ref string, lk Lookup) (*Item, error) {
	items, err := lk.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d, err)
	}

	stripped := StripDecorativePrefix(ref)
	for i := range items {
		it := items[i]
		if !refersTo(it, ref, stripped) {
			continue
		}
		if !e.decide(cfg.Allows(it.Name, it.ID)) {
			return nil, e.deniedErr(d, it.Name)
		}
		return &it, nil
	}
	return nil, fmt.Errorf("no %s named %q: %w", singular(d), ref, ErrNotFound)
}

func refersTo(it Item, ref, strippedRef string) bool {
	if strings.EqualFold(it.Name, ref) || strings.EqualFold(it.ID, ref) {
		return true
	}
	return strippedRef != "" && strings.EqualFold(StripDecorativePrefix(it.Name), strippedRef)
}

func (e *Engine) decide(allowed bool) bool {
	if allowed {
		e.allowed.Inc()
	} else {
		e.denied.Inc()
	}
	return allowed
}

func (e *Engine) deniedErr(d Domain, name string) error {
	if e.resolved.Profile != "" {
		return fmt.Errorf("%s %q %w (profile %q; edit its filter to allow it)",
			singular(d), name, ErrAccessDenied, e.resolved.Profile)
	}
	return fmt.Errorf("%s %q %w (edit %s to allow it)",
		singular(d), name, ErrAccessDenied, baseFileName)
}

func singular(d Domain) string {
	switch d {
	case DomainCalendars:
		return "calendar"
	case DomainReminders:
		return "reminder list"
	case DomainContacts:
		return "contact group"
	case DomainMail:
		return "mail account"
	}
	return string(d)
}
