package policy

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Domain identifies one independently gated PIM category.
type Domain string

const (
	// DomainCalendars covers calendars and their events.
	DomainCalendars Domain = "calendars"
	// DomainReminders covers reminder lists and their reminders.
	DomainReminders Domain = "reminders"
	// DomainContacts covers contact groups and their contacts.
	DomainContacts Domain = "contacts"
	// DomainMail covers mail accounts and messages. Mail has no item-level
	// filtering; accounts are managed by the mail client itself.
	DomainMail Domain = "mail"
)

// Domains lists every domain in display order.
func Domains() []Domain {
	return []Domain{DomainCalendars, DomainReminders, DomainContacts, DomainMail}
}

// ParseDomain maps a user-supplied string to a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DomainCalendars, DomainReminders, DomainContacts, DomainMail:
		return d, nil
	}
	return "", fmt.Errorf("unknown domain %q (expected calendars, reminders, contacts or mail)", s)
}

// Mode selects how a domain's item list is interpreted.
type Mode string

const (
	// ModeAll permits every item; the item list is ignored.
	ModeAll Mode = "all"
	// ModeAllowlist permits only items matching an entry.
	ModeAllowlist Mode = "allowlist"
	// ModeBlocklist permits everything except items matching an entry.
	ModeBlocklist Mode = "blocklist"
)

// UnmarshalJSON decodes a mode string. Anything other than the three known
// values (including an empty string) decodes to ModeAll, so a typo in a
// hand-edited file can never turn into a parse error.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAllowlist:
		*m = ModeAllowlist
	case ModeBlocklist:
		*m = ModeBlocklist
	default:
		*m = ModeAll
	}
	return nil
}

// DomainConfig is the filter configuration of one filterable domain.
type DomainConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Mode    Mode     `json:"mode" yaml:"mode"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// MailConfig is the enable-only configuration of the mail domain.
type MailConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Config is the base access configuration. It is conceptually always
// present: when no file exists on disk the all-access default applies.
type Config struct {
	Calendars           DomainConfig `json:"calendars" yaml:"calendars"`
	Reminders           DomainConfig `json:"reminders" yaml:"reminders"`
	Contacts            DomainConfig `json:"contacts" yaml:"contacts"`
	Mail                MailConfig   `json:"mail" yaml:"mail"`
	DefaultCalendar     string       `json:"defaultCalendar,omitempty" yaml:"defaultCalendar,omitempty"`
	DefaultReminderList string       `json:"defaultReminderList,omitempty" yaml:"defaultReminderList,omitempty"`
}

// Override is a named profile: structurally a Config with every field
// optional. An absent field means "inherit from base"; a present field
// replaces the base section in its entirety.
type Override struct {
	Calendars           *DomainConfig `json:"calendars,omitempty" yaml:"calendars,omitempty"`
	Reminders           *DomainConfig `json:"reminders,omitempty" yaml:"reminders,omitempty"`
	Contacts            *DomainConfig `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Mail                *MailConfig   `json:"mail,omitempty" yaml:"mail,omitempty"`
	DefaultCalendar     *string       `json:"defaultCalendar,omitempty" yaml:"defaultCalendar,omitempty"`
	DefaultReminderList *string       `json:"defaultReminderList,omitempty" yaml:"defaultReminderList,omitempty"`
}

// Resolved is the outcome of merging a base Config with at most one
// Override. Profile is the name of the applied profile, empty when the
// base config is in effect unmodified.
type Resolved struct {
	Config  `yaml:",inline"`
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// Default returns the all-access base configuration used when no config
// file exists (or when the base file cannot be parsed).
func Default() *Config {
	return &Config{
		Calendars: DomainConfig{Enabled: true, Mode: ModeAll},
		Reminders: DomainConfig{Enabled: true, Mode: ModeAll},
		Contacts:  DomainConfig{Enabled: true, Mode: ModeAll},
		Mail:      MailConfig{Enabled: true},
	}
}

// Merge applies an optional profile override to a base configuration.
// Replacement is per whole section: overriding a domain's mode without its
// items yields that override's (possibly empty) item list, never a blend of
// base and override fields. Merge is idempotent.
func Merge(base Config, o *Override) Resolved {
	out := Resolved{Config: base}
	if o == nil {
		return out
	}
	if o.Calendars != nil {
		out.Calendars = *o.Calendars
	}
	if o.Reminders != nil {
		out.Reminders = *o.Reminders
	}
	if o.Contacts != nil {
		out.Contacts = *o.Contacts
	}
	if o.Mail != nil {
		out.Mail = *o.Mail
	}
	if o.DefaultCalendar != nil {
		out.DefaultCalendar = *o.DefaultCalendar
	}
	if o.DefaultReminderList != nil {
		out.DefaultReminderList = *o.DefaultReminderList
	}
	return out
}

// DomainConfig returns the filter configuration for a filterable domain.
// ok is false for DomainMail, which carries no item-level filtering.
func (r *Resolved) DomainConfig(d Domain) (DomainConfig, bool) {
	switch d {
	case DomainCalendars:
		return r.Calendars, true
	case DomainReminders:
		return r.Reminders, true
	case DomainContacts:
		return r.Contacts, true
	}
	return DomainConfig{}, false
}

// DomainEnabled reports whether a domain is switched on at all,
// independent of its filter mode.
func (r *Resolved) DomainEnabled(d Domain) bool {
	switch d {
	case DomainCalendars:
		return r.Calendars.Enabled
	case DomainReminders:
		return r.Reminders.Enabled
	case DomainContacts:
		return r.Contacts.Enabled
	case DomainMail:
		return r.Mail.Enabled
	}
	return false
}

// DefaultFor returns the configured default container name for a domain,
// empty when none is configured or the domain has no default concept.
func (r *Resolved) DefaultFor(d Domain) string {
	switch d {
	case DomainCalendars:
		return r.DefaultCalendar
	case DomainReminders:
		return r.DefaultReminderList
	}
	return ""
}

// Validate checks a configuration for entries that would silently match
// nothing. All issues are collected so a caller sees every problem at once.
func (c *Config) Validate() error {
	var err error
	for _, sec := range []struct {
		domain Domain
		cfg    DomainConfig
	}{
		{DomainCalendars, c.Calendars},
		{DomainReminders, c.Reminders},
		{DomainContacts, c.Contacts},
	} {
		for i, item := range sec.cfg.Items {
			if strings.TrimSpace(item) == "" {
				err = multierr.Append(err, fmt.Errorf("%s: items[%d] is blank", sec.domain, i))
			}
		}
		if sec.cfg.Mode == ModeAll && len(sec.cfg.Items) > 0 {
			err = multierr.Append(err, fmt.Errorf("%s: items are listed but mode is %q, so they have no effect", sec.domain, ModeAll))
		}
	}
	return err
}

// Validate applies the same checks as Config.Validate to the sections an
// override actually carries.
func (o *Override) Validate() error {
	cfg := Config{}
	if o.Calendars != nil {
		cfg.Calendars = *o.Calendars
	}
	if o.Reminders != nil {
		cfg.Reminders = *o.Reminders
	}
	if o.Contacts != nil {
		cfg.Contacts = *o.Contacts
	}
	return cfg.Validate()
}

// Empty reports whether the override carries no sections at all.
func (o *Override) Empty() bool {
	return o.Calendars == nil && o.Reminders == nil && o.Contacts == nil &&
		o.Mail == nil && o.DefaultCalendar == nil && o.DefaultReminderList == nil
}
