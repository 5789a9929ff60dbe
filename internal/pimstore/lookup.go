package pimstore

import (
	"context"

	"github.com/lc/pimguard/internal/policy"
)

// CalendarLookup exposes calendars to the policy engine's target
// resolution.
func (s *Store) CalendarLookup() policy.Lookup { return calendarLookup{s} }

// ReminderListLookup exposes reminder lists to the policy engine's target
// resolution.
func (s *Store) ReminderListLookup() policy.Lookup { return reminderListLookup{s} }

// ContactGroupLookup exposes contact groups to the policy engine's target
// resolution. Contact groups have no platform default.
func (s *Store) ContactGroupLookup() policy.Lookup { return contactGroupLookup{s} }

type calendarLookup struct{ s *Store }

func (l calendarLookup) Items(_ context.Context) ([]policy.Item, error) {
	items := make([]policy.Item, 0, len(l.s.calendars.Calendars))
	for _, c := range l.s.calendars.Calendars {
		items = append(items, policy.Item{ID: c.ID, Name: c.Name})
	}
	return items, nil
}

func (l calendarLookup) DefaultItem(_ context.Context) (*policy.Item, error) {
	for _, c := range l.s.calendars.Calendars {
		if c.Default {
			return &policy.Item{ID: c.ID, Name: c.Name}, nil
		}
	}
	return nil, nil
}

type reminderListLookup struct{ s *Store }

func (l reminderListLookup) Items(_ context.Context) ([]policy.Item, error) {
	items := make([]policy.Item, 0, len(l.s.reminders.Lists))
	for _, rl := range l.s.reminders.Lists {
		items = append(items, policy.Item{ID: rl.ID, Name: rl.Name})
	}
	return items, nil
}

func (l reminderListLookup) DefaultItem(_ context.Context) (*policy.Item, error) {
	for _, rl := range l.s.reminders.Lists {
		if rl.Default {
			return &policy.Item{ID: rl.ID, Name: rl.Name}, nil
		}
	}
	return nil, nil
}

type contactGroupLookup struct{ s *Store }

func (l contactGroupLookup) Items(_ context.Context) ([]policy.Item, error) {
	items := make([]policy.Item, 0, len(l.s.contacts.Groups))
	for _, g := range l.s.contacts.Groups {
		items = append(items, policy.Item{ID: g.ID, Name: g.Name})
	}
	return items, nil
}

func (l contactGroupLookup) DefaultItem(_ context.Context) (*policy.Item, error) {
	return nil, nil
}
