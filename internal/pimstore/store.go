// Package pimstore provides the JSON-file-backed PIM data layer pimguard's
// domain commands operate on. It stands in for the platform frameworks:
// calendars, reminder lists, contact groups and mail accounts live in one
// data directory, one file per domain.
//
// The store never consults the access policy itself. Callers gate every
// read through policy filtering and every mutation through
// policy.Engine.ValidateForWrite before touching the store.
package pimstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lc/pimguard/internal/filesys"
	"github.com/lc/pimguard/internal/policy"
)

// EnvDataDir overrides the data directory.
const EnvDataDir = "APPLE_PIM_DATA_DIR"

const (
	calendarsFile = "calendars.json"
	remindersFile = "reminders.json"
	contactsFile  = "contacts.json"
	mailFile      = "mail.json"
)

// Calendar is an event container.
type Calendar struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

// Event is a single calendar entry.
type Event struct {
	ID       string    `json:"id"`
	Calendar string    `json:"calendar"` // owning calendar ID
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Notes    string    `json:"notes,omitempty"`
}

// ReminderList is a reminder container.
type ReminderList struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

// Reminder is a single to-do entry.
type Reminder struct {
	ID    string    `json:"id"`
	List  string    `json:"list"` // owning list ID
	Title string    `json:"title"`
	Due   time.Time `json:"due,omitempty"`
	Done  bool      `json:"done,omitempty"`
}

// ContactGroup is a contact container.
type ContactGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Contact is a single address-book entry.
type Contact struct {
	ID    string `json:"id"`
	Group string `json:"group"` // owning group ID
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Account is a mail account. Mail is read-only through pimguard.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Message is a single mail message header.
type Message struct {
	ID       string    `json:"id"`
	Account  string    `json:"account"` // owning account ID
	From     string    `json:"from"`
	Subject  string    `json:"subject"`
	Received time.Time `json:"received"`
	Unread   bool      `json:"unread,omitempty"`
}

type calendarData struct {
	Calendars []Calendar `json:"calendars"`
	Events    []Event    `json:"events,omitempty"`
}

type reminderData struct {
	Lists     []ReminderList `json:"lists"`
	Reminders []Reminder     `json:"reminders,omitempty"`
}

type contactData struct {
	Groups   []ContactGroup `json:"groups"`
	Contacts []Contact      `json:"contacts,omitempty"`
}

type mailData struct {
	Accounts []Account `json:"accounts"`
	Messages []Message `json:"messages,omitempty"`
}

// FS combines the read and write surfaces the store needs.
type FS interface {
	filesys.ReadWriteFS
	filesys.FileOps
}

// Store holds one invocation's snapshot of the PIM data files.
type Store struct {
	fs  FS
	dir string

	calendars calendarData
	reminders reminderData
	contacts  contactData
	mail      mailData
}

// DataDir resolves the data directory: the environment override if set,
// else "data" under the config root.
func DataDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		return dir
	}
	return filepath.Join(policy.ConfigRoot(), "data")
}

// Open loads the store from the standard data directory.
func Open(ctx context.Context) (*Store, error) {
	return OpenDir(ctx, filesys.OS(), DataDir())
}

// OpenDir loads the store from a specific directory with an injected
// filesystem. The four domain files are read in parallel; absent files are
// empty domains.
func OpenDir(ctx context.Context, fsys FS, dir string) (*Store, error) {
	s := &Store{fs: fsys, dir: dir}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loadInto(calendarsFile, &s.calendars) })
	g.Go(func() error { return s.loadInto(remindersFile, &s.reminders) })
	g.Go(func() error { return s.loadInto(contactsFile, &s.contacts) })
	g.Go(func() error { return s.loadInto(mailFile, &s.mail) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadInto(name string, v any) error {
	data, err := s.fs.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string { return s.dir }

// ---------------------------- calendars -----------------------------

// Calendars returns a copy of all calendars, unfiltered.
func (s *Store) Calendars() []Calendar {
	return append([]Calendar(nil), s.calendars.Calendars...)
}

// CalendarByID returns the calendar with the given ID.
func (s *Store) CalendarByID(id string) (Calendar, bool) {
	for _, c := range s.calendars.Calendars {
		if c.ID == id {
			return c, true
		}
	}
	return Calendar{}, false
}

// Events returns the events of one calendar, by calendar ID.
func (s *Store) Events(calendarID string) []Event {
	var out []Event
	for _, ev := range s.calendars.Events {
		if ev.Calendar == calendarID {
			out = append(out, ev)
		}
	}
	return out
}

// AddEvent appends an event to its calendar and persists the calendar
// domain. The event's Calendar field must name an existing calendar ID.
func (s *Store) AddEvent(ev Event) (Event, error) {
	if _, ok := s.CalendarByID(ev.Calendar); !ok {
		return Event{}, fmt.Errorf("calendar %q: %w", ev.Calendar, policy.ErrNotFound)
	}
	ev.ID = uuid.NewString()
	s.calendars.Events = append(s.calendars.Events, ev)
	if err := s.save(calendarsFile, &s.calendars); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// ---------------------------- reminders -----------------------------

// ReminderLists returns a copy of all reminder lists, unfiltered.
func (s *Store) ReminderLists() []ReminderList {
	return append([]ReminderList(nil), s.reminders.Lists...)
}

// ReminderListByID returns the list with the given ID.
func (s *Store) ReminderListByID(id string) (ReminderList, bool) {
	for _, l := range s.reminders.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return ReminderList{}, false
}

// Reminders returns the reminders of one list, by list ID.
func (s *Store) Reminders(listID string) []Reminder {
	var out []Reminder
	for _, r := range s.reminders.Reminders {
		if r.List == listID {
			out = append(out, r)
		}
	}
	return out
}

// ReminderByID returns the reminder with the given ID.
func (s *Store) ReminderByID(id string) (Reminder, bool) {
	for _, r := range s.reminders.Reminders {
		if r.ID == id {
			return r, true
		}
	}
	return Reminder{}, false
}

// AddReminder appends a reminder to its list and persists the reminder
// domain. The reminder's List field must name an existing list ID.
func (s *Store) AddReminder(r Reminder) (Reminder, error) {
	if _, ok := s.ReminderListByID(r.List); !ok {
		return Reminder{}, fmt.Errorf("reminder list %q: %w", r.List, policy.ErrNotFound)
	}
	r.ID = uuid.NewString()
	s.reminders.Reminders = append(s.reminders.Reminders, r)
	if err := s.save(remindersFile, &s.reminders); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// CompleteReminder marks a reminder done and persists the reminder domain.
func (s *Store) CompleteReminder(id string) (Reminder, error) {
	for i, r := range s.reminders.Reminders {
		if r.ID != id {
			continue
		}
		s.reminders.Reminders[i].Done = true
		if err := s.save(remindersFile, &s.reminders); err != nil {
			return Reminder{}, err
		}
		return s.reminders.Reminders[i], nil
	}
	return Reminder{}, fmt.Errorf("reminder %q: %w", id, policy.ErrNotFound)
}

// ---------------------------- contacts ------------------------------

// ContactGroups returns a copy of all contact groups, unfiltered.
func (s *Store) ContactGroups() []ContactGroup {
	return append([]ContactGroup(nil), s.contacts.Groups...)
}

// Contacts returns the contacts of one group, by group ID.
func (s *Store) Contacts(groupID string) []Contact {
	var out []Contact
	for _, c := range s.contacts.Contacts {
		if c.Group == groupID {
			out = append(out, c)
		}
	}
	return out
}

// ------------------------------ mail --------------------------------

// Accounts returns a copy of all mail accounts.
func (s *Store) Accounts() []Account {
	return append([]Account(nil), s.mail.Accounts...)
}

// Messages returns the messages of one account, or all messages when
// accountID is empty.
func (s *Store) Messages(accountID string) []Message {
	var out []Message
	for _, m := range s.mail.Messages {
		if accountID == "" || m.Account == accountID {
			out = append(out, m)
		}
	}
	return out
}

// ------------------------------ save --------------------------------

func (s *Store) save(name string, v any) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return filesys.AtomicWrite(s.fs, filepath.Join(s.dir, name), append(data, '\n'), 0o644)
}
