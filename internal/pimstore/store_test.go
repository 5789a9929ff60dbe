package pimstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lc/pimguard/internal/filesys"
	"github.com/lc/pimguard/internal/pimstore"
	"github.com/lc/pimguard/internal/policy"
)

type StoreTestSuite struct {
	suite.Suite
	ctx context.Context
	dir string
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()
}

func (s *StoreTestSuite) open() *pimstore.Store {
	store, err := pimstore.OpenDir(s.ctx, filesys.OS(), s.dir)
	s.Require().NoError(err)
	return store
}

func (s *StoreTestSuite) seed(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644))
}

func (s *StoreTestSuite) TestOpenEmptyDir() {
	store := s.open()

	s.Empty(store.Calendars())
	s.Empty(store.ReminderLists())
	s.Empty(store.ContactGroups())
	s.Empty(store.Accounts())
}

func (s *StoreTestSuite) TestOpenMalformedFile() {
	s.seed("calendars.json", `{"calendars": [`)

	_, err := pimstore.OpenDir(s.ctx, filesys.OS(), s.dir)
	s.Require().Error(err)
	s.Contains(err.Error(), "decoding calendars.json")
}

func (s *StoreTestSuite) TestAddEventPersists() {
	s.seed("calendars.json", `{
		"calendars": [{"id": "cal-1", "name": "Work", "default": true}]
	}`)
	store := s.open()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ev, err := store.AddEvent(pimstore.Event{
		Calendar: "cal-1",
		Title:    "Standup",
		Start:    start,
		End:      start.Add(30 * time.Minute),
	})
	s.Require().NoError(err)
	s.NotEmpty(ev.ID)

	// A fresh open must see the event: the write went to disk.
	reopened := s.open()
	events := reopened.Events("cal-1")
	s.Require().Len(events, 1)
	s.Equal("Standup", events[0].Title)
	s.Equal(ev.ID, events[0].ID)
}

func (s *StoreTestSuite) TestAddEventUnknownCalendar() {
	store := s.open()

	_, err := store.AddEvent(pimstore.Event{Calendar: "nope", Title: "X"})
	s.ErrorIs(err, policy.ErrNotFound)
}

func (s *StoreTestSuite) TestReminderFlow() {
	s.seed("reminders.json", `{
		"lists": [{"id": "list-1", "name": "Inbox", "default": true}]
	}`)
	store := s.open()

	r, err := store.AddReminder(pimstore.Reminder{List: "list-1", Title: "Buy milk"})
	s.Require().NoError(err)

	done, err := store.CompleteReminder(r.ID)
	s.Require().NoError(err)
	s.True(done.Done)

	reopened := s.open()
	reminders := reopened.Reminders("list-1")
	s.Require().Len(reminders, 1)
	s.True(reminders[0].Done)

	_, err = store.CompleteReminder("ghost")
	s.ErrorIs(err, policy.ErrNotFound)
}

func (s *StoreTestSuite) TestCalendarLookup() {
	s.seed("calendars.json", `{
		"calendars": [
			{"id": "cal-1", "name": "Work"},
			{"id": "cal-2", "name": "Home", "default": true}
		]
	}`)
	store := s.open()
	lk := store.CalendarLookup()

	items, err := lk.Items(s.ctx)
	s.Require().NoError(err)
	s.Equal([]policy.Item{{ID: "cal-1", Name: "Work"}, {ID: "cal-2", Name: "Home"}}, items)

	def, err := lk.DefaultItem(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(def)
	s.Equal("cal-2", def.ID)
}

func (s *StoreTestSuite) TestLookupsWithoutDefaults() {
	s.seed("contacts.json", `{"groups": [{"id": "g1", "name": "Friends"}]}`)
	store := s.open()

	def, err := store.CalendarLookup().DefaultItem(s.ctx)
	s.Require().NoError(err)
	s.Nil(def)

	def, err = store.ContactGroupLookup().DefaultItem(s.ctx)
	s.Require().NoError(err)
	s.Nil(def, "contact groups never have a platform default")
}

func (s *StoreTestSuite) TestMessages() {
	s.seed("mail.json", `{
		"accounts": [{"id": "acc-1", "name": "Work", "address": "me@example.com"}],
		"messages": [
			{"id": "m1", "account": "acc-1", "from": "a@example.com", "subject": "Hi", "received": "2026-08-30T09:00:00Z"},
			{"id": "m2", "account": "acc-2", "from": "b@example.com", "subject": "Yo", "received": "2026-08-30T10:00:00Z"}
		]
	}`)
	store := s.open()

	s.Len(store.Messages(""), 2)
	s.Len(store.Messages("acc-1"), 1)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
