package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lc/pimguard/internal/pimstore"
	"github.com/lc/pimguard/internal/policy"
)

func calendarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "Work with calendars",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List policy-visible calendars",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainCalendars); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			cfg, _ := eng.Resolved().DomainConfig(policy.DomainCalendars)
			cals := policy.FilterCollection(store.Calendars(), cfg,
				func(cal pimstore.Calendar) string { return cal.Name },
				func(cal pimstore.Calendar) string { return cal.ID })
			if len(cals) == 0 {
				color.Yellow("No calendars visible under the active policy.")
				return nil
			}

			table := newTable("Name", "ID", "Default")
			for _, cal := range cals {
				def := ""
				if cal.Default {
					def = "Yes"
				}
				table.Append([]string{cal.Name, cal.ID, def})
			}
			table.Render()
			return nil
		},
	})
	return cmd
}

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Work with calendar events",
	}
	cmd.AddCommand(eventsListCmd(), eventsAddCmd())
	return cmd
}

func eventsListCmd() *cobra.Command {
	var calendar string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in one calendar",
		Long: `List shows the events of the target calendar: --calendar if given, else
the configured default calendar, else the platform default.`,
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainCalendars); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			target, err := eng.ResolveTarget(c.Context(), policy.DomainCalendars, calendar, store.CalendarLookup())
			if err != nil {
				return err
			}

			events := store.Events(target.ID)
			if len(events) == 0 {
				color.Yellow("No events in %q.", target.Name)
				return nil
			}
			table := newTable("Title", "Start", "End", "ID")
			for _, ev := range events {
				table.Append([]string{ev.Title, ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339), ev.ID})
			}
			color.New(color.Bold).Printf("EVENTS IN %s:\n", target.Name)
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&calendar, "calendar", "", "calendar name or id")
	return cmd
}

func eventsAddCmd() *cobra.Command {
	var (
		calendar, title, notes string
		start, end             string
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create an event",
		Example: `pimguard events add --title "1:1" --start 2026-09-01T10:00:00Z --end 2026-09-01T10:30:00Z`,
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainCalendars); err != nil {
				return err
			}
			// Write gate runs before the store is even opened, so a denied
			// target produces zero side effects.
			if err := eng.ValidateForWrite(policy.DomainCalendars, calendar); err != nil {
				return err
			}

			startAt, err := parseTime(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endAt := startAt.Add(time.Hour)
			if end != "" {
				if endAt, err = parseTime(end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}

			store, err := openStore(c)
			if err != nil {
				return err
			}
			target, err := eng.ResolveTarget(c.Context(), policy.DomainCalendars, calendar, store.CalendarLookup())
			if err != nil {
				return err
			}

			ev, err := store.AddEvent(pimstore.Event{
				Calendar: target.ID,
				Title:    title,
				Start:    startAt,
				End:      endAt,
				Notes:    notes,
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen, color.Bold).Printf("✓ created event ")
			color.New(color.FgHiGreen, color.Bold).Printf("%s ", ev.Title)
			color.New(color.FgGreen, color.Bold).Printf("in ")
			color.New(color.FgHiYellow, color.Bold).Printf("%s\n", target.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&calendar, "calendar", "", "calendar name or id (default: configured or platform default)")
	cmd.Flags().StringVar(&title, "title", "", "event title")
	cmd.Flags().StringVar(&start, "start", "", "start time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end time (default: one hour after start)")
	cmd.Flags().StringVar(&notes, "notes", "", "event notes")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

// parseTime accepts the formats automated callers actually send.
// Natural-language dates are out of scope.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
