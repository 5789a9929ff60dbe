package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lc/pimguard/internal/pimstore"
	"github.com/lc/pimguard/internal/policy"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Work with reminder lists and reminders",
	}
	cmd.AddCommand(reminderListsCmd(), remindersListCmd(), remindersAddCmd(), remindersCompleteCmd())
	return cmd
}

func reminderListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List policy-visible reminder lists",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainReminders); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			cfg, _ := eng.Resolved().DomainConfig(policy.DomainReminders)
			lists := policy.FilterCollection(store.ReminderLists(), cfg,
				func(l pimstore.ReminderList) string { return l.Name },
				func(l pimstore.ReminderList) string { return l.ID })
			if len(lists) == 0 {
				color.Yellow("No reminder lists visible under the active policy.")
				return nil
			}

			table := newTable("Name", "ID", "Default")
			for _, l := range lists {
				def := ""
				if l.Default {
					def = "Yes"
				}
				table.Append([]string{l.Name, l.ID, def})
			}
			table.Render()
			return nil
		},
	}
}

func remindersListCmd() *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders in one list",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainReminders); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			target, err := eng.ResolveTarget(c.Context(), policy.DomainReminders, list, store.ReminderListLookup())
			if err != nil {
				return err
			}

			reminders := store.Reminders(target.ID)
			if len(reminders) == 0 {
				color.Yellow("No reminders in %q.", target.Name)
				return nil
			}
			table := newTable("Title", "Due", "Done", "ID")
			for _, r := range reminders {
				due := ""
				if !r.Due.IsZero() {
					due = r.Due.Format(time.RFC3339)
				}
				done := ""
				if r.Done {
					done = "Yes"
				}
				table.Append([]string{r.Title, due, done, r.ID})
			}
			color.New(color.Bold).Printf("REMINDERS IN %s:\n", target.Name)
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "reminder list name or id")
	return cmd
}

func remindersAddCmd() *cobra.Command {
	var list, title, due string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a reminder",
		Example: `pimguard reminders add --title "Buy milk" --due 2026-09-02`,
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainReminders); err != nil {
				return err
			}
			if err := eng.ValidateForWrite(policy.DomainReminders, list); err != nil {
				return err
			}

			var dueAt time.Time
			if due != "" {
				if dueAt, err = parseTime(due); err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
			}

			store, err := openStore(c)
			if err != nil {
				return err
			}
			target, err := eng.ResolveTarget(c.Context(), policy.DomainReminders, list, store.ReminderListLookup())
			if err != nil {
				return err
			}

			r, err := store.AddReminder(pimstore.Reminder{
				List:  target.ID,
				Title: title,
				Due:   dueAt,
			})
			if err != nil {
				return err
			}

			color.New(color.FgGreen, color.Bold).Printf("✓ added reminder ")
			color.New(color.FgHiGreen, color.Bold).Printf("%s ", r.Title)
			color.New(color.FgGreen, color.Bold).Printf("to ")
			color.New(color.FgHiYellow, color.Bold).Printf("%s\n", target.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "reminder list name or id (default: configured or platform default)")
	cmd.Flags().StringVar(&title, "title", "", "reminder title")
	cmd.Flags().StringVar(&due, "due", "", "due time (RFC3339 or YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func remindersCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a reminder done",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainReminders); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			r, ok := store.ReminderByID(args[0])
			if !ok {
				return fmt.Errorf("reminder %q: %w", args[0], policy.ErrNotFound)
			}
			owner, ok := store.ReminderListByID(r.List)
			if !ok {
				return fmt.Errorf("reminder list %q: %w", r.List, policy.ErrNotFound)
			}
			// The owning list must be writable before the reminder is touched.
			if err := eng.ValidateForWrite(policy.DomainReminders, owner.Name); err != nil {
				return err
			}

			if _, err := store.CompleteReminder(r.ID); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ completed ")
			color.New(color.FgHiGreen, color.Bold).Printf("%s\n", r.Title)
			return nil
		},
	}
}
