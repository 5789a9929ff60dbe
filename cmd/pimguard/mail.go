package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lc/pimguard/internal/policy"
)

func mailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Work with mail accounts and messages (read-only)",
		Long: `Mail carries no item-level filtering: the domain is either enabled or
disabled, and accounts are managed by the mail client itself.`,
	}
	cmd.AddCommand(mailStatusCmd(), mailListCmd())
	return cmd
}

func mailStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether mail access is enabled and which accounts exist",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if !eng.IsDomainEnabled(policy.DomainMail) {
				color.New(color.FgHiRed, color.Bold).Println("mail: disabled")
				return nil
			}
			color.New(color.FgGreen, color.Bold).Println("mail: enabled")

			store, err := openStore(c)
			if err != nil {
				return err
			}
			for _, a := range store.Accounts() {
				color.New(color.FgHiWhite).Printf("  %s <%s>\n", a.Name, a.Address)
			}
			return nil
		},
	}
}

func mailListCmd() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List message headers, optionally scoped to one account",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainMail); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			accountID := ""
			if account != "" {
				found := false
				for _, a := range store.Accounts() {
					if a.ID == account || a.Name == account || a.Address == account {
						accountID = a.ID
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("mail account %q: %w", account, policy.ErrNotFound)
				}
			}

			msgs := store.Messages(accountID)
			if len(msgs) == 0 {
				color.Yellow("No messages.")
				return nil
			}
			table := newTable("From", "Subject", "Received", "Unread")
			for _, m := range msgs {
				unread := ""
				if m.Unread {
					unread = "Yes"
				}
				table.Append([]string{m.From, m.Subject, m.Received.Format(time.RFC3339), unread})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account id, name or address")
	return cmd
}
