package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lc/pimguard/internal/pimstore"
	"github.com/lc/pimguard/internal/policy"
)

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Work with contact groups and contacts",
	}
	cmd.AddCommand(contactGroupsCmd(), contactsListCmd())
	return cmd
}

func contactGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List policy-visible contact groups",
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainContacts); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			groups := visibleGroups(eng, store)
			if len(groups) == 0 {
				color.Yellow("No contact groups visible under the active policy.")
				return nil
			}
			table := newTable("Name", "ID")
			for _, g := range groups {
				table.Append([]string{g.Name, g.ID})
			}
			table.Render()
			return nil
		},
	}
}

func contactsListCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, optionally scoped to one group",
		Long: `With --group, list the contacts of that group (it must exist and be
visible). Without it, list the contacts of every visible group.`,
		RunE: func(c *cobra.Command, _ []string) error {
			eng, err := loadEngine()
			if err != nil {
				return err
			}
			if err := eng.RequireDomain(policy.DomainContacts); err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}

			var groups []pimstore.ContactGroup
			if group != "" {
				target, err := eng.ResolveTarget(c.Context(), policy.DomainContacts, group, store.ContactGroupLookup())
				if err != nil {
					return err
				}
				for _, g := range store.ContactGroups() {
					if g.ID == target.ID {
						groups = append(groups, g)
					}
				}
			} else {
				groups = visibleGroups(eng, store)
			}

			table := newTable("Name", "Email", "Group", "ID")
			rows := 0
			for _, g := range groups {
				for _, ct := range store.Contacts(g.ID) {
					table.Append([]string{ct.Name, ct.Email, g.Name, ct.ID})
					rows++
				}
			}
			if rows == 0 {
				color.Yellow("No contacts visible under the active policy.")
				return nil
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "contact group name or id")
	return cmd
}

func visibleGroups(eng *policy.Engine, store *pimstore.Store) []pimstore.ContactGroup {
	cfg, _ := eng.Resolved().DomainConfig(policy.DomainContacts)
	return policy.FilterCollection(store.ContactGroups(), cfg,
		func(g pimstore.ContactGroup) string { return g.Name },
		func(g pimstore.ContactGroup) string { return g.ID })
}
