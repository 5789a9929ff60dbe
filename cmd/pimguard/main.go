// Command pimguard exposes personal-information-management data (calendars,
// reminders, contacts, mail) to automated callers through per-domain
// subcommands, with every access gated by a centrally configured policy.
//
// Usage:
//
//	pimguard config show                       - Print the resolved access configuration
//	pimguard config init                       - Write the default base configuration
//	pimguard profile create work --calendars Work
//	pimguard check calendars "Team Standup"    - Evaluate a name against the policy
//	pimguard calendars list                    - List policy-visible calendars
//	pimguard events add --title "1:1" --start 2026-09-01T10:00:00Z
//	pimguard reminders add --title "Buy milk"
//	pimguard mail list
//
// Profile selection: --profile flag > APPLE_PIM_PROFILE environment
// variable > none (base config only). A requested profile that cannot be
// honored terminates the invocation with a non-zero status.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lc/pimguard/internal/buildinfo"
	"github.com/lc/pimguard/internal/pimstore"
	"github.com/lc/pimguard/internal/policy"
)

var profileFlag string

func main() {
	root := &cobra.Command{
		Use:   "pimguard",
		Short: "Policy-gated access to calendars, reminders, contacts and mail",
		Long: `Pimguard exposes personal-information-management data to automated
callers (agents, scripts). Every domain command consults a central access
policy before reading or mutating anything; named profiles can narrow
access per caller.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&profileFlag, "profile", "",
		"access profile to apply (overrides "+policy.EnvProfile+")")

	root.AddCommand(
		versionCmd(),
		configCmd(),
		profileCmd(),
		checkCmd(),
		calendarsCmd(),
		eventsCmd(),
		remindersCmd(),
		contactsCmd(),
		mailCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}
}

// loadEngine resolves the access configuration once for this invocation.
// Loader failures for a requested profile are fail-closed: the error
// propagates and the process exits non-zero.
func loadEngine() (*policy.Engine, error) {
	res, err := policy.NewLoader().Load(profileFlag)
	if err != nil {
		return nil, err
	}
	return policy.NewEngine(res), nil
}

func openStore(cmd *cobra.Command) (*pimstore.Store, error) {
	return pimstore.Open(cmd.Context())
}

// newTable applies the house table style used by every list command.
func newTable(headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	hc := make([]tablewriter.Colors, len(headers))
	for i := range hc {
		hc[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor}
	}
	table.SetHeaderColor(hc...)
	table.SetBorder(false)
	return table
}

func checkCmd() *cobra.Command {
	var idFlag string
	cmd := &cobra.Command{
		Use:   "check <domain> <name>",
		Short: "Evaluate a name against the active access policy",
		Long: `Check reports whether an item name (optionally with its platform ID)
would be visible under the active configuration and profile. Useful when
authoring profiles.`,
		Example: `pimguard check calendars Travel --profile work`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			domain, err := policy.ParseDomain(args[0])
			if err != nil {
				return err
			}
			eng, err := loadEngine()
			if err != nil {
				return err
			}

			if !eng.IsDomainEnabled(domain) {
				color.New(color.FgHiRed, color.Bold).Printf("✗ domain %s is disabled\n", domain)
				return nil
			}
			if eng.IsAllowed(domain, args[1], idFlag) {
				color.New(color.FgGreen, color.Bold).Printf("✓ %q is allowed in %s\n", args[1], domain)
				return nil
			}
			color.New(color.FgHiRed, color.Bold).Printf("✗ %q is denied in %s\n", args[1], domain)
			return nil
		},
	}
	cmd.Flags().StringVar(&idFlag, "id", "", "platform identifier of the item, if known")
	return cmd
}
