package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lc/pimguard/internal/policy"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the access configuration",
	}
	cmd.AddCommand(configShowCmd(), configInitCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved access configuration",
		Long: `Show prints the configuration in effect for this invocation: the base
config merged with the selected profile, if any. Output is YAML for
humans; use --json for machine consumption.`,
		Example: "pimguard config show --profile work",
		RunE: func(_ *cobra.Command, _ []string) error {
			res, err := policy.NewLoader().Load(profileFlag)
			if err != nil {
				return err
			}
			var out []byte
			if asJSON {
				out, err = json.MarshalIndent(res, "", "  ")
			} else {
				out, err = yaml.Marshal(res)
			}
			if err != nil {
				return fmt.Errorf("encoding resolved config: %w", err)
			}
			fmt.Print(string(out))
			if asJSON {
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default all-access base configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			loader := policy.NewLoader()
			if !force {
				if _, err := os.Stat(loader.BasePath()); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", loader.BasePath())
				}
			}
			if err := policy.NewWriter().WriteBase(policy.Default()); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ wrote %s\n", loader.BasePath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing base config")
	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named access profiles",
		Long: `Profiles are named overrides stored under profiles/ in the config root.
A profile replaces whole sections of the base configuration for one
invocation; absent sections are inherited.`,
	}
	cmd.AddCommand(profileCreateCmd(), profileListCmd(), profileShowCmd())
	return cmd
}

func profileCreateCmd() *cobra.Command {
	var (
		calendars, reminders, contacts       []string
		mode                                 string
		noMail                               bool
		defaultCalendar, defaultReminderList string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile narrowing access for one caller",
		Long: `Create writes profiles/<name>.json. Each domain flag that is set
produces a whole replacement section; domains without a flag inherit from
the base configuration.`,
		Example: `pimguard profile create work --calendars Work,Team --no-mail`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			m := policy.Mode(mode)
			if m != policy.ModeAllowlist && m != policy.ModeBlocklist {
				return fmt.Errorf("invalid --mode %q (expected %s or %s)", mode, policy.ModeAllowlist, policy.ModeBlocklist)
			}

			ov := &policy.Override{}
			if cmd.Flags().Changed("calendars") {
				ov.Calendars = &policy.DomainConfig{Enabled: true, Mode: m, Items: calendars}
			}
			if cmd.Flags().Changed("reminders") {
				ov.Reminders = &policy.DomainConfig{Enabled: true, Mode: m, Items: reminders}
			}
			if cmd.Flags().Changed("contacts") {
				ov.Contacts = &policy.DomainConfig{Enabled: true, Mode: m, Items: contacts}
			}
			if noMail {
				ov.Mail = &policy.MailConfig{Enabled: false}
			}
			if cmd.Flags().Changed("default-calendar") {
				ov.DefaultCalendar = &defaultCalendar
			}
			if cmd.Flags().Changed("default-reminder-list") {
				ov.DefaultReminderList = &defaultReminderList
			}

			if ov.Empty() {
				color.Yellow("profile %q overrides nothing; it will behave exactly like the base config", name)
			}
			if err := policy.NewWriter().WriteProfile(name, ov); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ wrote %s\n", policy.NewLoader().ProfilePath(name))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&calendars, "calendars", nil, "calendar names/ids for the calendars section")
	cmd.Flags().StringSliceVar(&reminders, "reminders", nil, "list names/ids for the reminders section")
	cmd.Flags().StringSliceVar(&contacts, "contacts", nil, "group names/ids for the contacts section")
	cmd.Flags().StringVar(&mode, "mode", string(policy.ModeAllowlist), "filter mode for the domain flags (allowlist or blocklist)")
	cmd.Flags().BoolVar(&noMail, "no-mail", false, "disable the mail domain in this profile")
	cmd.Flags().StringVar(&defaultCalendar, "default-calendar", "", "default calendar for create operations")
	cmd.Flags().StringVar(&defaultReminderList, "default-reminder-list", "", "default reminder list for create operations")
	return cmd
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles on disk",
		RunE: func(_ *cobra.Command, _ []string) error {
			names, err := policy.NewLoader().ListProfiles()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				color.Yellow("No profiles found.")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print one profile's override sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			if err := policy.ValidateProfileName(name); err != nil {
				return err
			}
			ov, err := policy.NewLoader().LoadProfile(name)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(ov, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding profile: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
