package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keybin-go/internal/kb"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles and sessions",
}

var profileWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the unlocked profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "profile whoami")
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.WhoAmI()
		if err != nil {
			return err
		}

		left := time.Until(s.ExpiresAt).Truncate(time.Second)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", activeStyle.Render(s.Profile), mutedStyle.Render(fmt.Sprintf("(session expires in %s)", left)))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "profile list")
		if err != nil {
			return err
		}
		defer a.Close()

		profiles, active, err := a.ListProfiles()
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(profiles))
		for _, p := range profiles {
			marker, name := "", p.Name
			if p.Name == active {
				marker, name = "*", activeStyle.Render(p.Name)
			}
			locked := "no"
			if p.Locked() {
				locked = "yes"
			}
			rows = append(rows, []string{marker, name, locked, p.DataPath})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"", "Profile", "Master key", "Data path"}, rows))
		return nil
	},
}

var profileNewCmd = &cobra.Command{
	Use:   "new [NAME]",
	Short: "Create a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataPath, _ := cmd.Flags().GetString("path")
		switchNow, _ := cmd.Flags().GetBool("switch")
		p := newPrompter(cmd)

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			var err error
			if name, err = p.Line("Profile name"); err != nil {
				return err
			}
		}

		if !cmd.Flags().Changed("path") {
			var err error
			if dataPath, err = p.Line("Vault path (empty for default)"); err != nil {
				return err
			}
		}

		key, err := p.NewSecret("Master key (empty for none)")
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "profile new")
		if err != nil {
			return err
		}
		defer a.Close()

		profile, err := a.CreateProfile(name, key, dataPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s profile %s at %s\n", successStyle.Render("Created"), profile.Name, profile.DataPath)

		if !switchNow {
			if switchNow, err = p.Confirm("Switch to " + profile.Name + " now?"); err != nil {
				return err
			}
		}
		if !switchNow {
			return nil
		}

		if _, err := a.SwitchProfile(profile.Name, key); err != nil {
			if errors.Is(err, kb.ErrSessionAlreadyExists) {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Another profile is unlocked; log out before switching."))
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n", successStyle.Render("Switched"), activeStyle.Render(profile.Name))
		return nil
	},
}

var profileSwitchCmd = &cobra.Command{
	Use:   "switch NAME",
	Short: "Unlock a profile and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp(cmd, "profile switch")
		if err != nil {
			return err
		}
		defer a.Close()

		var key string
		if profile, err := a.Profile(name); err == nil && profile.Locked() {
			if key, err = newPrompter(cmd).Secret("Master key"); err != nil {
				return err
			}
		}

		s, err := a.SwitchProfile(name, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s to %s %s\n", successStyle.Render("Switched"), activeStyle.Render(s.Profile),
			mutedStyle.Render(fmt.Sprintf("(session valid for %s)", kb.SessionTTL)))
		return nil
	},
}

var profileLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "profile logout")
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.Logout()
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s of %s\n", successStyle.Render("Logged out"), name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a profile and its vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		yes, _ := cmd.Flags().GetBool("yes")
		if name == kb.DefaultProfile {
			return kb.ErrProtectedProfile
		}

		a, err := newApp(cmd, "profile delete")
		if err != nil {
			return err
		}
		defer a.Close()

		profile, err := a.Profile(name)
		if err != nil {
			return err
		}

		p := newPrompter(cmd)
		var key string
		if profile.Locked() {
			if key, err = p.Secret("Master key of " + name); err != nil {
				return err
			}
		} else if !yes {
			ok, err := p.Confirm(fmt.Sprintf("Delete profile %s and every entry in %s?", name, profile.DataPath))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := a.DeleteProfile(name, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s profile %s\n", successStyle.Render("Deleted"), name)
		return nil
	},
}
