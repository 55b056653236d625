package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keybin-go/internal/app"
	"keybin-go/internal/config"
	"keybin-go/internal/kb"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, mutedStyle.Render(hint))
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when there is none.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates a KeybinApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "log add").
func newApp(cmd *cobra.Command, operation string) (*app.KeybinApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewKeybinApp(cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// hintFor suggests the next step for errors a user can act on.
func hintFor(err error) string {
	switch {
	case kb.IsSessionFailure(err):
		return "Unlock a profile with: keybin profile switch NAME"
	case errors.Is(err, kb.ErrSessionAlreadyExists):
		return "End the current session first with: keybin profile logout"
	case errors.Is(err, kb.ErrStorage):
		return "A keybin data file is unreadable; check the files under your keybin home."
	default:
		return ""
	}
}

var rootCmd = &cobra.Command{
	Use:           "keybin",
	Short:         "Local credential vault with profiles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror the log to stderr")

	// profile subcommands
	profileCmd.AddCommand(profileWhoamiCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileNewCmd)
	profileNewCmd.Flags().String("path", "", "Vault file location (default: <data_dir>/NAME.json)")
	profileNewCmd.Flags().Bool("switch", false, "Switch to the new profile without asking")
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileLogoutCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	// log subcommands
	logCmd.AddCommand(logAddCmd)
	logAddCmd.Flags().StringP("service", "s", "", "Service name")
	logAddCmd.Flags().StringP("user", "u", "", "User name")
	logAddCmd.Flags().StringP("email", "e", "", "Email address")
	logAddCmd.Flags().StringP("password", "p", "", "Password (prompted without echo when omitted)")
	logAddCmd.Flags().StringSliceP("tags", "t", nil, "Comma separated tags")
	logAddCmd.Flags().Bool("no-prompts", false, "Do not prompt for missing fields")
	logAddCmd.Flags().Bool("autopass", false, "Generate the password")
	logAddCmd.Flags().Bool("symbols", true, "Include symbols in a generated password")
	logAddCmd.Flags().Bool("no-symbols", false, "Generate the password from letters and digits only")
	logAddCmd.Flags().BoolP("copy", "c", false, "Copy a generated password to the clipboard")

	logCmd.AddCommand(logFindCmd)
	logFindCmd.Flags().StringP("service", "s", "", "Match service exactly")
	logFindCmd.Flags().StringP("user", "u", "", "Match user exactly")
	logFindCmd.Flags().StringSliceP("tags", "t", nil, "Match entries carrying all these tags")
	logFindCmd.Flags().Int64("id", 0, "Match the entry with this id")
	logFindCmd.Flags().BoolP("copy", "c", false, "Copy the first result's password to the clipboard")
	logFindCmd.Flags().Bool("show", false, "Show passwords in the results")

	logCmd.AddCommand(logDeleteCmd)
	logDeleteCmd.Flags().Int64("id", 0, "Id of the entry to delete")
	logDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(genpassCmd)
	genpassCmd.Flags().IntP("length", "l", kb.DefaultPasswordLength, "Password length")
	genpassCmd.Flags().BoolP("symbols", "s", true, "Include symbols")
	genpassCmd.Flags().Bool("no-symbols", false, "Use letters and digits only")
	genpassCmd.Flags().BoolP("copy", "c", false, "Copy to the clipboard instead of printing")
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
