package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"keybin-go/internal/kb"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Add, find and delete credential entries",
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a credential entry in the active profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		noPrompts, _ := flags.GetBool("no-prompts")
		autopass, _ := flags.GetBool("autopass")
		symbols := wantSymbols(cmd)
		copyPass, _ := flags.GetBool("copy")

		var in kb.NewEntry
		in.Service, _ = flags.GetString("service")
		in.User, _ = flags.GetString("user")
		in.Email, _ = flags.GetString("email")
		in.Password, _ = flags.GetString("password")
		in.Tags, _ = flags.GetStringSlice("tags")

		a, err := newApp(cmd, "log add")
		if err != nil {
			return err
		}
		defer a.Close()

		// Fail before prompting when nothing is unlocked.
		if _, err := a.WhoAmI(); err != nil {
			return err
		}

		if autopass && in.Password == "" {
			if in.Password, err = kb.GeneratePassword(symbols, kb.DefaultPasswordLength); err != nil {
				return err
			}
		}

		if !noPrompts {
			if err := promptEntry(newPrompter(cmd), &in, flags.Changed("tags")); err != nil {
				return err
			}
		}

		if in.Service == "" && in.User == "" && in.Email == "" && in.Password == "" {
			return errors.New("nothing to store: give at least a service, user, email or password")
		}

		entry, err := a.AddEntry(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s log #%d\n", successStyle.Render("Added"), entry.ID)

		if autopass {
			if copyPass {
				if err := clipboard.WriteAll(entry.Password); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Generated password copied to the clipboard.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", entry.Password)
			}
		}
		return nil
	},
}

// promptEntry asks for every field that was not given on the command line.
func promptEntry(p *prompter, in *kb.NewEntry, tagsGiven bool) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Service", &in.Service},
		{"User", &in.User},
		{"Email", &in.Email},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := p.Line(f.label)
		if err != nil {
			return err
		}
		*f.value = v
	}

	if in.Password == "" {
		pw, err := p.Secret("Password")
		if err != nil {
			return err
		}
		in.Password = pw
	}

	if !tagsGiven {
		line, err := p.Line("Tags (comma separated)")
		if err != nil {
			return err
		}
		in.Tags = splitTags(line)
	}
	return nil
}

var logFindCmd = &cobra.Command{
	Use:   "find [QUERY]",
	Short: "Search the active profile",
	Long: `Search the active profile.

With QUERY, entries are ranked by fuzzy similarity of their service, user,
email and tags. QUERY "all" lists every entry. Without QUERY the flags are
matched exactly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		copyPass, _ := flags.GetBool("copy")
		show, _ := flags.GetBool("show")

		var filter kb.ExactFilter
		filter.ID, _ = flags.GetInt64("id")
		filter.Service, _ = flags.GetString("service")
		filter.User, _ = flags.GetString("user")
		filter.Tags, _ = flags.GetStringSlice("tags")

		var text string
		if len(args) > 0 {
			text = args[0]
		}
		q := kb.ParseQuery(text, filter)

		a, err := newApp(cmd, "log find")
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Find(q)
		if errors.Is(err, kb.ErrNoLogFound) || (err == nil && len(results) == 0) {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		if err != nil {
			return err
		}

		_, fuzzy := q.(kb.FreeText)
		headers, rows := entryRows(results, show, fuzzy)
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))

		if copyPass {
			first := results[0].Entry
			if first.Password == "" {
				return fmt.Errorf("log #%d has no password to copy", first.ID)
			}
			if err := clipboard.WriteAll(first.Password); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password of log #%d copied to the clipboard.\n", first.ID)
		}
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete an entry from the active profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt64("id")
		yes, _ := cmd.Flags().GetBool("yes")
		if len(args) > 0 {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			id = parsed
		}
		if id <= 0 {
			return errors.New("an entry id is required")
		}

		a, err := newApp(cmd, "log delete")
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Find(kb.ExactFilter{ID: id})
		if err != nil {
			return err
		}

		if !yes {
			e := results[0].Entry
			ok, err := newPrompter(cmd).Confirm(fmt.Sprintf("Delete log #%d (%s)?", e.ID, describeEntry(e)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := a.DeleteEntry(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s log #%d\n", successStyle.Render("Deleted"), id)
		return nil
	},
}

// describeEntry names an entry by its first non-empty identifying field.
func describeEntry(e *kb.CredentialEntry) string {
	for _, s := range []string{e.Service, e.User, e.Email} {
		if s != "" {
			return s
		}
	}
	return "unnamed"
}
