package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"keybin-go/internal/kb"
)

var genpassCmd = &cobra.Command{
	Use:     "genpass",
	Aliases: []string{"gp"},
	Short:   "Generate a random password",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetInt("length")
		symbols := wantSymbols(cmd)
		copyPass, _ := cmd.Flags().GetBool("copy")

		password, err := kb.GeneratePassword(symbols, length)
		if err != nil {
			return err
		}

		if copyPass {
			if err := clipboard.WriteAll(password); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Password copied to the clipboard."))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), password)
		return nil
	},
}

// wantSymbols reports whether a generated password should include punctuation.
// Symbols are on unless --no-symbols or --symbols=false is given.
func wantSymbols(cmd *cobra.Command) bool {
	symbols, _ := cmd.Flags().GetBool("symbols")
	noSymbols, _ := cmd.Flags().GetBool("no-symbols")
	return symbols && !noSymbols
}
