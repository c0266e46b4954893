package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known module identities",
	Long: `Prints every module identity the registry knows about, loaded or not.
With --top, realizes and prints only top-level modules (forcing submodules to
load as a side effect), optionally filtered by an identity prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		eng, err := newEngine(log)
		if err != nil {
			return err
		}

		top, _ := cmd.Flags().GetBool("top")
		prefix, _ := cmd.Flags().GetString("prefix")

		if !top {
			for _, name := range eng.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		var pred func(string) bool
		if prefix != "" {
			pred = func(path string) bool { return strings.HasPrefix(path, prefix) }
		}
		defs, err := eng.List(pred)
		if err != nil {
			return err
		}
		for _, def := range defs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d states)\n", def.Name(), len(def.StateNames()))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("top", false, "realize and list top-level modules only")
	listCmd.Flags().String("prefix", "", "identity prefix filter (implies --top semantics for file-backed modules)")
	rootCmd.AddCommand(listCmd)
}
