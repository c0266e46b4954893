package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <identity>",
	Short: "Show one module's documentation and state table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		eng, err := newEngine(log)
		if err != nil {
			return err
		}
		def, err := eng.Get(args[0])
		if err != nil {
			return err
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", def.Name())
		for _, remark := range def.Remarks() {
			fmt.Fprintf(&md, "%s\n\n", remark)
		}
		md.WriteString("## States\n\n")
		for _, name := range def.StateNames() {
			fmt.Fprintf(&md, "- %s\n", name)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain || termenv.EnvColorProfile() == termenv.Ascii {
			fmt.Fprint(cmd.OutOrStdout(), md.String())
			return nil
		}

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		out, err := renderer.Render(md.String())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("plain", false, "skip markdown rendering")
	rootCmd.AddCommand(showCmd)
}
