package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/convmit/convmit/internal/config"
	"github.com/convmit/convmit/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List all available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		printModels(cmd.OutOrStdout())
		return nil
	},
}

func printModels(w io.Writer) {
	defaultModel := config.DefaultModel
	if cfg, err := config.Get(); err == nil && cfg.DefaultModel != "" {
		defaultModel = cfg.DefaultModel
	}

	color.New(color.FgBlue, color.Bold).Fprintln(w, "Available models:")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALIAS\tMODEL ID\tPROVIDER")
	for _, m := range llm.AllModels() {
		marker := ""
		if m.Alias == defaultModel {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s\n", m.Alias, m.ID, m.Provider.DisplayName(), marker)
	}
	tw.Flush()
}
