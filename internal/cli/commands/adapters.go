package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hurley/pkg/adapter"
)

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List registered adapters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Safe", "Available"})

			for _, reg := range adapter.Registrations() {
				available := "yes"
				if _, err := reg.Load(); err != nil {
					available = "no"
				}
				t.AppendRow(table.Row{reg.Name, yesNo(reg.Safe), available})
			}
			t.Render()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
