package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/bancs-mcp/internal/common"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "bancs-mcp version %s\n", common.GetFullVersion())
		},
	}
}
