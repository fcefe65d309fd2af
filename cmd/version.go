package cmd

import (
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentinelctl version %s\n", internal.CurrentVersion)
		fmt.Printf("User-Agent: %s\n", internal.UserAgent())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
