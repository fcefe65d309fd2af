package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var logoutYes bool

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the cached session from the credential store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !logoutYes && isInteractive() {
			fmt.Print("⚠️  This will remove the cached Sentinel session. Type 'yes' to confirm: ")
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) != "yes" {
				fmt.Println("❌ Operation cancelled.")
				return nil
			}
		}

		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			if err := app.Manager.Logout(ctx); err != nil {
				return fmt.Errorf("failed to clear credential: %w", err)
			}
			fmt.Printf("✅ Session removed from %s store\n", app.Config.StoreBackend())
			return nil
		})
	},
}
