package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/chukul/sentinelctl/internal"
	"github.com/chukul/sentinelctl/internal/ui"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  `Prompt for the Sentinel account and write ~/.sentinelctl/config.yaml (or --config).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = internal.DefaultConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists; pass --force to overwrite", path)
		}
		if !isInteractive() {
			return errors.New("init needs a terminal; write the config file by hand instead")
		}

		cfg := internal.DefaultConfig()

		username, err := ui.GetInput("Sentinel username (email)", "", false)
		if err != nil {
			return err
		}
		if username == "" {
			return errors.New("username cannot be empty")
		}
		cfg.Username = username

		if cfg.Region, err = ui.GetInput("AWS region of the KMS key", cfg.Region, false); err != nil {
			return err
		}
		if cfg.KMSKeyID, err = ui.GetInput("KMS key id or alias (optional)", "", false); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Write(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("✅ Config written to %s\n", path)
		fmt.Println("💡 Next steps:")
		fmt.Println("   sentinelctl secret encrypt   # store the account password")
		fmt.Println("   sentinelctl doctor           # check everything is wired")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
