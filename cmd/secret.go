package cmd

import (
	"errors"
	"fmt"

	"github.com/chukul/sentinelctl/internal"
	"github.com/spf13/cobra"
)

var (
	secretKeyID string
	secretOut   string
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the encrypted account password",
	Long:  `Manage the KMS-encrypted Sentinel password that login decrypts on demand.`,
}

var secretEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt the Sentinel password with KMS and store the ciphertext",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		keyID := secretKeyID
		if keyID == "" {
			keyID = cfg.KMSKeyID
		}
		if keyID == "" {
			return errors.New("a KMS key is required: pass --key-id or set kms_key_id")
		}
		out := secretOut
		if out == "" {
			out = cfg.CiphertextPath
		}

		password, err := readPassword("Sentinel password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return errors.New("password cannot be empty")
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}

		ctx := cmd.Context()
		awsCfg, err := internal.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return err
		}
		encoded, err := internal.EncryptSecret(ctx, internal.NewKMSClient(awsCfg), keyID, password)
		if err != nil {
			return err
		}
		if err := internal.WriteCiphertext(out, encoded); err != nil {
			return err
		}

		fmt.Printf("✅ Encrypted password written to %s\n", out)
		fmt.Printf("   Key: %s (%s)\n", keyID, cfg.Region)
		return nil
	},
}

func init() {
	secretEncryptCmd.Flags().StringVar(&secretKeyID, "key-id", "", "KMS key id, ARN or alias (default kms_key_id from config)")
	secretEncryptCmd.Flags().StringVarP(&secretOut, "out", "o", "", "Ciphertext file (default ciphertext_path from config)")
	secretCmd.AddCommand(secretEncryptCmd)
	rootCmd.AddCommand(secretCmd)
}
