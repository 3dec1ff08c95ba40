// AngelaMos | 2026
// keys.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/eatme/internal/auth"
)

var keysFlags struct {
	PrivateKeyPath string
	PublicKeyPath  string
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage token signing keys",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an ES256 key pair for signing authentication tokens",
	Args:  cobra.NoArgs,
	RunE:  generateKeys,
}

func init() {
	keysGenerateCmd.Flags().StringVar(&keysFlags.PrivateKeyPath, "private", "keys/private.pem", "private key output path")
	keysGenerateCmd.Flags().StringVar(&keysFlags.PublicKeyPath, "public", "keys/public.pem", "public key output path")
	keysCmd.AddCommand(keysGenerateCmd)
	rootCmd.AddCommand(keysCmd)
}

func generateKeys(cmd *cobra.Command, _ []string) error {
	for _, path := range []string{keysFlags.PrivateKeyPath, keysFlags.PublicKeyPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}

	if _, err := os.Stat(keysFlags.PrivateKeyPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", keysFlags.PrivateKeyPath)
	}

	if err := auth.GenerateKeyPair(keysFlags.PrivateKeyPath, keysFlags.PublicKeyPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Private key: %s\n", keysFlags.PrivateKeyPath)
	fmt.Fprintf(out, "Public key:  %s\n", keysFlags.PublicKeyPath)
	fmt.Fprintln(out, "Keep the private key secret; tokens signed with it are trusted by the API.")
	return nil
}
