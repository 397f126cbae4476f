package cmd

import (
	"os"

	"github.com/MeKo-Tech/pagekit/internal/config"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
	"github.com/MeKo-Tech/pagekit/internal/tools"
	"github.com/spf13/cobra"
)

// Password environment variables. They are read after the .env file is
// loaded, so either source works.
const (
	envPassword      = config.EnvPrefix + "_PASSWORD"
	envOwnerPassword = config.EnvPrefix + "_OWNER_PASSWORD"
)

// secret returns the flag value when set, else the environment variable.
func secret(cmd *cobra.Command, flag, env string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return os.Getenv(env)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [files or folders...]",
	Short: "Protect each PDF with a password (AES)",
	Long: `Encrypt each PDF with AES. The owner password defaults to the user
password. Passwords can also come from ` + envPassword + ` and
` + envOwnerPassword + `.

Examples:
  pagekit encrypt --password s3cret
  ` + envPassword + `=s3cret pagekit encrypt --key-length 128`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		keyLength := currentConfig().Security.KeyLength
		if cmd.Flags().Changed("key-length") {
			keyLength, _ = cmd.Flags().GetInt("key-length")
		}
		fn, err := tools.Encrypt(pdf.PasswordCredentials{
			UserPassword:  secret(cmd, "password", envPassword),
			OwnerPassword: secret(cmd, "owner-password", envOwnerPassword),
		}, keyLength)
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameEncrypt, tools.PDFExtensions, fn)
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [files or folders...]",
	Short: "Remove the password protection of each PDF",
	Long: `Decrypt each PDF with the given password. Documents that are not
encrypted are copied unchanged.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, err := tools.Decrypt(secret(cmd, "password", envPassword))
		if err != nil {
			return err
		}
		return runTool(cmd, args, tools.NameDecrypt, tools.PDFExtensions, fn)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd, decryptCmd)

	encryptCmd.Flags().String("password", "", "user password (or "+envPassword+")")
	encryptCmd.Flags().String("owner-password", "", "owner password (default: the user password)")
	encryptCmd.Flags().Int("key-length", pdf.KeyLength256, "AES key length (128, 256)")

	decryptCmd.Flags().String("password", "", "password (or "+envPassword+")")
}
