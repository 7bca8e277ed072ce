// Login command: resolve a station secret to a role.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/internal/auth"
)

var flagLoginSecret string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check a station secret and print the granted role",
	Long: `Resolve a secret against the configured role secrets. Station
frontends shell out to this to decide whether to show the admin panel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := flagLoginSecret
		if secret == "" {
			fmt.Print("secret: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			secret = strings.TrimSpace(line)
		}

		role, err := cfg.Auth.Login(secret)
		if err != nil {
			return err
		}
		fmt.Println(role)
		return nil
	},
}

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "Print a bcrypt hash for config.yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagLoginSecret, "secret", "", "secret to check (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(hashSecretCmd)
}
