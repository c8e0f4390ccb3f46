package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/gravitee"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		url      string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the management API",
		Long:  "Authenticate against the management API and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = viper.GetString("url")
			}

			if url == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Management API URL: ")
				url, _ = reader.ReadString('\n')
				url = strings.TrimSpace(url)
			}

			if url == "" {
				return constants.ErrNoURLConfigured
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if username == "" {
				return constants.ErrUsernameRequired
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			if password == "" {
				return constants.ErrPasswordRequired
			}

			client, err := gravitee.New(cmd.Context(), &apim.Config{
				BaseURL:   url,
				Username:  username,
				Password:  password,
				StrictTLS: !viper.GetBool("insecure-skip-verify"),
				Logger:    newLogger(),
			})
			if err != nil {
				return err
			}

			if err := client.Login(cmd.Context()); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			// Verify the session and greet the user.
			user, err := client.Users().Current(cmd.Context())
			if err != nil {
				return fmt.Errorf("verifying session: %w", err)
			}

			token, err := client.Token(cmd.Context())
			if err != nil {
				return fmt.Errorf("retrieving session token: %w", err)
			}

			config := loadConfig()
			config.URL = url
			config.Username = username
			config.Token = token

			if err := saveConfig(config); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s as %s\n", url, user.DisplayName)

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "management API base URL")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from the management API",
		Long:  "Invalidate the server-side session and drop the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token == "" {
				return constants.ErrNotLoggedIn
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not invalidate the session: %v\n", err)
			}

			config.Token = ""
			if err := saveConfig(config); err != nil {
				return fmt.Errorf("saving configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}
