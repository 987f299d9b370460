package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/credential"
	"github.com/nhle/mailbuckets/internal/model"
)

var loginAddress string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the IMAP app password in the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, cleanup, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		address := loginAddress
		if address == "" {
			address = e.cfg.Mail.Address
		}

		var password string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Value(&address).
				Validate(func(s string) error {
					return model.MailConfig{Address: strings.TrimSpace(s), Password: "-"}.Validate()
				}),
			huh.NewInput().
				Title("App password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("reading credentials: %w", err)
		}
		address = strings.TrimSpace(address)

		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Set(credential.MailPasswordKey(address), password); err != nil {
			return err
		}
		e.logger.Info("stored mail password", zap.String("address", address))

		if e.cfg.Mail.Address != address {
			e.cfg.Mail.Address = address
			if err := model.SaveConfig(configPath, e.cfg); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved password for %s\n", address)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored IMAP password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, cleanup, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		address := loginAddress
		if address == "" {
			address = e.cfg.Mail.Address
		}
		if address == "" {
			return errors.New("no account configured, pass --address")
		}

		creds, err := credential.Open()
		if err != nil {
			return err
		}
		if err := creds.Delete(credential.MailPasswordKey(address)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed password for %s\n", address)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginAddress, "address", "", "Email address (defaults to mail.address in the config)")
	logoutCmd.Flags().StringVar(&loginAddress, "address", "", "Email address (defaults to mail.address in the config)")
}
