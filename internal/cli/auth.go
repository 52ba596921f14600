package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/credential"
	"github.com/nhle/casebot/internal/input"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the chat-gateway credential",
	}

	setCmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store the gateway API token in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := input.HuhCollector{}.Collect([]input.Field{{
				Key:      "token",
				Title:    "Gateway API Token",
				Required: true,
			}})
			if err != nil {
				return err
			}
			if err := credential.Set(credential.GatewayTokenKey, vals["token"]); err != nil {
				return err
			}
			fmt.Println("Token stored.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear-token",
		Short: "Remove the gateway API token from the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credential.Delete(credential.GatewayTokenKey); err != nil {
				return err
			}
			fmt.Println("Token removed.")
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}
