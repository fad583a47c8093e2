package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nzoschke/organizer/internal/config"
	"github.com/nzoschke/organizer/internal/service"
)

func TokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for a user with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
			token, err := auth.GenerateJWT(args[0])
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}
}
