package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/dto"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/repository"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newSeedAdminCmd() *cobra.Command {
	var req dto.RegistrarAdminRequest

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Register an Administrador account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Email == "" || req.Password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if req.Username == "" {
				req.Username = req.Email
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			auth := service.NewAuthService(
				repository.NewAdminRepository(db),
				repository.NewColaboradorRepository(db),
				service.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour),
				infra.NewPhoneValidator(cfg.PhoneDefaultRegion),
			)
			resp, err := auth.RegistrarAdmin(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (code %s)\n", resp.Admin.Email, resp.Admin.Code)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "admin email")
	f.StringVar(&req.Password, "password", "", "admin password (min 6)")
	f.StringVar(&req.Username, "username", "", "username (defaults to the email)")
	f.StringVar(&req.Name, "name", "Admin", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.AdminCode, "code", "", "admin code (generated when empty)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}
