package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginOTP      string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Inicia sesión y la guarda para los siguientes comandos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := firstNonEmpty(loginUsername, cfg.Username)
		password := firstNonEmpty(loginPassword, cfg.Password)
		if username == "" || password == "" {
			return fmt.Errorf("usuario y contraseña requeridos (--username/--password o API_USERNAME/API_PASSWORD)")
		}
		sess, err := client.Login(cmd.Context(), username, password, loginOTP)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s (%s)\n", sess.User.Username, sess.User.Rol)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Borra la sesión guardada",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store.Clear()
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "usuario")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "contraseña")
	loginCmd.Flags().StringVar(&loginOTP, "otp", "", "código TOTP si la cuenta tiene MFA")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
