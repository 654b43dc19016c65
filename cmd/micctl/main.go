// Command micctl is the operator client of the transportadora API. It edits
// the Campo 15 ledger of a CRT and prefills, submits and downloads MIC/DTA
// documents.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/apiclient"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	sessionFile string

	cfg    *config.ClientConfig
	store  *session.Store
	client *apiclient.Client
)

var rootCmd = &cobra.Command{
	Use:           "micctl",
	Short:         "Cliente de operador para CRT y MIC/DTA",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)

		var err error
		if cfg, err = config.LoadClient(); err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		store = session.NewStore()
		if err := loadSession(store, sessionFile); err != nil {
			log.Warn().Err(err).Str("file", sessionFile).Msg("sesión guardada ilegible, se ignora")
		}
		store.OnChange(func(s session.Session) {
			if err := saveSession(s, sessionFile); err != nil {
				log.Error().Err(err).Msg("no se pudo guardar la sesión")
			}
		})
		if client, err = apiclient.New(cfg, store); err != nil {
			return err
		}
		if cmd == loginCmd || cmd == logoutCmd {
			return nil
		}
		return autoLogin(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log de depuración")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", defaultSessionFile(), "archivo donde se guarda la sesión")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// ── Session persistence ──────────────────────────────────────────────────────

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".micctl-session.json"
	}
	return filepath.Join(dir, "micctl", "session.json")
}

func loadSession(s *session.Store, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return err
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		log.Debug().Msg("sesión guardada expirada")
		return nil
	}
	s.Set(sess)
	return nil
}

func saveSession(s session.Session, path string) error {
	if !s.Authenticated() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// autoLogin signs in with API_USERNAME/API_PASSWORD when no session is stored.
func autoLogin(ctx context.Context) error {
	if store.Get().Authenticated() {
		return nil
	}
	if cfg.Username == "" || cfg.Password == "" {
		return errors.New("sin sesión: ejecute `micctl login` o defina API_USERNAME y API_PASSWORD")
	}
	sess, err := client.Login(ctx, cfg.Username, cfg.Password, "")
	if err != nil {
		return fmt.Errorf("login automático: %w", err)
	}
	log.Debug().Str("username", sess.User.Username).Msg("sesión iniciada")
	return nil
}
