// Command seeduser creates or resets an administrator account.
//
//	seeduser -username admin -password secreto -email admin@example.com
package main

import (
	"context"
	"flag"
	"os"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "", "password (min 8 chars)")
	nombre := flag.String("nombre", "Administrador", "display name")
	email := flag.String("email", "", "email for password resets")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password must have at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	var emailArg any
	if *email != "" {
		emailArg = *email
	}
	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (username, nombre, email, password_hash, rol, activo, mfa_enabled)
		VALUES (?, ?, ?, ?, 'admin', true, false)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    email = COALESCE(EXCLUDED.email, usuarios.email),
		    rol = 'admin',
		    activo = true
	`, *username, *nombre, emailArg, string(hash))
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("upsert usuario")
	}
	log.Info().Str("username", *username).Msg("usuario admin creado/actualizado")
}
