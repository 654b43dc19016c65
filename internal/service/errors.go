package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("registro no encontrado")
	ErrDuplicado            = errors.New("ya existe un registro con esos datos")
	ErrEnUso                = errors.New("el registro está referenciado por otros documentos")
	ErrReferencia           = errors.New("referencia inválida")
	ErrNumeroCRT            = errors.New("código inválido")
	ErrNoEditable           = errors.New("el CRT está finalizado o cancelado y no puede editarse")
	ErrRequiereConfirmacion = errors.New("el CRT está EN_TRANSITO; confirme para editarlo")

	ErrCredenciales   = errors.New("credenciales invalidas")
	ErrOTPRequerido   = errors.New("se requiere el código MFA")
	ErrOTPInvalido    = errors.New("código MFA inválido")
	ErrMFANoIniciado  = errors.New("MFA no inicializado")
	ErrTokenInvalido  = errors.New("token invalido o expirado")
	ErrPasswordActual = errors.New("la contraseña actual no es correcta")
)

// dbErr maps GORM sentinel errors onto the service taxonomy.
func dbErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicado
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrEnUso
	default:
		return err
	}
}

// writeErr is dbErr for inserts and updates, where a foreign key violation
// means the row points at something that does not exist.
func writeErr(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrReferencia
	}
	return dbErr(err)
}

// Cache is a byte cache with TTL, implemented by infra.RedisCache. A nil
// Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TokenStore keeps single-use tokens, implemented by infra.RedisTokenStore.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// EmailQueue is implemented by worker.Dispatcher.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, jobType string, payload any) error
}
