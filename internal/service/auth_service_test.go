package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/service"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		MFAIssuer:          "Transportadora",
		ResetTokenMinutes:  60,
		FrontendURL:        "http://localhost:3000/",
	}
}

type authFixture struct {
	svc    service.AuthService
	repo   *stubUsuarioRepo
	tokens *memTokens
	queue  *recQueue
}

func newAuthFixture() *authFixture {
	f := &authFixture{repo: newStubUsuarioRepo(), tokens: newMemTokens(), queue: &recQueue{}}
	f.svc = service.NewAuthService(f.repo, newTestCfg(), f.tokens, f.queue)
	return f
}

func (f *authFixture) seedUser(t *testing.T, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	email := username + "@transportadora.test"
	u := &model.Usuario{
		ID: uuid.New(), Username: username, Nombre: "Test User", Email: &email,
		PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	f.repo.users[u.ID] = u
	return u
}

func claimsOf(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

// ── Login / Refresh ──────────────────────────────────────────────────────────

func TestLogin_IssuesTypedTokens(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser(t, "ana", "secreto123", "operador")

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "operador", resp.User.Rol)
	assert.NotNil(t, u.UltimoAcceso)

	assert.Equal(t, "access", claimsOf(t, resp.AccessToken)["typ"])
	assert.Equal(t, "refresh", claimsOf(t, resp.RefreshToken)["typ"])
	assert.Equal(t, u.ID.String(), claimsOf(t, resp.AccessToken)["user_id"])
}

func TestLogin_WrongPasswordOrInactive(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser(t, "ana", "secreto123", "operador")

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredenciales)

	require.NoError(t, f.svc.DesactivarUsuario(context.Background(), u.ID))
	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh_OnlyAcceptsRefreshTokens(t *testing.T) {
	f := newAuthFixture()
	f.seedUser(t, "ana", "secreto123", "operador")
	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, service.ErrTokenInvalido)

	again, err := f.svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", again.User.Username)

	_, err = f.svc.Refresh(context.Background(), "basura")
	assert.ErrorIs(t, err, service.ErrTokenInvalido)
}

// ── MFA ──────────────────────────────────────────────────────────────────────

func TestMFA_EnrollVerifyAndLogin(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser(t, "ana", "secreto123", "admin")
	ctx := context.Background()

	enroll, err := f.svc.MFAEnroll(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enroll.QRCode, "data:image/png;base64,"))
	assert.Contains(t, enroll.OTPAuthURL, "otpauth://totp/")
	assert.False(t, u.MFAEnabled, "MFA stays off until verified")

	assert.ErrorIs(t, f.svc.MFAVerify(ctx, u.ID, "000000"), service.ErrOTPInvalido)
	code, err := totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.svc.MFAVerify(ctx, u.ID, code))
	assert.True(t, u.MFAEnabled)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreto123"})
	assert.ErrorIs(t, err, service.ErrOTPRequerido)
	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreto123", OTP: "000000"})
	assert.ErrorIs(t, err, service.ErrOTPInvalido)
	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreto123", OTP: code})
	require.NoError(t, err)

	require.NoError(t, f.svc.MFADisable(ctx, u.ID, code))
	assert.False(t, u.MFAEnabled)
	assert.Nil(t, u.MFASecret)
	assert.ErrorIs(t, f.svc.MFADisable(ctx, u.ID, code), service.ErrMFANoIniciado)
}

// ── Passwords ────────────────────────────────────────────────────────────────

func TestOlvidePassword_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.OlvidePassword(context.Background(), "nadie@example.com"))
	assert.Empty(t, f.queue.jobs)
}

func TestResetPassword_SingleUseToken(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser(t, "ana", "secreto123", "operador")
	ctx := context.Background()

	require.NoError(t, f.svc.OlvidePassword(ctx, *u.Email))
	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, worker.JobPasswordReset, f.queue.jobs[0].jobType)
	payload := f.queue.jobs[0].payload.(worker.PasswordResetPayload)
	assert.Equal(t, *u.Email, payload.ToEmail)

	prefix := "http://localhost:3000/reset-password?token="
	require.True(t, strings.HasPrefix(payload.ResetURL, prefix))
	token := strings.TrimPrefix(payload.ResetURL, prefix)

	require.NoError(t, f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, PasswordNueva: "nueva-clave-1"}))
	_, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "nueva-clave-1"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, PasswordNueva: "otra-clave-22"})
	assert.ErrorIs(t, err, service.ErrTokenInvalido)
}

func TestCambiarPassword_ChecksCurrent(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser(t, "ana", "secreto123", "operador")

	err := f.svc.CambiarPassword(context.Background(), u.ID, dto.CambiarPasswordRequest{PasswordActual: "mal", PasswordNueva: "nueva-clave-1"})
	assert.ErrorIs(t, err, service.ErrPasswordActual)

	require.NoError(t, f.svc.CambiarPassword(context.Background(), u.ID,
		dto.CambiarPasswordRequest{PasswordActual: "secreto123", PasswordNueva: "nueva-clave-1"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nueva-clave-1")))
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestUsuarios_CreateListReactivate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	created, err := f.svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: " pedro ", Nombre: "Pedro", Password: "secreto123", Rol: "consulta",
	})
	require.NoError(t, err)
	assert.Equal(t, "pedro", created.Username)
	assert.True(t, created.Activo)

	_, err = f.svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{Username: "pedro", Nombre: "Otro", Password: "secreto123", Rol: "consulta"})
	assert.ErrorIs(t, err, service.ErrDuplicado)

	id := uuid.MustParse(created.ID)
	require.NoError(t, f.svc.DesactivarUsuario(ctx, id))
	activos, err := f.svc.ListarUsuarios(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, activos)
	todos, err := f.svc.ListarUsuarios(ctx, true)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.NoError(t, f.svc.ReactivarUsuario(ctx, id))
	upd, err := f.svc.ActualizarUsuario(ctx, id, dto.ActualizarUsuarioRequest{Rol: "operador"})
	require.NoError(t, err)
	assert.Equal(t, "operador", upd.Rol)
	assert.True(t, upd.Activo)

	assert.ErrorIs(t, f.svc.ReactivarUsuario(ctx, uuid.New()), service.ErrNotFound)
}
