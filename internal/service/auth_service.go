package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/repository"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UsuarioResponse, error)
	CambiarPassword(ctx context.Context, userID uuid.UUID, req dto.CambiarPasswordRequest) error

	MFAEnroll(ctx context.Context, userID uuid.UUID) (*dto.MFAEnrollResponse, error)
	MFAVerify(ctx context.Context, userID uuid.UUID, code string) error
	MFADisable(ctx context.Context, userID uuid.UUID, code string) error

	// OlvidePassword never reveals whether the email exists.
	OlvidePassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo   repository.UsuarioRepository
	cfg    *config.Config
	tokens TokenStore
	queue  EmailQueue
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config, tokens TokenStore, queue EmailQueue) AuthService {
	return &authService{repo: repo, cfg: cfg, tokens: tokens, queue: queue}
}

// ── Sessions ─────────────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	if user.MFAEnabled {
		if req.OTP == "" {
			return nil, ErrOTPRequerido
		}
		if user.MFASecret == nil || !totp.Validate(req.OTP, *user.MFASecret) {
			return nil, ErrOTPInvalido
		}
	}

	if err := s.repo.TouchUltimoAcceso(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user", user.Username).Msg("no se pudo registrar el ultimo acceso")
	}
	return s.issue(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != tokenRefresh {
		return nil, ErrTokenInvalido
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenInvalido
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, ErrTokenInvalido
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) CambiarPassword(ctx context.Context, userID uuid.UUID, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dbErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return ErrPasswordActual
	}
	return s.setPassword(ctx, user, req.PasswordNueva)
}

// ── MFA ──────────────────────────────────────────────────────────────────────

// MFAEnroll issues a new TOTP secret. MFA stays off until MFAVerify
// confirms the authenticator produces valid codes.
func (s *authService) MFAEnroll(ctx context.Context, userID uuid.UUID) (*dto.MFAEnrollResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbErr(err)
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.MFAIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		return nil, err
	}
	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	secret := key.Secret()
	user.MFASecret = &secret
	user.MFAEnabled = false
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.MFAEnrollResponse{
		Secret:     secret,
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (s *authService) MFAVerify(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dbErr(err)
	}
	if user.MFASecret == nil {
		return ErrMFANoIniciado
	}
	if !totp.Validate(code, *user.MFASecret) {
		return ErrOTPInvalido
	}
	user.MFAEnabled = true
	return s.repo.Update(ctx, user)
}

func (s *authService) MFADisable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dbErr(err)
	}
	if !user.MFAEnabled || user.MFASecret == nil {
		return ErrMFANoIniciado
	}
	if !totp.Validate(code, *user.MFASecret) {
		return ErrOTPInvalido
	}
	user.MFAEnabled = false
	user.MFASecret = nil
	return s.repo.Update(ctx, user)
}

// ── Password reset ───────────────────────────────────────────────────────────

func (s *authService) OlvidePassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		log.Info().Str("email", email).Msg("reset solicitado para email desconocido")
		return nil
	}

	token := uuid.NewString()
	ttl := time.Duration(s.cfg.ResetTokenMinutes) * time.Minute
	if err := s.tokens.Save(ctx, token, user.ID.String(), ttl); err != nil {
		return err
	}
	return s.queue.EnqueueEmail(ctx, worker.JobPasswordReset, worker.PasswordResetPayload{
		ToEmail:  *user.Email,
		Nombre:   user.Nombre,
		ResetURL: strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password?token=" + token,
	})
}

func (s *authService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	userIDStr, err := s.tokens.Consume(ctx, req.Token)
	if errors.Is(err, infra.ErrTokenNotFound) {
		return ErrTokenInvalido
	}
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return ErrTokenInvalido
	}
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return ErrTokenInvalido
	}
	return s.setPassword(ctx, user, req.PasswordNueva)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     strings.TrimSpace(req.Username),
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, dbErr(err)
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, dbErr(err)
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, false)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.setActivo(ctx, id, true)
}

func (s *authService) setActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return dbErr(err)
	}
	return s.repo.SetActivo(ctx, id, activo)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *authService) setPassword(ctx context.Context, user *model.Usuario, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.Update(ctx, user)
}

func (s *authService) issue(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, tokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, tokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"typ":      typ,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID: u.ID.String(), Username: u.Username, Nombre: u.Nombre,
		Email: u.Email, Rol: u.Rol, MFAEnabled: u.MFAEnabled, Activo: u.Activo,
	}
}
