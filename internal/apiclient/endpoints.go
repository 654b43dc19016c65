package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"
)

// ── Auth ─────────────────────────────────────────────────────────────────────

// Login authenticates and stores the new session.
func (c *Client) Login(ctx context.Context, username, password, otp string) (session.Session, error) {
	var resp dto.LoginResponse
	err := c.sendJSON(ctx, http.MethodPost, "auth/login",
		dto.LoginRequest{Username: username, Password: password, OTP: otp}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{
		User: &session.User{
			ID:       resp.User.ID,
			Username: resp.User.Username,
			Nombre:   resp.User.Nombre,
			Rol:      resp.User.Rol,
		},
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	c.store.Set(sess)
	return sess, nil
}

// ── CRT ──────────────────────────────────────────────────────────────────────

func (c *Client) CRT(ctx context.Context, id string) (*dto.CRTResponse, error) {
	var resp dto.CRTResponse
	if err := c.getJSON(ctx, "crts/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Campo15(ctx context.Context, id string) ([]ledger.ChargeLineItem, error) {
	var resp dto.Campo15Response
	if err := c.getJSON(ctx, "crts/"+url.PathEscape(id)+"/campo15", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ActualizarCRT sends one PUT. A CRT on the road answers *ConflictError.
func (c *Client) ActualizarCRT(ctx context.Context, id string, req dto.CRTRequest) (*dto.CRTResponse, error) {
	var resp dto.CRTResponse
	if err := c.sendJSON(ctx, http.MethodPut, "crts/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CRTPDF(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "crts/"+url.PathEscape(id)+"/pdf", nil)
}

// ── MIC ──────────────────────────────────────────────────────────────────────

// CargarDatosCRT fetches the consolidated MIC prefill of a CRT. Values are
// returned loosely typed, numbers as json.Number.
func (c *Client) CargarDatosCRT(ctx context.Context, crtIDOrNumero string) (map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, "mic/cargar-datos-crt/"+url.PathEscape(crtIDOrNumero), nil)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CrearMIC stores a MIC for the CRT and returns its id and pdf_url.
func (c *Client) CrearMIC(ctx context.Context, crtID string, fields dto.MICFields) (*dto.CrearMICResponse, error) {
	var resp dto.CrearMICResponse
	err := c.sendJSON(ctx, http.MethodPost, "mic-guardados/crear-desde-crt/"+url.PathEscape(crtID), fields, &resp)
	if err != nil {
		return nil, err
	}
	if resp.PDFURL == "" {
		return nil, errors.New("api: MIC creado sin pdf_url")
	}
	return &resp, nil
}

// Download fetches a binary resource such as a pdf_url.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}
