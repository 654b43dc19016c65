package apiclient

import (
	"context"
	"errors"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
)

// ErrCancelado is returned when the operator declines a confirmation.
var ErrCancelado = errors.New("operación cancelada por el usuario")

// ConflictError is a 409 that the operator may override by confirming.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return "api: 409 " + e.Message }

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(msg string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(msg string) bool

func (f ConfirmFunc) Confirm(msg string) bool { return f(msg) }

// GuardarCRT saves a CRT. When the API asks for confirmation the operator
// is asked once; on yes the request is resent with
// permitir_edicion_en_transito, on no ErrCancelado is returned.
func (c *Client) GuardarCRT(ctx context.Context, id string, req dto.CRTRequest, confirm Confirmer) (*dto.CRTResponse, error) {
	resp, err := c.ActualizarCRT(ctx, id, req)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return resp, err
	}
	if confirm == nil || !confirm.Confirm(conflict.Message) {
		return nil, ErrCancelado
	}
	req.PermitirEdicionEnTransito = true
	return c.ActualizarCRT(ctx, id, req)
}
