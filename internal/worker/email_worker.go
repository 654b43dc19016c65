package worker

// email_worker.go processes QueueEmail: password reset links and documents
// (MIC/CRT PDFs) sent to a recipient.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"

	"github.com/rs/zerolog/log"
)

// PasswordResetPayload is enqueued by the auth service.
type PasswordResetPayload struct {
	ToEmail  string `json:"to_email"`
	Nombre   string `json:"nombre"`
	ResetURL string `json:"reset_url"`
}

// DocumentoPayload carries a rendered document to mail as attachment.
type DocumentoPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Send(to, subject, text, htmlBody, attachPath string) error
}

type EmailWorker struct {
	sender Sender
	cb     *circuit.Breaker
}

func NewEmailWorker(sender Sender, cb *circuit.Breaker) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb}
}

// Process sends one email. Malformed payloads are logged and dropped
// (nil error) since retrying cannot fix them.
func (w *EmailWorker) Process(_ context.Context, jobType string, raw json.RawMessage) error {
	var to, subject, text, htmlBody, attach string

	switch jobType {
	case JobPasswordReset:
		var p PasswordResetPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Error().Err(err).Msg("email_worker: invalid password reset payload")
			return nil
		}
		to = p.ToEmail
		subject = "Restablecer contraseña"
		text = fmt.Sprintf("Hola %s,\n\nPara restablecer su contraseña ingrese a:\n%s\n\nSi no solicitó el cambio ignore este mensaje.", p.Nombre, p.ResetURL)
		htmlBody = fmt.Sprintf(`<p>Hola %s,</p><p>Para restablecer su contraseña haga clic <a href="%s">aquí</a>.</p><p>Si no solicitó el cambio ignore este mensaje.</p>`, p.Nombre, p.ResetURL)
	case JobDocumento:
		var p DocumentoPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Error().Err(err).Msg("email_worker: invalid documento payload")
			return nil
		}
		to, subject, text, attach = p.ToEmail, p.Subject, p.Body, p.PDFPath
	default:
		log.Warn().Str("type", jobType).Msg("email_worker: unknown job type")
		return nil
	}

	if to == "" {
		log.Warn().Str("type", jobType).Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.sender.Send(to, subject, text, htmlBody, attach)
	})
	if err != nil {
		log.Error().Err(err).Str("to", to).Str("type", jobType).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", to).Str("type", jobType).Msg("email_worker: email sent")
	return nil
}
