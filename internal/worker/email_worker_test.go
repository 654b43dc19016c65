package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct{ to, subject, text, html, attach string }

type fakeSender struct {
	msgs []sent
	err  error
}

func (f *fakeSender) Send(to, subject, text, htmlBody, attachPath string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, sent{to, subject, text, htmlBody, attachPath})
	return nil
}

var _ worker.Sender = (*fakeSender)(nil)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_PasswordReset(t *testing.T) {
	s := &fakeSender{}
	w := worker.NewEmailWorker(s, circuit.New(circuit.DefaultConfig()))

	err := w.Process(context.Background(), worker.JobPasswordReset, raw(t, worker.PasswordResetPayload{
		ToEmail: "ana@example.com", Nombre: "Ana", ResetURL: "http://app/reset?token=abc",
	}))
	require.NoError(t, err)
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "ana@example.com", s.msgs[0].to)
	assert.Contains(t, s.msgs[0].text, "http://app/reset?token=abc")
	assert.Contains(t, s.msgs[0].html, `href="http://app/reset?token=abc"`)
}

func TestEmailWorker_DocumentoAttachment(t *testing.T) {
	s := &fakeSender{}
	w := worker.NewEmailWorker(s, circuit.New(circuit.DefaultConfig()))

	err := w.Process(context.Background(), worker.JobDocumento, raw(t, worker.DocumentoPayload{
		ToEmail: "aduana@example.com", Subject: "MIC", Body: "Adjunto", PDFPath: "/tmp/mic.pdf",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mic.pdf", s.msgs[0].attach)
}

func TestEmailWorker_DropsUnusablePayloads(t *testing.T) {
	s := &fakeSender{}
	w := worker.NewEmailWorker(s, circuit.New(circuit.DefaultConfig()))

	assert.NoError(t, w.Process(context.Background(), worker.JobPasswordReset, json.RawMessage(`{`)))
	assert.NoError(t, w.Process(context.Background(), "otro", json.RawMessage(`{}`)))
	assert.NoError(t, w.Process(context.Background(), worker.JobDocumento, raw(t, worker.DocumentoPayload{})))
	assert.Empty(t, s.msgs)
}

func TestEmailWorker_SendFailureTripsBreaker(t *testing.T) {
	s := &fakeSender{err: errors.New("smtp down")}
	cb := circuit.New(circuit.Config{FailureThreshold: 2, OpenTimeout: time.Hour})
	w := worker.NewEmailWorker(s, cb)
	payload := raw(t, worker.PasswordResetPayload{ToEmail: "x@example.com"})

	assert.Error(t, w.Process(context.Background(), worker.JobPasswordReset, payload))
	assert.Error(t, w.Process(context.Background(), worker.JobPasswordReset, payload))
	assert.ErrorIs(t, w.Process(context.Background(), worker.JobPasswordReset, payload), circuit.ErrOpen)
}
