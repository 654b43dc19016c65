package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/micprefill"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var micCmd = &cobra.Command{
	Use:   "mic",
	Short: "Manifiestos MIC/DTA",
}

// ── prefill ──────────────────────────────────────────────────────────────────

var prefillReset bool

var micPrefillCmd = &cobra.Command{
	Use:   "prefill <crt>",
	Short: "Muestra el MIC precargado desde un CRT (id o número)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if prefillReset {
			crt, err := client.CRT(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return enc.Encode(micprefill.Reset(*crt, time.Now()))
		}
		_, out := prefill(cmd.Context(), args[0])
		return enc.Encode(out.Draft)
	},
}

// prefill runs the mapper. The CRT record is only needed for the fallback
// subset, so a failed lookup still lets the consolidated resource answer.
func prefill(ctx context.Context, key string) (dto.CRTResponse, micprefill.Outcome) {
	crt := dto.CRTResponse{ID: key}
	if got, err := client.CRT(ctx, key); err == nil {
		crt = *got
	} else {
		log.Debug().Err(err).Str("crt", key).Msg("CRT no leído, se usa la clave tal cual")
	}
	out := micprefill.NewMapper(client, client).Prefill(ctx, crt)
	if out.Warning != "" {
		log.Warn().Msg(out.Warning)
	}
	return crt, out
}

// ── ruta ─────────────────────────────────────────────────────────────────────

var ruta micprefill.RouteInput

var micRutaCmd = &cobra.Command{
	Use:   "ruta",
	Short: "Genera el texto de ruta del campo 40",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		aduanas, err := client.Aduanas(cmd.Context())
		if err != nil {
			log.Warn().Err(err).Msg("aduanas no disponibles, origen por defecto")
		}
		fmt.Fprintln(cmd.OutOrStdout(), micprefill.GenerateRoute(ruta, aduanas))
		return nil
	},
}

// ── emitir ───────────────────────────────────────────────────────────────────

var (
	emitirPlaca string
	emitirSets  []string
	emitirRuta  bool
	emitirOut   string
)

var micEmitirCmd = &cobra.Command{
	Use:   "emitir <crt>",
	Short: "Precarga, valida y guarda un MIC, y descarga su PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		crt, out := prefill(ctx, args[0])
		if crt.NumeroCRT == "" {
			return fmt.Errorf("CRT %q no encontrado", args[0])
		}

		d := out.Draft
		if emitirPlaca != "" {
			d.Campo11Placa = emitirPlaca
		}
		for _, kv := range emitirSets {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("--set espera campo=valor, recibido %q", kv)
			}
			if err := d.Set(strings.TrimSpace(name), value); err != nil {
				return err
			}
		}
		if emitirRuta {
			aduanas, err := client.Aduanas(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("aduanas no disponibles, origen por defecto")
			}
			d.ApplyRoute(aduanas)
		}
		if err := d.Validate(); err != nil {
			return err
		}

		resp, err := client.CrearMIC(ctx, crt.ID, d.Payload(crt.NumeroCRT))
		if err != nil {
			return err
		}
		pdf, err := client.Download(ctx, resp.PDFURL)
		if err != nil {
			return fmt.Errorf("MIC %s guardado, descarga del PDF falló: %w", resp.ID, err)
		}
		path := filepath.Join(emitirOut, "MIC_"+crt.NumeroCRT+".pdf")
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "MIC %s guardado: %s (%s)\n", resp.ID, path, humanize.Bytes(uint64(len(pdf))))
		return nil
	},
}

func init() {
	micPrefillCmd.Flags().BoolVar(&prefillReset, "reset", false, "rearma el formulario desde el CRT con los valores de ejemplo")

	micRutaCmd.Flags().StringVar(&ruta.OriginPost, "origen", "", "puesto de salida (campo 7)")
	micRutaCmd.Flags().StringVar(&ruta.DestLugar, "destino", "", "lugar de destino (campo 8)")
	micRutaCmd.Flags().StringVar(&ruta.DestCountry, "pais", micprefill.DefaultPais, "país de destino (campo 26)")
	micRutaCmd.Flags().StringVar(&ruta.DestPost, "aduana", micprefill.DefaultAduana, "aduana de destino (campo 24)")
	_ = micRutaCmd.MarkFlagRequired("origen")
	_ = micRutaCmd.MarkFlagRequired("destino")

	micEmitirCmd.Flags().StringVar(&emitirPlaca, "placa", "", "placa del camión (campo 11)")
	micEmitirCmd.Flags().StringArrayVar(&emitirSets, "set", nil, "campo=valor, repetible")
	micEmitirCmd.Flags().BoolVar(&emitirRuta, "ruta", false, "genera el campo 40 antes de guardar")
	micEmitirCmd.Flags().StringVarP(&emitirOut, "out", "o", ".", "directorio del PDF")

	micCmd.AddCommand(micPrefillCmd, micRutaCmd, micEmitirCmd)
	rootCmd.AddCommand(micCmd)
}
