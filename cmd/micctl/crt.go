package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/apiclient"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/crtdraft"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var crtCmd = &cobra.Command{
	Use:   "crt",
	Short: "Cartas de porte (CRT)",
}

// ── gastos ───────────────────────────────────────────────────────────────────

var assumeYes bool

var crtGastosCmd = &cobra.Command{
	Use:   "gastos <id>",
	Short: "Muestra los gastos del campo 15",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDraft(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printGastos(cmd.OutOrStdout(), d)
		return nil
	},
}

var crtGastosAddCmd = &cobra.Command{
	Use:   "add <id> [descripcion]",
	Short: "Agrega una línea de gasto",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editGastos(cmd, args[0], func(d *crtdraft.Draft) error {
			codes := currencies(cmd.Context())
			d.AddGasto(codes, ledger.HintFunc(func(msg string) {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}))
			if len(args) == 2 {
				d.UpdateGasto(len(d.Gastos())-1, ledger.FieldDescription, args[1])
			}
			return nil
		})
	},
}

var crtGastosRmCmd = &cobra.Command{
	Use:   "rm <id> <linea>",
	Short: "Quita una línea de gasto (numeradas desde 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editGastos(cmd, args[0], func(d *crtdraft.Draft) error {
			i, err := lineIndex(args[1], len(d.Gastos()))
			if err != nil {
				return err
			}
			d.RemoveGasto(i)
			return nil
		})
	},
}

var crtGastosSetCmd = &cobra.Command{
	Use:   "set <id> <linea> <campo> <valor>",
	Short: "Cambia una columna de una línea de gasto",
	Long: `Columnas: descripcion_gasto, valor_remitente, moneda_remitente,
valor_destinatario, moneda_destinatario. Los importes se escriben como en el
formulario: dígitos, signo menos opcional y una coma decimal (1234,56).`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := ledger.ParseField(args[2])
		if err != nil {
			return err
		}
		value := args[3]
		if field.IsAmount() {
			if value, err = amountArg(value); err != nil {
				return err
			}
		}
		return editGastos(cmd, args[0], func(d *crtdraft.Draft) error {
			i, err := lineIndex(args[1], len(d.Gastos()))
			if err != nil {
				return err
			}
			d.UpdateGasto(i, field, value)
			return nil
		})
	},
}

func loadDraft(ctx context.Context, id string) (*crtdraft.Draft, error) {
	crt, err := client.CRT(ctx, id)
	if err != nil {
		return nil, err
	}
	d := crtdraft.FromResponse(*crt)
	items, err := client.Campo15(ctx, id)
	if err != nil {
		return nil, err
	}
	d.SetGastos(items)
	return d, nil
}

// editGastos loads the CRT, applies edit and saves it with the confirmation
// flow for CRTs already on the road.
func editGastos(cmd *cobra.Command, id string, edit func(*crtdraft.Draft) error) error {
	ctx := cmd.Context()
	d, err := loadDraft(ctx, id)
	if err != nil {
		return err
	}
	if err := edit(d); err != nil {
		return err
	}
	req, err := d.Request()
	if err != nil {
		return err
	}
	resp, err := client.GuardarCRT(ctx, id, req, stdinConfirmer(cmd))
	if err != nil {
		return err
	}
	log.Info().Str("crt", resp.NumeroCRT).Str("estado", resp.Estado).Msg("CRT guardado")
	printGastos(cmd.OutOrStdout(), d)
	return nil
}

func stdinConfirmer(cmd *cobra.Command) apiclient.Confirmer {
	return apiclient.ConfirmFunc(func(msg string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n¿Guardar de todos modos? [s/N] ", msg)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "si", "sí", "y", "yes":
			return true
		}
		return false
	})
}

func lineIndex(raw string, n int) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("línea %q fuera de rango (1-%d)", raw, n)
	}
	return i - 1, nil
}

// amountArg treats a command-line amount like a value pasted into the
// form field, then commits it as on blur.
func amountArg(raw string) (string, error) {
	v, ok := numfmt.SanitizeKeystroke("", strings.TrimSpace(raw))
	if !ok {
		return "", fmt.Errorf("importe %q inválido: use dígitos y una coma decimal", raw)
	}
	return numfmt.Money.Commit(v), nil
}

// currencies lists the moneda codes, falling back to the configured ones.
func currencies(ctx context.Context) []string {
	monedas, err := client.Monedas(ctx)
	if err != nil || len(monedas) == 0 {
		log.Debug().Err(err).Msg("monedas no disponibles, se usan las configuradas")
		return cfg.Currencies
	}
	codes := make([]string, 0, len(monedas))
	for _, m := range monedas {
		codes = append(codes, m.Codigo)
	}
	return codes
}

func printGastos(w io.Writer, d *crtdraft.Draft) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDescripción\tRemitente\t\tDestinatario\t\t")
	for i, g := range d.Gastos() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", i+1, g.Description,
			numfmt.Money.Grouped(g.PayerAmount), g.PayerCurrency,
			numfmt.Money.Grouped(g.ConsigneeAmount), g.ConsigneeCurrency)
	}
	t := d.Totals()
	fmt.Fprintf(tw, "\tTotal\t%s\t\t%s\t\t\n",
		numfmt.Money.Grouped(numfmt.Of(t.Payer)), numfmt.Money.Grouped(numfmt.Of(t.Consignee)))
	_ = tw.Flush()
	fmt.Fprintf(w, "Valor flete externo: %s\n", numfmt.Money.Grouped(d.ValorFleteExterno()))
}

// ── pdf ──────────────────────────────────────────────────────────────────────

var crtPDFOut string

var crtPDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Descarga el PDF del CRT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		crt, err := client.CRT(ctx, args[0])
		if err != nil {
			return err
		}
		pdf, err := client.CRTPDF(ctx, crt.ID)
		if err != nil {
			return err
		}
		path := filepath.Join(crtPDFOut, "CRT_"+crt.NumeroCRT+".pdf")
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, humanize.Bytes(uint64(len(pdf))))
		return nil
	},
}

func init() {
	crtGastosCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "confirma la edición de un CRT en tránsito")
	crtGastosCmd.AddCommand(crtGastosAddCmd, crtGastosRmCmd, crtGastosSetCmd)
	crtPDFCmd.Flags().StringVarP(&crtPDFOut, "out", "o", ".", "directorio del PDF")

	crtCmd.AddCommand(crtGastosCmd, crtPDFCmd)
	rootCmd.AddCommand(crtCmd)
}
