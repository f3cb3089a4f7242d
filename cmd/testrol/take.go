package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"test-rol/internal/questionnaire"
	"test-rol/internal/scoring"
	"test-rol/internal/service"
)

var errAborted = errors.New("test aborted")

func newTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Responde el test de forma interactiva",
		Long: "Responde el test pregunta por pregunta.\n" +
			"Escribe un número del 1 al 10 para responder y avanzar, " +
			"p para volver, n para saltar, e para enviar y q para salir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := resolveCatalog(cmd)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			res, err := runWizard(questionnaire.NewWizard(catalog), cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func runWizard(w *questionnaire.Wizard, in io.Reader, out io.Writer) (service.Result, error) {
	reader := bufio.NewReader(in)
	for {
		q := w.CurrentQuestion()
		answered, total := w.Progress()
		current := ""
		if v := w.Responses()[q.Index]; v != 0 {
			current = fmt.Sprintf(" [%d]", v)
		}
		fmt.Fprintf(out, "\n[%d/%d, %d respondidas] %s%s: ", q.Index+1, total, answered, q.Text, current)

		line, err := reader.ReadString('\n')
		input := strings.ToLower(strings.TrimSpace(line))
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				return service.Result{}, errAborted
			}
			return service.Result{}, err
		}

		switch input {
		case "q":
			return service.Result{}, errAborted
		case "p":
			_ = w.Previous()
			continue
		case "n", "":
			_ = w.Next()
			continue
		case "e":
			verdict, err := w.Submit()
			var incomplete *scoring.IncompleteError
			if errors.As(err, &incomplete) {
				fmt.Fprintf(out, "Faltan %d preguntas: %s\n", len(incomplete.Missing), joinNumbers(incomplete.Missing))
				continue
			}
			if err != nil {
				return service.Result{}, err
			}
			return service.NewResult(verdict), nil
		}

		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Entrada inválida.")
			continue
		}
		if err := w.Answer(q.Index, value); err != nil {
			fmt.Fprintf(out, "Respuesta inválida: debe estar entre 1 y 10.\n")
			continue
		}
		if q.Index == total-1 {
			fmt.Fprint(out, "Última pregunta respondida; escribe e para enviar.")
		}
		_ = w.Next()
	}
}

func joinNumbers(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx + 1)
	}
	return strings.Join(parts, ", ")
}
