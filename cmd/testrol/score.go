package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"test-rol/internal/domain"
	"test-rol/internal/scoring"
	"test-rol/internal/service"
)

// responsesFile es el formato de --file.
type responsesFile struct {
	Responses []int `yaml:"responses"`
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [respuestas...]",
		Short: "Calcula el rol dominante a partir de 37 respuestas (1-10)",
		Long: "Calcula el rol dominante a partir de 37 respuestas entre 1 y 10.\n" +
			"Las respuestas se pasan como argumentos (separados por espacio o coma) o con --file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := resolveCatalog(cmd)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			var responses domain.ResponseSet
			if path, _ := cmd.Flags().GetString("file"); path != "" {
				if len(args) > 0 {
					return errors.New("use either answers as arguments or --file, not both")
				}
				responses, err = loadResponsesFile(path)
			} else {
				responses, err = parseAnswers(args)
			}
			if err != nil {
				return err
			}

			verdict, err := scoring.Score(responses, catalog.Tags())
			if err != nil {
				return err
			}

			res := service.NewResult(verdict)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Archivo YAML con la lista responses")
	cmd.Flags().Bool("json", false, "Imprime el resultado en JSON")
	return cmd
}

// parseAnswers acepta enteros como argumentos sueltos o separados por coma.
func parseAnswers(args []string) (domain.ResponseSet, error) {
	var out domain.ResponseSet
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: answer %q is not an integer", scoring.ErrMalformedInput, field)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func loadResponsesFile(path string) (domain.ResponseSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses file: %w", err)
	}
	defer f.Close()
	return readResponses(f)
}

func readResponses(r io.Reader) (domain.ResponseSet, error) {
	var file responsesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode responses: %v", scoring.ErrMalformedInput, err)
	}
	return domain.ResponseSet(file.Responses), nil
}

func printResult(w io.Writer, res service.Result) {
	fmt.Fprintf(w, "Rol principal: %s (%s)\n", res.Role.Name, res.Role.Category)
	fmt.Fprintf(w, "%s\n\n", res.Role.Description)
	for _, c := range res.Breakdown {
		mark := " "
		if c.Dominant {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s %-14s %3d\n", mark, c.Category, c.Role, c.Points)
	}
	fmt.Fprintf(w, "  Total            %3d\n", res.Total)
}
