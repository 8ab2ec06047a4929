package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"scribe/internal/fileutil"
	"scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/transcript"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var jsonOut bool
	var langFlag string

	cmd := &cobra.Command{
		Use:   "transcribe URL",
		Short: "Acquire a transcript for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if langFlag != "" {
				code := language.ToISO2(langFlag)
				if code == "" || !language.IsSupported(code, cfg.Language.Supported) {
					return fmt.Errorf("unsupported language %q (supported: %v)", langFlag, cfg.Language.Supported)
				}
				cfg.Language.Default = code
			}

			logger := ctx.ensureLogger()
			svc := transcript.NewFromConfig(cfg, logger)

			result, err := svc.Acquire(cmd.Context(), args[0])
			if err != nil {
				logger.Error("transcript acquisition failed", logging.Error(err))
				return fmt.Errorf("%s", services.UserMessage(err))
			}

			if outputPath != "" {
				if err := fileutil.WriteAtomic(outputPath, []byte(result.Text+"\n"), 0o644); err != nil {
					return fmt.Errorf("write transcript: %w", err)
				}
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), transcribeOutput{
					VideoID:    result.VideoID,
					Title:      result.Title,
					Method:     string(result.Method),
					Language:   result.Language,
					Confidence: result.Confidence,
					ElapsedSec: result.Elapsed.Seconds(),
					Text:       result.Text,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Text)
			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderResultTable(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the transcript to a file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	cmd.Flags().StringVarP(&langFlag, "language", "l", "", "Preferred transcript language (ISO 639-1)")
	return cmd
}

type transcribeOutput struct {
	VideoID    string  `json:"video_id"`
	Title      string  `json:"title"`
	Method     string  `json:"method"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence,omitempty"`
	ElapsedSec float64 `json:"elapsed_seconds"`
	Text       string  `json:"text"`
}

func renderResultTable(result *transcript.Result) string {
	titleCaser := cases.Title(xlanguage.English)
	rows := [][]string{
		{"Video", result.Title},
		{"Method", titleCaser.String(string(result.Method))},
		{"Language", language.DisplayName(result.Language)},
	}
	if result.Method == transcript.MethodASR {
		rows = append(rows, []string{"Confidence", fmt.Sprintf("%.2f", result.Confidence)})
	}
	rows = append(rows, []string{"Elapsed", result.Elapsed.Round(time.Millisecond).String()})
	return renderTable([]string{"Field", "Value"}, rows)
}
