package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/audio"
	"scribe/internal/services/ytdlp"
)

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove stale audio files from the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if maxAge <= 0 {
				maxAge = time.Duration(cfg.Cleaning.MaxAudioAgeHours) * time.Hour
			}

			extractor := audio.NewExtractor(cfg, ytdlp.NewClient(cfg.YtdlpBinary()), ctx.ensureLogger())
			result := extractor.PurgeOlderThan(cmd.Context(), maxAge)

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintln(out, "Another purge is already running, nothing to do")
				return nil
			}
			fmt.Fprintf(out, "Removed %d stale audio file(s) older than %s\n", len(result.Removed), maxAge)
			for _, failure := range result.Errors {
				fmt.Fprintf(out, "  failed: %s (%v)\n", failure.Path, failure.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d file(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Remove audio files older than this (default: cleaning.max_audio_age_hours)")
	return cmd
}
