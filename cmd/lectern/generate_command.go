package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"lectern/internal/audio"
	"lectern/internal/book"
	"lectern/internal/notifications"
	"lectern/internal/pipeline"
	"lectern/internal/services/ffmpeg"
	"lectern/internal/services/googletts"
	"lectern/internal/services/pdftotext"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		titleFlag    string
		languageFlag string
		voiceFlag    string
		premiumFlag  bool
		chaptersFlag bool
		previewFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <input-file>",
		Short: "Narrate a text document into an audiobook",
		Long: `Generate reads a .txt, .md, .epub, or .pdf document, splits it into
chapters and sentences, synthesizes speech for every segment, and assembles
the clips into MP3 audiobook files with pauses, normalization, and fades.

The input argument is a path, or a bare file name resolved against the
configured input directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			inputPath, err := resolveInput(cfg.Paths.InputDir, args[0])
			if err != nil {
				return err
			}

			lang := cfg.TTS.Language
			if cmd.Flags().Changed("language") {
				lang = languageFlag
			}
			if _, err := language.Parse(lang); err != nil {
				return fmt.Errorf("invalid language tag %q: %w", lang, err)
			}

			voice := cfg.TTS.Voice
			if cmd.Flags().Changed("voice") {
				voice = voiceFlag
			}
			premium := cfg.TTS.Premium
			if cmd.Flags().Changed("premium") {
				premium = premiumFlag
			}

			ttsClient, err := googletts.New(cfg.TTS.APIKey, cfg.SynthesisTimeout(),
				googletts.WithBaseURL(cfg.TTS.BaseURL),
				googletts.WithMaxRetries(cfg.TTS.MaxRetries),
			)
			if err != nil {
				return err
			}

			reader := book.NewReader(pdftotext.New(cfg.PdftotextBinary()))
			assembler := audio.NewAssembler(ffmpeg.New(cfg.FFmpegBinary()))
			generator := pipeline.NewGenerator(cfg, logger, reader, ttsClient, assembler,
				pipeline.WithReporter(newReporter(cmd.OutOrStdout(), logger)))
			notifier := notifications.NewService(cfg)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			job := pipeline.Job{
				InputPath:     inputPath,
				Title:         titleFlag,
				Language:      lang,
				Voice:         voice,
				Premium:       premium,
				SplitChapters: chaptersFlag,
				Preview:       previewFlag,
			}
			result, err := generator.Generate(runCtx, job)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					if notifyErr := notifier.NotifyGenerationFailed(cmd.Context(), job.Title, err); notifyErr != nil {
						logger.Warn("failed to send notification", "error", notifyErr)
					}
				}
				return err
			}

			if notifyErr := notifier.NotifyGenerationCompleted(cmd.Context(), result.Title, len(result.OutputFiles), result.Elapsed); notifyErr != nil {
				logger.Warn("failed to send notification", "error", notifyErr)
			}

			out := cmd.OutOrStdout()
			if result.Preview {
				fmt.Fprintf(out, "Preview complete: %d segments narrated\n", result.Segments)
			} else {
				fmt.Fprintf(out, "Audiobook complete: %d chapters, %d segments\n", result.Chapters, result.Segments)
			}
			for _, path := range result.OutputFiles {
				fmt.Fprintf(out, "  %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Book title used for metadata and file naming")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "BCP-47 narration language tag")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Voice name or gender (FEMALE, MALE, NEUTRAL)")
	cmd.Flags().BoolVar(&premiumFlag, "premium", true, "Prefer premium voices when resolving by gender")
	cmd.Flags().BoolVar(&chaptersFlag, "chapters", false, "Produce one file per chapter")
	cmd.Flags().BoolVar(&previewFlag, "preview", false, "Narrate only the first few segments")
	return cmd
}

// resolveInput accepts either a path or a bare name under the input directory.
func resolveInput(inputDir, arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	candidate := filepath.Join(inputDir, arg)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("input file %q not found (also tried %s)", arg, candidate)
}
