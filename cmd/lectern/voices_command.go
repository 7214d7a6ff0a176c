package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/services/googletts"
	"lectern/internal/synth"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List available narration voices",
		Long: `Voices queries the synthesis provider for the voices it offers. Without
an API key the built-in catalog of known voices is listed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lang := cfg.TTS.Language
			if cmd.Flags().Changed("language") {
				lang = languageFlag
			}

			var voices []synth.Voice
			source := "provider"
			if cfg.TTS.APIKey != "" {
				client, err := googletts.New(cfg.TTS.APIKey, cfg.SynthesisTimeout(),
					googletts.WithBaseURL(cfg.TTS.BaseURL),
					googletts.WithMaxRetries(cfg.TTS.MaxRetries))
				if err != nil {
					return err
				}
				voices, err = client.Voices(cmd.Context(), lang)
				if err != nil {
					return err
				}
			} else {
				voices = synth.KnownVoices(lang)
				source = "catalog"
			}

			if len(voices) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No voices known for %s\n", lang)
				return nil
			}

			sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

			rows := make([][]string, 0, len(voices))
			for _, voice := range voices {
				tier := "standard"
				if voice.Premium {
					tier = "premium"
				}
				rows = append(rows, []string{
					voice.Name,
					strings.Join(voice.LanguageCodes, ", "),
					strings.ToLower(string(voice.Gender)),
					tier,
					fmt.Sprintf("%d Hz", voice.SampleRateHz),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Voice", "Languages", "Gender", "Tier", "Sample Rate"},
				rows, 5,
			))
			fmt.Fprintf(out, "%d voices (%s)\n", len(voices), source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "BCP-47 language tag to filter by")
	return cmd
}
