package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove generated audiobooks and leftover run workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			files, err := generatedFiles(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			workspaces, err := leftoverWorkspaces(cfg.Paths.WorkDir)
			if err != nil {
				return err
			}
			if len(files) == 0 && len(workspaces) == 0 {
				fmt.Fprintln(out, "Nothing to clean up")
				return nil
			}

			if !forceFlag {
				fmt.Fprintf(out, "Remove %d generated file(s) from %s and %d leftover workspace(s)? [y/N] ",
					len(files), cfg.Paths.OutputDir, len(workspaces))
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() || !isYes(scanner.Text()) {
					fmt.Fprintln(out, "Aborted")
					return nil
				}
			}

			for _, file := range files {
				if err := os.Remove(file); err != nil {
					return fmt.Errorf("remove %s: %w", file, err)
				}
			}
			for _, workspace := range workspaces {
				if err := os.RemoveAll(workspace); err != nil {
					return fmt.Errorf("remove %s: %w", workspace, err)
				}
			}
			fmt.Fprintf(out, "Removed %d generated file(s) and %d workspace(s)\n", len(files), len(workspaces))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Remove without asking for confirmation")
	return cmd
}

// generatedFiles lists the audio files under the output directory.
func generatedFiles(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			continue
		}
		files = append(files, filepath.Join(outputDir, entry.Name()))
	}
	return files, nil
}

// leftoverWorkspaces lists job directories a crashed or interrupted run left
// behind in the work directory.
func leftoverWorkspaces(workDir string) ([]string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read work directory: %w", err)
	}
	var workspaces []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "job-") {
			workspaces = append(workspaces, filepath.Join(workDir, entry.Name()))
		}
	}
	return workspaces, nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
