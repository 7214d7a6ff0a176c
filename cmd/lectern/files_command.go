package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/book"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List input documents and produced audiobooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			inputs, err := listFiles(cfg.Paths.InputDir, book.Supported)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Input documents (%s):\n", cfg.Paths.InputDir)
			printFileTable(cmd, inputs)

			outputs, err := listFiles(cfg.Paths.OutputDir, func(path string) bool {
				return strings.EqualFold(filepath.Ext(path), ".mp3")
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAudiobooks (%s):\n", cfg.Paths.OutputDir)
			printFileTable(cmd, outputs)
			return nil
		},
	}
}

type fileInfo struct {
	name     string
	size     int64
	modified string
}

func listFiles(dir string, keep func(string) bool) ([]fileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !keep(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			name:     entry.Name(),
			size:     info.Size(),
			modified: info.ModTime().Format("2006-01-02 15:04"),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func printFileTable(cmd *cobra.Command, files []fileInfo) {
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, []string{file.name, formatSize(file.size), file.modified})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Name", "Size", "Modified"},
		rows, 2,
	))
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
