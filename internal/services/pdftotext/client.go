// Package pdftotext extracts plain text from PDF files by shelling out to the
// poppler pdftotext tool.
package pdftotext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"lectern/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Client shells out to pdftotext.
type Client struct {
	binary string
	run    commandRunner
}

// Option adjusts client construction.
type Option func(*Client)

// WithCommandRunner substitutes the process launcher, primarily for tests.
func WithCommandRunner(run commandRunner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// New builds a Client around the given pdftotext binary name.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "pdftotext"
	}
	client := &Client{binary: binary, run: execRunner}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ExtractText converts the PDF at path to plain text with layout preserved
// enough for heading detection. The "-" output argument streams to stdout.
func (c *Client) ExtractText(ctx context.Context, path string) (string, error) {
	output, err := c.run(ctx, c.binary, "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "input", "pdftotext", fmt.Sprintf("extract %s", path), err)
	}
	return string(output), nil
}
