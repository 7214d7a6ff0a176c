package pdftotext

import (
	"context"
	"errors"
	"testing"

	"lectern/internal/services"
)

func TestExtractTextInvokesBinary(t *testing.T) {
	var gotName string
	var gotArgs []string
	client := New("pdftotext", WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte("page text"), nil
	}))

	text, err := client.ExtractText(context.Background(), "/books/story.pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "page text" {
		t.Errorf("text = %q", text)
	}
	if gotName != "pdftotext" {
		t.Errorf("binary = %q", gotName)
	}
	want := []string{"-enc", "UTF-8", "/books/story.pdf", "-"}
	if len(gotArgs) != len(want) {
		t.Fatalf("args = %v", gotArgs)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestExtractTextWrapsFailure(t *testing.T) {
	client := New("", WithCommandRunner(func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return nil, errors.New("exit status 1: syntax error")
	}))

	_, err := client.ExtractText(context.Background(), "broken.pdf")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
