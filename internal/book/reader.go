package book

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"lectern/internal/services"
)

// SupportedExtensions lists the input formats the reader accepts.
var SupportedExtensions = []string{".txt", ".md", ".epub", ".pdf"}

// PDFExtractor extracts plain text from a PDF file.
type PDFExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Reader extracts plain text from supported source documents.
type Reader struct {
	pdf PDFExtractor
}

// NewReader builds a Reader. The PDF extractor may be nil, in which case
// reading a .pdf file reports a configuration problem.
func NewReader(pdf PDFExtractor) *Reader {
	return &Reader{pdf: pdf}
}

// Supported reports whether the file extension is a readable format.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range SupportedExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Read extracts the full text of the document at path. The result has
// normalized line endings but otherwise preserves the source layout so the
// segmenter can see paragraph breaks.
func (r *Reader) Read(ctx context.Context, inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "input", "stat", fmt.Sprintf("cannot access %s", inputPath), err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrInput, "input", "stat", fmt.Sprintf("%s is a directory", inputPath), nil)
	}

	var text string
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".txt", ".md":
		text, err = readPlainText(inputPath)
	case ".epub":
		text, err = readEPUB(inputPath)
	case ".pdf":
		if r.pdf == nil {
			return "", services.Wrap(services.ErrConfiguration, "input", "pdf", "no PDF extractor configured", nil)
		}
		text, err = r.pdf.ExtractText(ctx, inputPath)
	default:
		return "", services.Wrap(services.ErrInput, "input", "detect format", fmt.Sprintf("unsupported file type %q", ext), nil)
	}
	if err != nil {
		return "", err
	}

	text = normalizeLineEndings(text)
	if strings.TrimSpace(text) == "" {
		return "", services.Wrap(services.ErrInput, "input", "extract", fmt.Sprintf("%s contains no text", inputPath), nil)
	}
	return text, nil
}

// readPlainText loads a text file, decoding Latin-1 when the bytes are not
// valid UTF-8. Older Portuguese sources are commonly ISO-8859-1.
func readPlainText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "input", "read", fmt.Sprintf("cannot read %s", path), err)
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "input", "decode", fmt.Sprintf("cannot decode %s", path), err)
	}
	return string(decoded), nil
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// readEPUB walks the OPF spine and strips markup from each content document,
// preserving reading order.
func readEPUB(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "input", "open epub", fmt.Sprintf("cannot open %s", path), err)
	}
	defer archive.Close()

	entries := make(map[string]*zip.File, len(archive.File))
	for _, file := range archive.File {
		entries[file.Name] = file
	}

	var container epubContainer
	if err := decodeZipXML(entries, "META-INF/container.xml", &container); err != nil {
		return "", err
	}
	if len(container.Rootfiles) == 0 {
		return "", services.Wrap(services.ErrInput, "input", "parse epub", "container declares no rootfile", nil)
	}

	opfPath := container.Rootfiles[0].FullPath
	var pkg epubPackage
	if err := decodeZipXML(entries, opfPath, &pkg); err != nil {
		return "", err
	}

	hrefByID := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		if strings.Contains(item.MediaType, "html") || strings.Contains(item.MediaType, "xml") {
			hrefByID[item.ID] = item.Href
		}
	}

	opfDir := zipDir(opfPath)
	var sections []string
	for _, ref := range pkg.Spine {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		entry, ok := entries[joinZipPath(opfDir, href)]
		if !ok {
			continue
		}
		content, err := readZipFile(entry)
		if err != nil {
			return "", services.Wrap(services.ErrInput, "input", "read epub entry", href, err)
		}
		if text := stripMarkup(content); text != "" {
			sections = append(sections, text)
		}
	}

	return strings.Join(sections, "\n\n"), nil
}

func decodeZipXML(entries map[string]*zip.File, name string, dst any) error {
	entry, ok := entries[name]
	if !ok {
		return services.Wrap(services.ErrInput, "input", "parse epub", fmt.Sprintf("missing %s", name), nil)
	}
	content, err := readZipFile(entry)
	if err != nil {
		return services.Wrap(services.ErrInput, "input", "parse epub", fmt.Sprintf("read %s", name), err)
	}
	if err := xml.Unmarshal([]byte(content), dst); err != nil {
		return services.Wrap(services.ErrInput, "input", "parse epub", fmt.Sprintf("decode %s", name), err)
	}
	return nil
}

func readZipFile(file *zip.File) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func zipDir(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

func joinZipPath(dir, href string) string {
	if dir == "" {
		return href
	}
	return path.Join(dir, href)
}

var (
	markupBlockRe = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	blockBreakRe  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|section|blockquote)>|<br\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

func stripMarkup(content string) string {
	content = markupBlockRe.ReplaceAllString(content, "")
	content = blockBreakRe.ReplaceAllString(content, "\n\n")
	content = tagRe.ReplaceAllString(content, " ")
	content = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	).Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	content = strings.Join(lines, "\n")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
