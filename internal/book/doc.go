// Package book turns source documents into chapters ready for synthesis.
//
// A Reader extracts plain text from .txt, .md, .epub, and .pdf files, then the
// segmenter splits that text into chapters by recognizing numbered headings.
// Texts without recognizable headings degrade to a single chapter rather than
// failing the run.
package book
