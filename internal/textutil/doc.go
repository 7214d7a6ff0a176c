// Package textutil provides filename sanitization helpers used when deriving
// output file names from document and chapter titles.
package textutil
