package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
)

// Parser converts raw markup bytes into a generic node tree.
type Parser interface {
	Parse(r io.Reader) (*doctree.Node, error)
}

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]bool{
	".html":  true,
	".htm":   true,
	".xml":   true,
	".xhtml": true,
}

// ForFile returns the appropriate parser for a filename.
// Compression suffixes must already be stripped.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".xml", ".xhtml":
		return &XMLParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
