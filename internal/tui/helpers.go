package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/wholes0meglock/rehab-ai/internal/intake"
)

// previewWidth is the thumbnail width in terminal cells.
const previewWidth = 36

// maxAttachmentSize caps uploads the same way the original UI advertised:
// "PDF, JPG, PNG up to 10MB".
const maxAttachmentSize = 10 << 20

// loadAttachment reads a local file into an attachment with its mime type
// inferred from the extension.
func loadAttachment(path string) (*intake.Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("no path given")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxAttachmentSize {
		return nil, fmt.Errorf("file is larger than 10MB")
	}

	data, err := os.ReadFile(path) //nolint:gosec // user's own file
	if err != nil {
		return nil, err
	}

	return &intake.Attachment{
		Name:     filepath.Base(path),
		MimeType: mimeTypeFor(path),
		Bytes:    data,
	}, nil
}

// mimeTypeFor infers the mime type from the file extension, defaulting to
// application/octet-stream.
func mimeTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		// Strip parameters such as "; charset=utf-8".
		if i := strings.Index(t, ";"); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// checkbox renders a slot checkbox line.
func checkbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return focusedStyle.Render("> " + line)
	}
	return labelStyle.Render("  " + line)
}
