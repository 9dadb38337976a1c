package respond

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Upload is a spreadsheet received as the "file" field of a multipart form.
type Upload struct {
	Name string
	Data []byte
}

// ReadUpload parses a multipart form of at most maxBytes and returns the
// uploaded file.
func ReadUpload(r *http.Request, maxBytes int64) (*Upload, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", maxBytes)
	}

	return &Upload{Name: hdr.Filename, Data: data}, nil
}

// List splits a comma-separated form value, dropping blanks.
func List(v string) []string {
	var out []string

	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}
