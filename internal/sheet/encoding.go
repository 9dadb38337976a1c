package sheet

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sampleSize bounds how much of the buffer the charset detector inspects.
const sampleSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// toUTF8 converts a delimited-text export to UTF-8.
//
// Accounting tools export in whatever code page the workstation uses, so
// detection runs in this order:
//  1. BOM (UTF-8 is stripped, UTF-16 LE/BE is decoded)
//  2. already valid UTF-8
//  3. chardet heuristics over the first few KiB
//  4. Windows-1252
func toUTF8(buf []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return buf[len(bomUTF8):], nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), buf)
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), buf)
	}

	if utf8.Valid(buf) {
		return buf, nil
	}

	return decodeWith(detectCharset(buf[:min(len(buf), sampleSize)]), buf)
}

func detectCharset(sample []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	}

	return charmap.Windows1252
}

func decodeWith(enc encoding.Encoding, buf []byte) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), buf)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	return out, nil
}
