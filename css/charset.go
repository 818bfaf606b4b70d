package css

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	charsetPrefix = []byte(`@charset "`)
)

// DecodeBytes converts raw stylesheet bytes to UTF-8. The encoding is taken
// from a BOM when present, otherwise from a leading @charset rule, otherwise
// the input is assumed to be UTF-8 already.
func DecodeBytes(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeAll(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), data)
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeAll(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), data)
	}

	label, ok := sniffCharset(data)
	if !ok || strings.EqualFold(label, "utf-8") {
		return data, nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		return data, nil
	}
	return decodeAll(enc.NewDecoder(), data)
}

func decodeAll(t transform.Transformer, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode input: %w", err)
	}
	return out, nil
}

// sniffCharset extracts the label of a leading @charset rule. Per css-syntax
// the rule must start at byte zero and be terminated by '";'.
func sniffCharset(data []byte) (string, bool) {
	if !bytes.HasPrefix(data, charsetPrefix) {
		return "", false
	}
	rest := data[len(charsetPrefix):]
	if len(rest) > 1024 {
		rest = rest[:1024]
	}
	end := bytes.Index(rest, []byte(`";`))
	if end < 0 {
		return "", false
	}
	return string(rest[:end]), true
}
