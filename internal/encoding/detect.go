// Package encoding normalizes uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before deciding.
const sniffSize = 4096

// Fallback is assumed when nothing else can be determined. Spreadsheet exports
// on Windows are the usual source of non-UTF-8 uploads.
const Fallback = "windows-1252"

type bom struct {
	prefix  []byte
	charset string
	dec     xencoding.Encoding
}

var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: "UTF-8"},
	{prefix: []byte{0xFF, 0xFE}, charset: "UTF-16LE", dec: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: "UTF-16BE", dec: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// decoders maps chardet charset names to their decoders.
var decoders = map[string]xencoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// ToUTF8 returns a reader that yields r decoded to UTF-8 along with the name
// of the charset it settled on.
//
// A byte order mark wins. Otherwise valid UTF-8 is passed through, then
// chardet is consulted, and Windows-1252 is assumed when all else fails.
func ToUTF8(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.dec == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.dec.NewDecoder()), b.charset, nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return br, "UTF-8", nil
	}

	charset := Fallback

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return br, result.Charset, nil
		}

		if _, ok := decoders[result.Charset]; ok {
			charset = result.Charset
		}
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(buf []byte) []byte {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(buf); i++ {
		c := buf[len(buf)-i]
		if utf8.RuneStart(c) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
