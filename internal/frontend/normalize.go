package frontend

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 BOM and applies Unicode NFC normalization to raw
// source bytes before they reach the JSON decoder, so string literals that
// are byte-distinct but canonically equivalent (e.g. "café" in NFC vs NFD)
// parse to identical MIR constants.
func normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)

	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}
