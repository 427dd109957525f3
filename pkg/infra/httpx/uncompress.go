package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

type decodeFunc func([]byte) ([]byte, error)

var decoders = map[string]decodeFunc{
	"br":      decodeBrotli,
	"gzip":    decodeGzip,
	"zstd":    decodeZstd,
	"deflate": decodeDeflate,
}

// passthrough encodings leave the body untouched.
var passthrough = map[string]bool{"": true, "identity": true, "compress": true}

// DecodeChain undoes a Content-Encoding header value. Codings are removed
// in reverse order of application, so "gzip, br" is brotli-decoded first.
// The bool reports whether any decoding happened.
func DecodeChain(contentEncoding string, body []byte) ([]byte, bool, error) {
	codings := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(codings) - 1; i >= 0; i-- {
		name := strings.ToLower(strings.TrimSpace(codings[i]))
		if passthrough[name] {
			continue
		}
		decode, ok := decoders[name]
		if !ok {
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", codings[i])
		}
		out, err := decode(body)
		if err != nil {
			return nil, false, fmt.Errorf("%s decode: %w", name, err)
		}
		body, changed = out, true
	}
	return body, changed, nil
}

func readAllClose(r io.ReadCloser) ([]byte, error) {
	out, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return out, err
}

func decodeBrotli(body []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
}

func decodeGzip(body []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return readAllClose(r)
}

func decodeZstd(body []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// decodeDeflate accepts the zlib-wrapped form and falls back to raw deflate,
// which some servers send despite the header.
func decodeDeflate(body []byte) ([]byte, error) {
	if r, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		return readAllClose(r)
	}
	return readAllClose(flate.NewReader(bytes.NewReader(body)))
}
