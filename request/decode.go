package request

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/volley/jsonval"
	"github.com/elnormous/contenttype"
	"golang.org/x/net/html/charset"
	"go.uber.org/zap"
)

// decoder turns response bytes into the representation of one
// ResponseType. Each layer calls the one below it, so a JSON decode also
// fills the text and bytes of the Result.
type decoder func(r *Result, header http.Header, log *zap.Logger)

func decoderFor(t ResponseType) decoder {
	switch t {
	case JSON:
		return decodeJSON
	case String:
		return decodeText
	default:
		return decodeData
	}
}

func decodeData(*Result, http.Header, *zap.Logger) {}

func decodeText(r *Result, header http.Header, log *zap.Logger) {
	decodeData(r, header, log)

	text, err := bytesToText(r.Data, header.Get("Content-Type"))
	if err != nil {
		log.Debug("Response is not valid text", zap.Int("bytes", len(r.Data)), zap.Error(err))
	}
	r.Text = text
}

func decodeJSON(r *Result, header http.Header, log *zap.Logger) {
	decodeText(r, header, log)

	v, err := jsonval.ParseErr([]byte(r.Text))
	if err != nil && len(r.Data) > 0 {
		log.Debug("Response is not valid JSON", zap.Int("bytes", len(r.Data)), zap.Error(err))
	}
	r.JSON = v
}

// bytesToText interprets data as UTF-8, transcoding first when the
// Content-Type declares another charset. Invalid text yields "".
func bytesToText(data []byte, contentType string) (string, error) {
	if label := declaredCharset(contentType); label != "" && !isUTF8Label(label) {
		reader, err := charset.NewReaderLabel(label, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("charset %q: %w", label, err)
		}
		transcoded, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("charset %q: %w", label, err)
		}
		data = transcoded
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8")
	}
	return string(data), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType := contenttype.NewMediaType(contentType)
	return strings.TrimSpace(mediaType.Parameters["charset"])
}

func isUTF8Label(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
