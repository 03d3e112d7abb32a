package form

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// DefaultBoundary separates multipart parts.
const DefaultBoundary = "VolleyQm91bmRhcnk"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeMultipart renders params (sorted by key) followed by files (in
// order) as a multipart/form-data body delimited by boundary. Files whose
// content cannot be read keep their part headers and are reported in
// warnings; they never fail the body.
func (e Encoder) EncodeMultipart(params Params, files []File, boundary string) ([]byte, []error, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart boundary %q: %w", boundary, err)
	}

	for _, key := range params.Keys() {
		value := params[key]
		text := value.Text()
		if value.IsNil() {
			if e.DropNil {
				continue
			}
			text = e.NilPlaceholder
		}
		part, err := w.CreateFormField(key)
		if err != nil {
			return nil, nil, err
		}
		if _, err := part.Write([]byte(text)); err != nil {
			return nil, nil, err
		}
	}

	var warnings []error
	for _, f := range files {
		content, readErr := f.Content()
		if readErr != nil {
			warnings = append(warnings, readErr)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Name), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", f.ContentType(content))

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, nil, err
		}
		if _, err := part.Write(content); err != nil {
			return nil, nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), warnings, nil
}

// MultipartContentType is the Content-Type announcing boundary.
func MultipartContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}
