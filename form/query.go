package form

import "strings"

// DefaultNilPlaceholder is sent in place of a Nil parameter value.
const DefaultNilPlaceholder = "value_is_nil"

// Encoder serializes parameters.
type Encoder struct {
	// NilPlaceholder replaces Nil values on the wire.
	NilPlaceholder string
	// DropNil omits Nil values entirely instead of sending the placeholder.
	DropNil bool
}

// DefaultEncoder sends Nil values as DefaultNilPlaceholder.
func DefaultEncoder() Encoder {
	return Encoder{NilPlaceholder: DefaultNilPlaceholder}
}

// EncodeQuery renders params as key=value pairs joined by '&', keys in
// lexicographic order, without a leading '?'.
func (e Encoder) EncodeQuery(params Params) string {
	var sb strings.Builder
	for _, key := range params.Keys() {
		value := params[key]
		text := value.Text()
		if value.IsNil() {
			if e.DropNil {
				continue
			}
			text = e.NilPlaceholder
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(Escape(key))
		sb.WriteByte('=')
		sb.WriteString(Escape(text))
	}
	return sb.String()
}

// EncodeFormURL renders params as an application/x-www-form-urlencoded body.
func (e Encoder) EncodeFormURL(params Params) []byte {
	return []byte(e.EncodeQuery(params))
}

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes every byte of s outside the query-safe set:
// letters, digits and - . _ ~ ! $ ' ( ) * , ; : @ /
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !querySafe(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if querySafe(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(buf)
}

func querySafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '!', '$', '\'', '(', ')', '*', ',', ';', ':', '@', '/':
		return true
	}
	return false
}
