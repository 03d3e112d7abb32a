package form

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// File is one multipart attachment. Its content comes from exactly one
// source, a filesystem path or an in-memory buffer, and is only read when
// the body is encoded.
type File struct {
	Name     string // form field name
	Filename string // filename with extension sent to the server
	MIMEType string // empty means detect from content
	Path     string
	Data     []byte
}

// FileFromPath attaches the file at path. The filename sent is the last
// element of path.
func FileFromPath(name, path, mimeType string) File {
	return File{
		Name:     name,
		Filename: filepath.Base(path),
		MIMEType: mimeType,
		Path:     path,
	}
}

// FileFromData attaches an in-memory buffer sent as name.ext.
func FileFromData(name string, data []byte, ext, mimeType string) File {
	filename := name
	if ext != "" {
		filename = name + "." + ext
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return File{
		Name:     name,
		Filename: filename,
		MIMEType: mimeType,
		Data:     buf,
	}
}

// Content resolves the attachment bytes.
func (f File) Content() ([]byte, error) {
	if f.Path != "" {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", f.Name, err)
		}
		return data, nil
	}
	return f.Data, nil
}

// ContentType returns MIMEType, or the type detected from content when it
// is empty.
func (f File) ContentType(content []byte) string {
	if f.MIMEType != "" {
		return f.MIMEType
	}
	return mimetype.Detect(content).String()
}

// String implements fmt.Stringer.
func (f File) String() string {
	source := fmt.Sprintf("data: %d bytes", len(f.Data))
	if f.Path != "" {
		source = "path: " + f.Path
	}
	return fmt.Sprintf("<file %s; %s; mime: %s>", f.Filename, source, f.MIMEType)
}
