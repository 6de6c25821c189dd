package twitter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	contentTypeOctetStream = "application/octet-stream"
	sniffLen               = 3072
)

var extensionTypes = map[string]string{
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
}

// File is a file parameter: content plus a file name.
type File struct {
	Reader io.Reader
	Name   string
	// ContentType is detected from Name or the content when empty.
	ContentType string
}

// NewFile wraps r as a file parameter.
func NewFile(r io.Reader, name, contentType string) *File {
	return &File{Reader: r, Name: name, ContentType: contentType}
}

// OpenFile opens path as a file parameter. The caller closes it.
func OpenFile(path, contentType string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", path, err)
	}
	return &File{Reader: f, Name: filepath.Base(path), ContentType: contentType}, nil
}

// Close closes the underlying reader if it is an io.Closer.
func (f *File) Close() error {
	if c, ok := f.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FileLike is any reader that knows its name, such as *os.File.
type FileLike interface {
	io.Reader
	Name() string
}

// UploadPart is a file parameter ready for multipart encoding.
type UploadPart struct {
	Reader      io.Reader
	FileName    string
	ContentType string
}

// newUploadPart turns a file value into an UploadPart. ok is false for
// values that are not files.
func newUploadPart(v any) (*UploadPart, bool, error) {
	var (
		r           io.Reader
		name        string
		contentType string
	)
	switch f := v.(type) {
	case *UploadPart:
		return f, false, nil
	case *File:
		if f == nil || f.Reader == nil {
			return nil, false, errors.New("file parameter has no content")
		}
		r, name, contentType = f.Reader, f.Name, f.ContentType
	case File:
		if f.Reader == nil {
			return nil, false, errors.New("file parameter has no content")
		}
		r, name, contentType = f.Reader, f.Name, f.ContentType
	case FileLike:
		r, name = f, f.Name()
	default:
		return nil, false, nil
	}

	name = filepath.Base(name)
	if contentType == "" {
		var err error
		r, contentType, err = detectContentType(r, name)
		if err != nil {
			return nil, false, fmt.Errorf("detect content type of %s: %w", name, err)
		}
	}
	return &UploadPart{Reader: r, FileName: name, ContentType: contentType}, true, nil
}

// detectContentType picks a type from the file extension, then from the
// leading bytes. It returns a reader that still yields the whole content.
func detectContentType(r io.Reader, name string) (io.Reader, string, error) {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return r, ct, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", err
	}
	head = head[:n]
	rest := io.MultiReader(bytes.NewReader(head), r)
	if n == 0 {
		return rest, contentTypeOctetStream, nil
	}
	return rest, mimetype.Detect(head).String(), nil
}
