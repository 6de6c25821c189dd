package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strings"
)

// MultipartWithFile turns file values anywhere in the params, nested maps
// and sequences included, into *UploadPart values so the Multipart stage
// can recognise them. The caller's params are never modified; a request
// without files passes through as is.
type MultipartWithFile struct{}

func (MultipartWithFile) Name() string { return "multipart_with_file" }

func (MultipartWithFile) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		params, changed, err := normalizeFiles(req.Params)
		if err != nil {
			return nil, newTransportError(err)
		}
		if changed {
			req = req.withParams(params.(Params))
		}
		return next.Execute(ctx, req)
	})
}

// normalizeFiles returns v with every file value replaced by an
// *UploadPart. Containers are copied only along paths that changed.
func normalizeFiles(v any) (any, bool, error) {
	switch val := v.(type) {
	case map[string]any:
		var out map[string]any
		for k, item := range val {
			nv, changed, err := normalizeFiles(item)
			if err != nil {
				return nil, false, fmt.Errorf("%s: %w", k, err)
			}
			if !changed {
				continue
			}
			if out == nil {
				out = cloneParams(val)
			}
			out[k] = nv
		}
		if out == nil {
			return v, false, nil
		}
		return out, true, nil
	case []any:
		var out []any
		for i, item := range val {
			nv, changed, err := normalizeFiles(item)
			if err != nil {
				return nil, false, fmt.Errorf("[%d]: %w", i, err)
			}
			if !changed {
				continue
			}
			if out == nil {
				out = append([]any(nil), val...)
			}
			out[i] = nv
		}
		if out == nil {
			return v, false, nil
		}
		return out, true, nil
	}

	part, ok, err := newUploadPart(v)
	if err != nil {
		return v, false, err
	}
	if ok {
		return part, true, nil
	}

	// Typed containers such as []*File or map[string]*File are copied into
	// their generic form, but only when they hold a file.
	generic, ok := genericContainer(v)
	if !ok {
		return v, false, nil
	}
	nv, changed, err := normalizeFiles(generic)
	if err != nil || !changed {
		return v, false, err
	}
	return nv, true, nil
}

// genericContainer copies a typed slice, array or string-keyed map into
// []any or map[string]any. Byte slices are values, not containers.
func genericContainer(v any) (any, bool) {
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m, true
	}
	return nil, false
}

// hasUploadPart reports whether any value, at any depth, is an *UploadPart.
func hasUploadPart(v any) bool {
	switch val := v.(type) {
	case *UploadPart:
		return true
	case map[string]any:
		for _, item := range val {
			if hasUploadPart(item) {
				return true
			}
		}
	case []any:
		for _, item := range val {
			if hasUploadPart(item) {
				return true
			}
		}
	default:
		if generic, ok := genericContainer(v); ok {
			return hasUploadPart(generic)
		}
	}
	return false
}

// Multipart encodes requests that carry upload parts as
// multipart/form-data. Requests that already have a body, or carry no
// upload part, pass through.
type Multipart struct{}

func (Multipart) Name() string { return "multipart" }

func (Multipart) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		if req.Body != nil || !hasUploadPart(req.Params) {
			return next.Execute(ctx, req)
		}
		body, contentType, err := encodeMultipart(req.Params)
		if err != nil {
			return nil, newTransportError(fmt.Errorf("encode multipart body: %w", err))
		}
		return next.Execute(ctx, req.withBody(body, contentType))
	})
}

func encodeMultipart(params Params) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	err := flattenParams(params, func(key string, v any) error {
		part, ok := v.(*UploadPart)
		if !ok {
			s, err := formatScalar(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return w.WriteField(key, s)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(key)+`"; filename="`+escapeQuotes(part.FileName)+`"`)
		header.Set("Content-Type", part.ContentType)
		pw, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if part.Reader == nil {
			return nil
		}
		if _, err := io.Copy(pw, part.Reader); err != nil {
			return fmt.Errorf("%s: read %s: %w", key, part.FileName, err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
