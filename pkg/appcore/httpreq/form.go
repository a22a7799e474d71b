package httpreq

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FormData is an ordered multipart form. Fields and files are written in the
// order they were added, fields first.
type FormData struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         []byte
}

// NewFormData creates an empty form.
func NewFormData() *FormData {
	return &FormData{}
}

// AddField appends a text field.
func (f *FormData) AddField(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part with the given content.
func (f *FormData) AddFile(field, filename string, content []byte) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	if f == nil {
		return 0
	}
	return len(f.fields) + len(f.files)
}

// encode writes the form as a multipart body. The returned content type
// carries the boundary.
func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if f != nil {
		for _, fld := range f.fields {
			if err := w.WriteField(fld.name, fld.value); err != nil {
				return nil, "", fmt.Errorf("write field %q: %w", fld.name, err)
			}
		}
		for _, file := range f.files {
			part, err := w.CreateFormFile(file.field, file.filename)
			if err != nil {
				return nil, "", fmt.Errorf("create file part %q: %w", file.field, err)
			}
			if _, err := part.Write(file.content); err != nil {
				return nil, "", fmt.Errorf("write file part %q: %w", file.field, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
