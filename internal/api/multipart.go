package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/botwire/botwire/internal/types"
)

// FormField is one named value of a dynamically built multipart payload.
type FormField struct {
	Name  string
	Value any
}

// FormFielder lets a payload list its fields explicitly instead of having
// them read from its struct definition.
type FormFielder interface {
	FormFields() []FormField
}

var (
	inputFileType  = reflect.TypeOf(types.InputFile{})
	formValuerType = reflect.TypeOf((*FormValuer)(nil)).Elem()
)

// formPart is a text part, or an upload when file is set.
type formPart struct {
	name string
	text string
	file *types.InputFile
}

// buildForm encodes a payload as multipart/form-data. Parts follow the
// payload's field order; uploads referenced from structured fields follow
// the part that references them. Upload contents are read concurrently.
func buildForm(ctx context.Context, method string, payload any) ([]byte, string, error) {
	parts, err := collectParts(method, payload)
	if err != nil {
		return nil, "", err
	}

	// A file used by several parts is read once; a reader cannot be read twice.
	var uploads []formPart
	index := make(map[string]int)
	for _, part := range parts {
		if part.file == nil {
			continue
		}
		if _, ok := index[part.file.AttachID()]; !ok {
			index[part.file.AttachID()] = len(uploads)
			uploads = append(uploads, part)
		}
	}

	contents := make([][]byte, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i := range uploads {
		i := i
		g.Go(func() error {
			data, err := uploads[i].file.Read(gctx)
			if err != nil {
				return &FormError{Method: method, Field: uploads[i].name, Err: err}
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, part := range parts {
		if part.file == nil {
			if err := writer.WriteField(part.name, part.text); err != nil {
				return nil, "", &FormError{Method: method, Field: part.name, Err: err}
			}
			continue
		}
		data := contents[index[part.file.AttachID()]]
		w, err := createFilePart(writer, part.name, part.file.FileName(), data)
		if err != nil {
			return nil, "", &FormError{Method: method, Field: part.name, Err: err}
		}
		if _, err := w.Write(data); err != nil {
			return nil, "", &FormError{Method: method, Field: part.name, Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", &FormError{Method: method, Err: fmt.Errorf("failed to close multipart writer: %w", err)}
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

func collectParts(method string, payload any) ([]formPart, error) {
	c := partCollector{method: method, seen: map[string]bool{}}

	if f, ok := payload.(FormFielder); ok {
		for _, field := range f.FormFields() {
			v := reflect.ValueOf(field.Value)
			if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
				continue
			}
			if v.Kind() == reflect.Pointer {
				v = v.Elem()
			}
			if err := c.add(field.Name, v); err != nil {
				return nil, err
			}
		}
		return c.parts, nil
	}

	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, &FormError{Method: method, Err: errors.New("payload is nil")}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, &FormError{Method: method, Err: fmt.Errorf("payload must be a struct, got %s", v.Kind())}
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || (sf.Anonymous && sf.Type.Size() == 0) {
			continue
		}
		name, omitEmpty, skip := jsonFieldName(sf)
		if skip {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if err := c.add(name, fv); err != nil {
			return nil, err
		}
	}
	return c.parts, nil
}

type partCollector struct {
	method string
	parts  []formPart
	seen   map[string]bool
}

func (c *partCollector) add(name string, v reflect.Value) error {
	if v.Type() == inputFileType {
		f := v.Interface().(types.InputFile)
		if f.IsZero() {
			return &FormError{Method: c.method, Field: name, Err: errors.New("file is not set")}
		}
		if f.NeedsUpload() {
			c.parts = append(c.parts, formPart{name: name, file: &f})
			return nil
		}
		c.parts = append(c.parts, formPart{name: name, text: f.FormValue()})
		return nil
	}

	if v.Type().Implements(formValuerType) {
		c.parts = append(c.parts, formPart{name: name, text: v.Interface().(FormValuer).FormValue()})
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		c.parts = append(c.parts, formPart{name: name, text: v.String()})
		return nil
	case reflect.Bool:
		c.parts = append(c.parts, formPart{name: name, text: strconv.FormatBool(v.Bool())})
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c.parts = append(c.parts, formPart{name: name, text: strconv.FormatInt(v.Int(), 10)})
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		c.parts = append(c.parts, formPart{name: name, text: strconv.FormatUint(v.Uint(), 10)})
		return nil
	case reflect.Float32, reflect.Float64:
		c.parts = append(c.parts, formPart{name: name, text: strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())})
		return nil
	}

	data, err := json.Marshal(v.Interface())
	if err != nil {
		return &EncodeError{Method: c.method, Err: fmt.Errorf("field %q: %w", name, err)}
	}
	c.parts = append(c.parts, formPart{name: name, text: string(data)})

	var nested []types.InputFile
	collectUploads(v, &nested)
	for i := range nested {
		f := nested[i]
		if c.seen[f.AttachID()] {
			continue
		}
		c.seen[f.AttachID()] = true
		c.parts = append(c.parts, formPart{name: f.AttachID(), file: &f})
	}
	return nil
}

// collectUploads finds uploads nested anywhere inside v, in traversal order.
func collectUploads(v reflect.Value, out *[]types.InputFile) {
	if !v.IsValid() {
		return
	}
	if v.Type() == inputFileType {
		if f := v.Interface().(types.InputFile); f.NeedsUpload() {
			*out = append(*out, f)
		}
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			collectUploads(v.Elem(), out)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				collectUploads(v.Field(i), out)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			collectUploads(v.Index(i), out)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			collectUploads(iter.Value(), out)
		}
	}
}

// isEmptyValue mirrors encoding/json's omitempty rules.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func jsonFieldName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFilePart creates a file part with a sniffed Content-Type.
func createFilePart(w *multipart.Writer, fieldName, filename string, data []byte) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	return w.CreatePart(h)
}
