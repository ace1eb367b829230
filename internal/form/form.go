// Package form binds admin form submissions to typed data.
//
// A form is named; its inputs are posted as name[field]. Binding decodes the
// posted fields into a fresh T (fields missing from the request are cleared,
// which is how unchecked checkboxes come through), then runs the validate
// tags on T. Uploaded files are kept by field name.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

const (
	tagName = "form"
	// maxMemory is the multipart size kept in memory before spilling to disk.
	maxMemory = 32 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get(tagName), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Form is one named form and its current data.
type Form[T any] struct {
	Name   string
	Data   T
	Errors map[string]string

	files     map[string][]byte
	submitted bool
}

// New returns an unsubmitted form holding data.
func New[T any](name string, data T) *Form[T] {
	return &Form[T]{Name: name, Data: data, Errors: map[string]string{}}
}

// Submitted reports whether the last HandleRequest saw this form posted.
func (f *Form[T]) Submitted() bool { return f.submitted }

// Valid reports whether the form was submitted without errors.
func (f *Form[T]) Valid() bool { return f.submitted && len(f.Errors) == 0 }

// AddError attaches a message to a field. An empty field is a form-level
// error.
func (f *Form[T]) AddError(field, msg string) {
	if _, ok := f.Errors[field]; !ok {
		f.Errors[field] = msg
	}
}

// File returns the content of an uploaded file, or nil.
func (f *Form[T]) File(field string) []byte { return f.files[field] }

// InputName is the HTML name of a field.
func (f *Form[T]) InputName(field string) string {
	return fmt.Sprintf("%s[%s]", f.Name, field)
}

// HandleRequest binds r to the form when r is a POST carrying any of the
// form's fields. Other requests leave the form untouched.
func (f *Form[T]) HandleRequest(r *http.Request) error {
	if r.Method != http.MethodPost {
		return nil
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}

	values := f.fields(r)
	files, err := f.readFiles(r)
	if err != nil {
		return err
	}
	if len(values) == 0 && len(files) == 0 {
		return nil
	}

	f.submitted = true
	f.files = files
	f.Errors = map[string]string{}

	var data T
	if err := Decode(values, &data); err != nil {
		f.AddError("", err.Error())
		return nil
	}
	f.Data = data
	f.validate()
	return nil
}

// fields collects name[field] and name[field][] keys of the posted form.
func (f *Form[T]) fields(r *http.Request) map[string]any {
	prefix := f.Name + "["
	out := map[string]any{}
	for key, vals := range r.PostForm {
		if !strings.HasPrefix(key, prefix) || len(vals) == 0 {
			continue
		}
		field := strings.TrimPrefix(key, prefix)
		if multi, ok := strings.CutSuffix(field, "][]"); ok {
			out[multi] = vals
			continue
		}
		out[strings.TrimSuffix(field, "]")] = strings.TrimSpace(vals[0])
	}
	return out
}

func (f *Form[T]) readFiles(r *http.Request) (map[string][]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	prefix := f.Name + "["
	out := map[string][]byte{}
	for key, headers := range r.MultipartForm.File {
		if !strings.HasPrefix(key, prefix) || len(headers) == 0 || headers[0].Size == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", key, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", key, err)
		}
		out[strings.TrimSuffix(strings.TrimPrefix(key, prefix), "]")] = data
	}
	return out, nil
}

func (f *Form[T]) validate() {
	err := validate.Struct(f.Data)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.AddError("", err.Error())
		return
	}
	for _, fe := range verrs {
		f.AddError(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This value should not be blank."
	case "max":
		return fmt.Sprintf("This value is too long. It should have %s characters or less.", fe.Param())
	}
	return "This value is not valid."
}

// Decode writes a field map onto out, converting strings to the target
// types.
func Decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          tagName,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}
