package templates

import (
	"context"

	"github.com/a-h/templ"
)

// FieldType selects the input rendered for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

// Field is one form input.
type Field struct {
	Name     string
	Input    string
	Label    string
	Type     FieldType
	Value    string
	Checked  bool
	Required bool
	Error    string
	Help     string
}

// FormView is a posted admin form.
type FormView struct {
	ID        string
	Action    string
	Multipart bool
	Error     string
	Fields    []Field
	Submit    string
	CancelURL string
}

// Form renders v.
func Form(v FormView) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<form method="post" class="card form"`)
		h.attr("id", v.ID)
		h.href("action", v.Action)
		if v.Multipart {
			h.raw(` enctype="multipart/form-data"`)
		}
		h.raw(`>`)
		if v.Error != "" {
			h.raw(`<div class="alert alert-danger form-error">`)
			h.text(v.Error)
			h.raw(`</div>`)
		}
		for _, f := range v.Fields {
			h.render(ctx, field(f))
		}
		h.raw(`<div class="form-actions">`)
		if v.CancelURL != "" {
			h.raw(`<a class="btn btn-outline-secondary"`)
			h.href("href", v.CancelURL)
			h.raw(`>Cancel</a>`)
		}
		h.raw(`<button type="submit" class="btn btn-primary">`)
		submit := v.Submit
		if submit == "" {
			submit = "Save"
		}
		h.text(submit)
		h.raw(`</button></div></form>`)
	})
}

func field(f Field) templ.Component {
	return component(func(_ context.Context, h *html) {
		class := "form-group"
		if f.Error != "" {
			class += " has-error"
		}
		h.raw(`<div`)
		h.attr("class", class)
		h.raw(`><label`)
		h.attr("for", f.Input)
		h.raw(`>`)
		h.text(f.Label)
		if f.Required {
			h.raw(`<span class="required">*</span>`)
		}
		h.raw(`</label>`)

		switch f.Type {
		case FieldTextarea:
			h.raw(`<textarea`)
			h.attr("id", f.Input)
			h.attr("name", f.Input)
			h.raw(`>`)
			h.text(f.Value)
			h.raw(`</textarea>`)
		case FieldCheckbox:
			h.raw(`<input type="checkbox" value="1"`)
			h.attr("id", f.Input)
			h.attr("name", f.Input)
			if f.Checked {
				h.raw(` checked`)
			}
			h.raw(`>`)
		case FieldFile:
			h.raw(`<input type="file" accept="image/gif,image/jpeg,image/png,image/webp"`)
			h.attr("id", f.Input)
			h.attr("name", f.Input)
			h.raw(`>`)
		default:
			typ := f.Type
			if typ == "" {
				typ = FieldText
			}
			h.raw(`<input`)
			h.attr("type", string(typ))
			h.attr("id", f.Input)
			h.attr("name", f.Input)
			h.attr("value", f.Value)
			if f.Required {
				h.raw(` required`)
			}
			h.raw(`>`)
		}
		if f.Help != "" {
			h.raw(`<small class="form-text">`)
			h.text(f.Help)
			h.raw(`</small>`)
		}
		if f.Error != "" {
			h.raw(`<div class="invalid-feedback">`)
			h.text(f.Error)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}
