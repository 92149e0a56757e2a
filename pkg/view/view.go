// Package view renders HTML templates against a flat context mapping.
// Templates are parsed once at startup from an fs.FS; output is auto-escaped
// by html/template.
package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"reflect"
	"strings"

	"github.com/xemah/battleweb/pkg/strutil"
)

// ErrTemplateNotFound is returned when rendering an unknown template name.
var ErrTemplateNotFound = errors.New("view: template not found")

// Context is the flat mapping handed to templates.
type Context = map[string]any

// Renderer executes named templates with a shared function map.
type Renderer struct {
	templates *template.Template
	ext       string
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithExtension sets the template file extension. Defaults to ".html".
func WithExtension(ext string) Option {
	return func(r *Renderer) {
		if ext != "" {
			r.ext = ext
		}
	}
}

// New parses all templates matching patterns from fsys.
//
// Example:
//
//	//go:embed views
//	var views embed.FS
//
//	renderer, err := view.New(views, "views/*.html")
func New(fsys fs.FS, patterns ...string) (*Renderer, error) {
	r := &Renderer{ext: ".html"}

	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	r.templates = tmpl

	return r, nil
}

// Render executes the named template (without extension) against data.
func (r *Renderer) Render(w io.Writer, name string, data Context) error {
	tmpl := r.templates.Lookup(name + r.ext)
	if tmpl == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return tmpl.Execute(w, data)
}

// Has reports whether a template with the given name exists.
func (r *Renderer) Has(name string) bool {
	return r.templates.Lookup(name+r.ext) != nil
}

// Funcs returns the template function map shared by all templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"in":         in,
		"capitalize": strutil.Capitalize,
		"truncate":   strutil.Truncate,
	}
}

// in reports whether list contains an element whose attribute attr equals
// val. Elements may be maps keyed by string or structs; attr defaults to
// "id" when empty. Used by templates to test list membership:
//
//	{{ if in .authenticatedUser.id .participants "id" }} ... {{ end }}
func in(val any, list any, attr string) bool {
	if attr == "" {
		attr = "id"
	}

	lv := reflect.ValueOf(list)
	if !lv.IsValid() || (lv.Kind() != reflect.Slice && lv.Kind() != reflect.Array) {
		return false
	}

	for i := 0; i < lv.Len(); i++ {
		if got, ok := attrValue(lv.Index(i), attr); ok && equal(got, val) {
			return true
		}
	}

	return false
}

// attrValue extracts the named attribute from a map or struct element.
func attrValue(elem reflect.Value, attr string) (any, bool) {
	for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return nil, false
		}
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		v := elem.MapIndex(reflect.ValueOf(attr))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		// Try common Go field spellings: "id" → Id, ID.
		for _, name := range []string{attr, strutil.Capitalize(attr), strings.ToUpper(attr)} {
			if v := elem.FieldByName(name); v.IsValid() {
				return v.Interface(), true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// equal compares attribute values loosely: fmt-rendered forms must match.
// Template data mixes strings, ints, and interface values, so strict
// equality would miss obvious matches like int(1) vs "1".
func equal(a, b any) bool {
	if a == b {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
