// Package render substitutes named placeholders in text templates.
//
// Two syntaxes are supported. Files ending in .tmpl are Go text/template
// documents with the sprig function library. Every other template uses brace
// placeholders:
//
//	FROM gcloud:{gcloud_version}
//	echo "${{HOME}}"   # {{ and }} are literal braces
//
// In both syntaxes a reference to a name missing from the values is an error.
// Values that the template never references are ignored.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// GoTemplateExt marks templates rendered with text/template.
const GoTemplateExt = ".tmpl"

var (
	// ErrTemplateNotFound indicates the template path is not an existing file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingPlaceholderValue indicates a placeholder with no value.
	ErrMissingPlaceholderValue = errors.New("missing placeholder value")

	// ErrMalformedTemplate indicates a stray brace or an invalid placeholder name.
	ErrMalformedTemplate = errors.New("malformed template")
)

// MissingValueError lists every placeholder that had no value, in the order
// first referenced.
type MissingValueError struct {
	Names []string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: {%s}", ErrMissingPlaceholderValue, strings.Join(e.Names, "}, {"))
}

// Unwrap allows errors.Is(err, ErrMissingPlaceholderValue).
func (e *MissingValueError) Unwrap() error {
	return ErrMissingPlaceholderValue
}

// namePattern matches a placeholder name between braces.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// missingKeyPattern extracts the key from text/template's missingkey=error failure.
var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]*)"`)

// String renders a brace template.
func String(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	var missing []string
	seen := make(map[string]bool)

	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}

			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}

			name := tmpl[i+1 : i+1+end]
			if !namePattern.MatchString(name) {
				return "", fmt.Errorf("%w: invalid placeholder {%s} at offset %d", ErrMalformedTemplate, name, i)
			}

			value, ok := values[name]
			if !ok {
				if !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
			} else {
				b.WriteString(value)
			}
			i += end + 2

		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)

		default:
			b.WriteByte(tmpl[i])
			i++
		}
	}

	if len(missing) > 0 {
		return "", &MissingValueError{Names: missing}
	}

	return b.String(), nil
}

// File renders the template at path. The syntax is chosen by extension.
func File(path string, values map[string]string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}

	return renderContent(path, content, values)
}

// FS renders the named template from fsys.
func FS(fsys fs.FS, name string, values map[string]string) (string, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}

	return renderContent(name, content, values)
}

func renderContent(name string, content []byte, values map[string]string) (string, error) {
	if strings.HasSuffix(name, GoTemplateExt) {
		return goTemplate(filepath.Base(name), string(content), values)
	}

	out, err := String(string(content), values)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

func goTemplate(name, content string, values map[string]string) (string, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", ErrMalformedTemplate, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return "", fmt.Errorf("render %s: %w", name, &MissingValueError{Names: []string{m[1]}})
		}
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	return buf.String(), nil
}
