package generate

import (
	"fmt"
	"maps"

	"github.com/cameronsjo/shipwright/internal/descriptor"
)

// Keys the generator derives and adds before rendering. Each one is only
// filled when the configuration does not already carry it.
const (
	KeyVersion             = "version"
	KeyTemplate            = "template"
	KeyDockerfileDirectory = "dockerfile_directory"
	KeyDockerfile          = "dockerfile"
	KeyTag                 = "tag"
	KeyUser                = "user"
	KeyImage               = "image"
	KeyBuildScript         = "buildscript"
)

// values is an immutable snapshot of the fields visible to a render step.
// Every method that changes something returns a new snapshot.
type values struct {
	m map[string]string
}

func newValues(cfg descriptor.Configuration) values {
	m := maps.Clone(cfg)
	if m == nil {
		m = make(map[string]string)
	}
	return values{m: m}
}

func (v values) get(key string) (string, bool) {
	s, ok := v.m[key]
	return s, ok
}

// with fills key when absent.
func (v values) with(key, value string) values {
	if _, ok := v.m[key]; ok {
		return v
	}
	return v.set(key, value)
}

// withFunc is with for values that are costly to compute. fn only runs when
// key is absent.
func (v values) withFunc(key string, fn func() (string, error)) (values, error) {
	if _, ok := v.m[key]; ok {
		return v, nil
	}
	value, err := fn()
	if err != nil {
		return v, err
	}
	return v.set(key, value), nil
}

// set replaces key unconditionally.
func (v values) set(key, value string) values {
	m := maps.Clone(v.m)
	m[key] = value
	return values{m: m}
}

// withDefaults fills every absent key from defaults.
func (v values) withDefaults(defaults map[string]string) values {
	for k, d := range defaults {
		v = v.with(k, d)
	}
	return v
}

func (v values) toMap() map[string]string {
	return maps.Clone(v.m)
}

// EffectiveVersion resolves the version field. When its value names another
// field, that field's value is used; this is one level of indirection, never
// more. Otherwise the literal value is used.
func EffectiveVersion(cfg map[string]string) (string, error) {
	version, ok := cfg[KeyVersion]
	if !ok {
		return "", fmt.Errorf("%w: no %q field", ErrMissingVersion, KeyVersion)
	}

	if aliased, ok := cfg[version]; ok {
		version = aliased
	}

	if version == "" {
		return "", fmt.Errorf("%w: %q resolves to an empty string", ErrMissingVersion, cfg[KeyVersion])
	}

	return version, nil
}
