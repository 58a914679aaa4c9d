// Package generate turns concrete configurations into image artifact sets.
//
// For a configuration read from <dir>/config, CreateDockerfile renders
// <dir>/<template> into <dir>/images/<version>/Dockerfile, then writes the
// build and deploy scripts next to it. The steps run in a fixed order and a
// failure stops the configuration where it is. Files already written stay on
// disk.
package generate

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cameronsjo/shipwright/internal/descriptor"
	"github.com/cameronsjo/shipwright/internal/render"
	"github.com/cameronsjo/shipwright/internal/tag"
)

const (
	// DefaultTemplate is the Dockerfile template used when the configuration
	// has no template field.
	DefaultTemplate = "Dockerfile.template"

	// DefaultUser is the image namespace used when the configuration has no
	// user field.
	DefaultUser = "tslno"

	// ImagesDir is the directory, next to the config file, holding one
	// subdirectory per effective version.
	ImagesDir = "images"

	buildTemplate  = "templates/build.template"
	deployTemplate = "templates/deploy.template"
)

var (
	// ErrMissingVersion indicates an absent or empty effective version.
	ErrMissingVersion = errors.New("missing version")

	// ErrNotADirectory indicates the config file's directory does not exist.
	ErrNotADirectory = fmt.Errorf("config directory: %w", tag.ErrNotADirectory)
)

//go:embed templates/*.template
var scripts embed.FS

// ArtifactSet describes the files produced for one configuration.
type ArtifactSet struct {
	// Directory is images/<version> under the config directory.
	Directory    string
	Dockerfile   string
	BuildScript  string
	DeployScript string

	Version string
	Tag     string
	Image   string

	// Values holds every field visible to the deploy render.
	Values map[string]string
}

// Generator renders artifact sets. The zero value is not usable; call New.
type Generator struct {
	User      string
	Delimiter string
	Sentinel  string

	// Defaults are filled into each configuration when absent, before the
	// Dockerfile is rendered.
	Defaults map[string]string

	Sink   Sink
	Logger *slog.Logger
	Tags   *tag.Cache
}

// Option configures a Generator.
type Option func(*Generator)

// WithUser sets the default image namespace.
func WithUser(user string) Option {
	return func(g *Generator) { g.User = user }
}

// WithDelimiter sets the tag delimiter.
func WithDelimiter(delimiter string) Option {
	return func(g *Generator) { g.Delimiter = delimiter }
}

// WithSentinel sets the file name marking the top of a tag tree.
func WithSentinel(sentinel string) Option {
	return func(g *Generator) { g.Sentinel = sentinel }
}

// WithDefaults sets extra fill-when-absent fields.
func WithDefaults(defaults map[string]string) Option {
	return func(g *Generator) { g.Defaults = defaults }
}

// WithSink redirects filesystem side effects.
func WithSink(sink Sink) Option {
	return func(g *Generator) { g.Sink = sink }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.Logger = logger }
}

// New returns a Generator writing to disk with the default user, delimiter
// and sentinel.
func New(opts ...Option) *Generator {
	g := &Generator{
		User:      DefaultUser,
		Delimiter: tag.DefaultDelimiter,
		Sentinel:  tag.Sentinel,
		Sink:      DiskSink{},
		Logger:    slog.New(slog.DiscardHandler),
		Tags:      tag.NewCache(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateDockerfile renders and writes the artifact set for one configuration
// of the descriptor at originFile. cfg is not modified.
func (g *Generator) CreateDockerfile(originFile string, cfg descriptor.Configuration) (*ArtifactSet, error) {
	// 1. Config directory, with symlinks resolved so the tag follows the
	// real location.
	origin, err := filepath.Abs(originFile)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", originFile, err)
	}
	if resolved, err := filepath.EvalSymlinks(origin); err == nil {
		origin = resolved
	}
	directory := filepath.Dir(origin)
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", directory, ErrNotADirectory)
	}

	// 2. Effective version.
	version, err := EffectiveVersion(cfg)
	if err != nil {
		return nil, err
	}
	vals := newValues(cfg).set(KeyVersion, version).withDefaults(g.Defaults)

	// 3. Output directory.
	outDir := filepath.Join(directory, ImagesDir, version)
	if err := g.Sink.MkdirAll(outDir); err != nil {
		return nil, err
	}
	vals = vals.with(KeyDockerfileDirectory, outDir)

	// 4. Dockerfile template. Relative names are taken from the config
	// directory.
	templatePath, ok := vals.get(KeyTemplate)
	if !ok {
		templatePath = DefaultTemplate
	}
	if !filepath.IsAbs(templatePath) {
		templatePath = filepath.Join(directory, templatePath)
	}

	// 5. Dockerfile.
	dockerfile, err := render.File(templatePath, vals.m)
	if err != nil {
		return nil, err
	}
	dockerfilePath := filepath.Join(outDir, "Dockerfile")
	if err := g.Sink.WriteFile(dockerfilePath, []byte(dockerfile)); err != nil {
		return nil, err
	}
	g.Logger.Debug("wrote dockerfile", "path", dockerfilePath, "template", templatePath)
	vals = vals.with(KeyDockerfile, dockerfilePath)

	// 6. Tag, user and image reference.
	vals, err = vals.withFunc(KeyTag, func() (string, error) {
		return g.Tags.Resolve(directory, g.Delimiter, g.Sentinel)
	})
	if err != nil {
		return nil, err
	}
	vals = vals.with(KeyUser, g.User)
	user, _ := vals.get(KeyUser)
	imageTag, _ := vals.get(KeyTag)
	vals = vals.with(KeyImage, imageRef(user, imageTag, version))

	// 7. Build script.
	buildPath := filepath.Join(outDir, "build")
	if err := g.writeScript(buildTemplate, buildPath, vals); err != nil {
		return nil, err
	}
	vals = vals.with(KeyBuildScript, buildPath)

	// 8. Deploy script.
	deployPath := filepath.Join(outDir, "deploy")
	if err := g.writeScript(deployTemplate, deployPath, vals); err != nil {
		return nil, err
	}

	// 9. Done.
	image, _ := vals.get(KeyImage)
	g.Logger.Info("generated artifact set", "dir", outDir, "version", version, "tag", imageTag, "image", image)

	return &ArtifactSet{
		Directory:    outDir,
		Dockerfile:   dockerfilePath,
		BuildScript:  buildPath,
		DeployScript: deployPath,
		Version:      version,
		Tag:          imageTag,
		Image:        image,
		Values:       vals.toMap(),
	}, nil
}

func (g *Generator) writeScript(templateName, path string, vals values) error {
	content, err := render.FS(scripts, templateName, vals.m)
	if err != nil {
		return err
	}
	if err := g.Sink.WriteFile(path, []byte(content)); err != nil {
		return err
	}
	if err := g.Sink.MakeExecutable(path); err != nil {
		return err
	}
	g.Logger.Debug("wrote script", "path", path)
	return nil
}

// imageRef joins user, tag and version into a docker reference. The tag part
// is skipped when the config sits directly in the sentinel directory.
func imageRef(user, imageTag, version string) string {
	if imageTag == "" {
		return user + ":" + version
	}
	return user + "/" + imageTag + ":" + version
}
