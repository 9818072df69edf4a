package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the ordered list of catalogs to build sitemaps for. Order in the
// file is the generation order.
type Config struct {
	Categories []Category `yaml:"categories" validate:"required,min=1,unique=Name,dive"`
}

type Category struct {
	Name          string        `yaml:"name" validate:"required,alphanum,lowercase"`
	Endpoint      string        `yaml:"endpoint" validate:"required,url"`
	Entity        string        `yaml:"entity" validate:"required"`
	Field         string        `yaml:"field" validate:"required"`
	StripVariants bool          `yaml:"strip_variants"`
	Filter        *FilterConfig `yaml:"filter"`

	// Resolved from Filter.ReferenceFile or the embedded defaults.
	References []string `yaml:"-"`
}

type FilterConfig struct {
	Threshold     float64 `yaml:"threshold" validate:"gt=0,lte=1"`
	ReferenceFile string  `yaml:"reference_file"`
}

func (c *Category) Filtered() bool {
	return c.Filter != nil
}

func (c *Config) Find(name string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, category := range c.Categories {
		names = append(names, category.Name)
	}
	return names
}

type Loader struct {
	path     string
	validate *validator.Validate
}

func NewLoader(path string) *Loader {
	return &Loader{
		path:     path,
		validate: validator.New(),
	}
}

// Load reads, validates and resolves reference lists. Any failure here is
// meant to stop the process before network or file output.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid catalog config %s: %w", l.path, err)
	}

	baseDir := filepath.Dir(l.path)
	for i := range config.Categories {
		category := &config.Categories[i]
		if !category.Filtered() {
			continue
		}

		refs, err := l.resolveReferences(baseDir, category)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category.Name, err)
		}
		category.References = refs

		slog.Debug("Reference list loaded",
			"category", category.Name,
			"references", len(refs),
			"threshold", category.Filter.Threshold)
	}

	return &config, nil
}

func (l *Loader) validateConfig(config *Config) error {
	err := l.validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Errorf("field %s failed on '%s' rule", fe.Namespace(), fe.Tag())
	}
	return err
}

func (l *Loader) resolveReferences(baseDir string, category *Category) ([]string, error) {
	if category.Filter.ReferenceFile == "" {
		return DefaultReferences(category.Name)
	}

	path := category.Filter.ReferenceFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return LoadReferences(path)
}
