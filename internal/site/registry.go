// Package site resolves observatory names to geodetic locations.
package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/transform"
)

// catalogue holds the built-in observatory list.
//
//go:embed sites.yaml
var catalogue []byte

// Site is a named observatory location.
type Site struct {
	Key       string   `yaml:"key" json:"key"`
	Name      string   `yaml:"name" json:"name"`
	Aliases   []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Latitude  float64  `yaml:"latitude" json:"latitude"`   // degrees
	Longitude float64  `yaml:"longitude" json:"longitude"` // degrees, east positive
	Height    float64  `yaml:"height" json:"height"`       // meters above the WGS-84 ellipsoid
}

// Validate checks the site's coordinates.
func (s *Site) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Key, validation.Required),
		validation.Field(&s.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&s.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&s.Height, validation.Min(-500.0), validation.Max(9000.0)),
	)
}

// Observer returns the site as an observer position.
func (s Site) Observer() transform.ObserverPosition {
	return transform.NewObserverPosition(s.Latitude, s.Longitude, s.Height)
}

type catalogueFile struct {
	Sites []Site `yaml:"sites"`
}

// Registry maps observatory names and aliases to sites.
type Registry struct {
	sites map[string]Site   // by key
	index map[string]string // normalized name/alias -> key
}

// NewRegistry returns a registry populated with the built-in catalogue.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		sites: make(map[string]Site),
		index: make(map[string]string),
	}
	if err := r.decode(bytes.NewReader(catalogue)); err != nil {
		return nil, fmt.Errorf("built-in site catalogue: %w", err)
	}
	return r, nil
}

// Merge adds sites from a YAML document with the same layout as the built-in
// catalogue. Entries whose key already exists replace the existing site.
func (r *Registry) Merge(rd io.Reader) error {
	return r.decode(rd)
}

// MergeFile merges the sites listed in a YAML file.
func (r *Registry) MergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening site file: %w", err)
	}
	defer f.Close()

	if err := r.decode(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (r *Registry) decode(rd io.Reader) error {
	var file catalogueFile
	if err := yaml.NewDecoder(rd).Decode(&file); err != nil && err != io.EOF {
		return fmt.Errorf("parsing site catalogue: %w", err)
	}

	for i := range file.Sites {
		s := file.Sites[i]
		s.Key = normalize(s.Key)
		if err := s.Validate(); err != nil {
			return fmt.Errorf("site %d (%q): %w", i, s.Key, err)
		}
		if s.Name == "" {
			s.Name = s.Key
		}
		r.sites[s.Key] = s
	}
	r.reindex()
	return nil
}

// reindex rebuilds the name index from the site table. Names and aliases are
// written first and keys last, so an alias never shadows another site's key.
func (r *Registry) reindex() {
	keys := make([]string, 0, len(r.sites))
	for k := range r.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	index := make(map[string]string, len(r.index))
	for _, k := range keys {
		s := r.sites[k]
		index[normalize(s.Name)] = k
		for _, a := range s.Aliases {
			index[normalize(a)] = k
		}
	}
	for _, k := range keys {
		index[k] = k
	}
	r.index = index
}

// Lookup resolves a name, key or alias. Matching ignores case and extra whitespace.
func (r *Registry) Lookup(name string) (Site, error) {
	key, ok := r.index[normalize(name)]
	if !ok {
		return Site{}, fmt.Errorf("%w: %q (%d sites known)", apperr.ErrUnknownSite, name, len(r.sites))
	}
	return r.sites[key], nil
}

// Names returns the site keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sites))
	for k := range r.sites {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
