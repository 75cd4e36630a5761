// Package catalog holds the set of modules and permissions that can be
// granted to a workspace membership.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog errors.
var (
	ErrUnknownModule     = errors.New("unknown module")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)

var nameRegex = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Module is a feature area and the actions it exposes.
type Module struct {
	Name        string   `yaml:"name" json:"name" example:"salesman"`
	Label       string   `yaml:"label" json:"label" example:"Salesman"`
	Permissions []string `yaml:"permissions" json:"permissions"`
}

// Catalog is an immutable module/permission registry.
type Catalog struct {
	modules     []Module
	byName      map[string]Module
	permissions map[string]string // permission -> owning module
}

type document struct {
	Modules []Module `yaml:"modules"`
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		byName:      make(map[string]Module, len(doc.Modules)),
		permissions: make(map[string]string),
	}

	for _, m := range doc.Modules {
		if !nameRegex.MatchString(m.Name) {
			return nil, fmt.Errorf("%w: bad module name %q", ErrInvalidCatalog, m.Name)
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate module %q", ErrInvalidCatalog, m.Name)
		}
		for _, p := range m.Permissions {
			if !nameRegex.MatchString(p) {
				return nil, fmt.Errorf("%w: bad permission name %q", ErrInvalidCatalog, p)
			}
			if owner, dup := c.permissions[p]; dup {
				return nil, fmt.Errorf("%w: permission %q listed under %q and %q", ErrInvalidCatalog, p, owner, m.Name)
			}
			c.permissions[p] = m.Name
		}
		c.byName[m.Name] = m
		c.modules = append(c.modules, m)
	}

	return c, nil
}

// Load reads a catalog file. An empty path returns the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Modules returns the modules in file order.
func (c *Catalog) Modules() []Module {
	out := make([]Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// HasModule reports whether name is a known module.
func (c *Catalog) HasModule(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// HasPermission reports whether name is a known permission.
func (c *Catalog) HasPermission(name string) bool {
	_, ok := c.permissions[name]
	return ok
}

// ModuleOf returns the module a permission is listed under.
func (c *Catalog) ModuleOf(permission string) (string, bool) {
	m, ok := c.permissions[permission]
	return m, ok
}

// AllModules returns every module name, sorted.
func (c *Catalog) AllModules() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllPermissions returns every permission name, sorted.
func (c *Catalog) AllPermissions() []string {
	names := make([]string, 0, len(c.permissions))
	for name := range c.permissions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateGrants checks that every module and permission is in the catalog.
func (c *Catalog) ValidateGrants(modules, permissions []string) error {
	for _, m := range modules {
		if !c.HasModule(m) {
			return fmt.Errorf("%w: %s", ErrUnknownModule, m)
		}
	}
	for _, p := range permissions {
		if !c.HasPermission(p) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
	}
	return nil
}
