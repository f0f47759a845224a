// Package catalog loads the read-only content catalog the scheduler
// consumes: per course, an ordered list of modules, each an ordered
// list of reviewable item identifiers. Item content is never read
// here; the engine deals in identifiers only.
package catalog

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Course is one course manifest.
type Course struct {
	ID      string   `yaml:"course"`
	Title   string   `yaml:"title"`
	Modules []Module `yaml:"modules"`
}

// Module groups items for "study by module" selection.
type Module struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// Load reads and validates a single course manifest.
func Load(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return &c, nil
}

// LoadDir loads every .yaml/.yml manifest in dir, keyed by course id.
// A missing directory yields an empty catalog, not an error: a fresh
// installation has no courses yet.
func LoadDir(dir string) (map[string]*Course, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]*Course{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read dir %s: %w", dir, err)
	}

	courses := map[string]*Course{}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		c, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, ok := courses[c.ID]; ok {
			return nil, fmt.Errorf("catalog: duplicate course id %q", c.ID)
		}
		courses[c.ID] = c
	}
	return courses, nil
}

// ItemIDs returns every item id in the course in manifest order.
func (c *Course) ItemIDs() []string {
	var ids []string
	for _, m := range c.Modules {
		ids = append(ids, m.Items...)
	}
	return ids
}

// Module returns the module with the given id, or nil.
func (c *Course) Module(id string) *Module {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i]
		}
	}
	return nil
}

// Shuffled returns the course's item ids in a random order drawn from
// rng. The "shuffle across all modules" study policy.
func (c *Course) Shuffled(rng *rand.Rand) []string {
	ids := c.ItemIDs()
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func (c *Course) validate() error {
	if c.ID == "" {
		return fmt.Errorf("missing course id")
	}
	seen := map[string]string{}
	for _, m := range c.Modules {
		if m.ID == "" {
			return fmt.Errorf("course %s: module with empty id", c.ID)
		}
		for _, id := range m.Items {
			if id == "" {
				return fmt.Errorf("course %s: module %s: empty item id", c.ID, m.ID)
			}
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("course %s: item %q appears in modules %s and %s", c.ID, id, prev, m.ID)
			}
			seen[id] = m.ID
		}
	}
	return nil
}
