package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Standard product names produced by the build pipeline.
const (
	// ProductJars maps a target to its compiled archives.
	ProductJars = "jars"
	// ProductSourceJars maps a target to archives of its sources.
	ProductSourceJars = "source_jars"
	// ProductExternalJars maps the aggregate external target to resolved
	// third-party archives.
	ProductExternalJars = "external_jars"
	// ProductExternalSourceJars maps the aggregate external target to
	// third-party source archives.
	ProductExternalSourceJars = "external_source_jars"
	// ProductExternalJavadocJars maps the aggregate external target to
	// third-party documentation archives.
	ProductExternalJavadocJars = "external_javadoc_jars"
)

// Products is the query interface over externally-produced artifact mappings.
// For a product name and target it returns base directory -> produced
// artifact filenames, or nil when the target has no mapping.
type Products interface {
	Get(product string, t *Target) map[string][]string
}

// ProductMap is an in-memory Products implementation, used for wiring the
// output of a build pipeline (or a recorded product file) into
// materialization.
type ProductMap struct {
	// product -> target label -> base dir -> filenames
	m map[string]map[string]map[string][]string
}

// NewProductMap creates an empty product map.
func NewProductMap() *ProductMap {
	return &ProductMap{m: make(map[string]map[string]map[string][]string)}
}

// Add records filenames produced for (product, target) under base.
func (p *ProductMap) Add(product string, t *Target, base string, files ...string) {
	byTarget, ok := p.m[product]
	if !ok {
		byTarget = make(map[string]map[string][]string)
		p.m[product] = byTarget
	}
	key := t.Label.String()
	byBase, ok := byTarget[key]
	if !ok {
		byBase = make(map[string][]string)
		byTarget[key] = byBase
	}
	byBase[base] = append(byBase[base], files...)
}

// Get implements Products.
func (p *ProductMap) Get(product string, t *Target) map[string][]string {
	byTarget, ok := p.m[product]
	if !ok {
		return nil
	}
	return byTarget[t.Label.String()]
}

// productFile is the on-disk shape of a recorded product mapping:
// product -> target label -> base dir -> filenames.
type productFile map[string]map[string]map[string][]string

// LoadProducts reads a recorded product mapping from a JSON file. Labels in
// the file must resolve against g; an unknown label is a defect in the file.
func LoadProducts(path string, g *Graph) (*ProductMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product file: %w", err)
	}
	var pf productFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse product file %s: %w", path, err)
	}

	pm := NewProductMap()
	for product, byLabel := range pf {
		byTarget := make(map[string]map[string][]string, len(byLabel))
		for lbl, byBase := range byLabel {
			if _, ok := g.byLabel[lbl]; !ok {
				return nil, fmt.Errorf("product %q: %w: %s", product, ErrUnresolvedAddress, lbl)
			}
			byTarget[lbl] = byBase
		}
		pm.m[product] = byTarget
	}
	return pm, nil
}
