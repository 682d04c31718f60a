// Package discovery finds the sampler and discrepancy executables available
// in a UTK build directory.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// Catalog maps an executable name to its available dimensions, ascending.
type Catalog map[string][]int

// Dims lists the dimensions built for each variant.
type Dims struct {
	D []int `yaml:"d"`
	I []int `yaml:"i"`
}

// SplitCatalog keeps the d and i variants apart.
type SplitCatalog map[string]*Dims

// Scan lists the executables in dir, merging both variants.
func Scan(dir string) (Catalog, error) {
	ids, err := scan(dir)
	if err != nil {
		return nil, err
	}
	return merge(ids), nil
}

// ScanSplit lists the executables in dir with variants kept separate.
func ScanSplit(dir string) (SplitCatalog, error) {
	ids, err := scan(dir)
	if err != nil {
		return nil, err
	}
	out := make(SplitCatalog)
	for _, id := range ids {
		dims, ok := out[id.Name]
		if !ok {
			dims = &Dims{D: []int{}, I: []int{}}
			out[id.Name] = dims
		}
		switch id.Variant {
		case VariantD:
			dims.D = append(dims.D, id.Dim)
		case VariantI:
			dims.I = append(dims.I, id.Dim)
		}
	}
	for _, dims := range out {
		dims.D = sortUnique(dims.D)
		dims.I = sortUnique(dims.I)
	}
	return out, nil
}

// ScanDiscrepancies lists discrepancy executables, dropping the `_fromfile`
// infix so the names are the ones discrepancy constructors expect.
func ScanDiscrepancies(dir string) (Catalog, error) {
	ids, err := scan(dir)
	if err != nil {
		return nil, err
	}
	for i := range ids {
		ids[i].Name = strings.TrimSuffix(ids[i].Name, discrepancyInfix)
	}
	return merge(ids), nil
}

func scan(dir string) ([]Identity, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing executables: %w", err)
	}

	var ids []Identity
	for _, entry := range entries {
		file := entry.Name()
		if !strings.Contains(file, "dd") && !strings.Contains(file, "di") {
			continue
		}
		path := filepath.Join(dir, file)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !isExecutable(path, info) {
			continue
		}
		id, err := ParseExecutableName(file)
		if err != nil {
			logrus.Debugf("skipping %s: %v", path, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func merge(ids []Identity) Catalog {
	out := make(Catalog)
	for _, id := range ids {
		out[id.Name] = append(out[id.Name], id.Dim)
	}
	for name, dims := range out {
		out[name] = sortUnique(dims)
	}
	return out
}

func sortUnique(dims []int) []int {
	slices.Sort(dims)
	return slices.Compact(dims)
}

// Names returns the catalog keys in lexical order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Supports reports whether name is available in dimension dim.
func (c Catalog) Supports(name string, dim int) bool {
	_, ok := slices.BinarySearch(c[name], dim)
	return ok
}
