package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant is the trailing letter of a UTK executable name. Each sampler and
// discrepancy is built twice, once per variant.
type Variant string

const (
	VariantD Variant = "d"
	VariantI Variant = "i"
)

// discrepancyInfix marks executables that read their input points from a file.
const discrepancyInfix = "_fromfile"

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	return v == VariantD || v == VariantI
}

// ParseVariant accepts "d" or "i".
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown variant %q; valid: d, i", s)
	}
	return v, nil
}

// Identity is what an executable file name encodes.
type Identity struct {
	Name    string
	Dim     int
	Variant Variant
}

// ExecutableName returns the sampler file name `<name>_<dim>d<variant>`.
func ExecutableName(name string, dim int, v Variant) string {
	return fmt.Sprintf("%s_%dd%s", name, dim, v)
}

// DiscrepancyExecutableName returns `<name>_fromfile_<dim>d<variant>`.
func DiscrepancyExecutableName(name string, dim int, v Variant) string {
	return ExecutableName(name+discrepancyInfix, dim, v)
}

// ParseExecutableName splits a file name of the form `<name>_<dim>d<variant>`.
// The name part may itself contain underscores.
func ParseExecutableName(file string) (Identity, error) {
	idx := strings.LastIndex(file, "_")
	if idx <= 0 || idx == len(file)-1 {
		return Identity{}, fmt.Errorf("%q has no _<dim>d<variant> suffix", file)
	}
	name, suffix := file[:idx], file[idx+1:]
	if len(suffix) < 3 || suffix[len(suffix)-2] != 'd' {
		return Identity{}, fmt.Errorf("%q: suffix %q is not <dim>d<variant>", file, suffix)
	}
	v, err := ParseVariant(suffix[len(suffix)-1:])
	if err != nil {
		return Identity{}, fmt.Errorf("%q: %w", file, err)
	}
	digits := suffix[:len(suffix)-2]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return Identity{}, fmt.Errorf("%q: dimension %q is not a number", file, digits)
	}
	dim, err := strconv.Atoi(digits)
	if err != nil {
		return Identity{}, fmt.Errorf("%q: %w", file, err)
	}
	return Identity{Name: name, Dim: dim, Variant: v}, nil
}
