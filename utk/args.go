package utk

import (
	"fmt"
	"strings"
)

// Arg is an extra key/value passed to an executable. Keys are passed
// verbatim, so they carry their own dashes (e.g. "--seed").
type Arg struct {
	Key   string
	Value string
}

// A builds an Arg, formatting value with fmt.Sprint.
func A(key string, value any) Arg {
	return Arg{Key: key, Value: fmt.Sprint(value)}
}

// Flatten returns key, value, key, value, ... in order.
func Flatten(args []Arg) []string {
	out := make([]string, 0, 2*len(args))
	for _, a := range args {
		out = append(out, a.Key, a.Value)
	}
	return out
}

// ParseArgs turns "key=value" strings into Args, splitting on the first '='.
func ParseArgs(pairs []string) ([]Arg, error) {
	args := make([]Arg, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", p)
		}
		args = append(args, Arg{Key: key, Value: value})
	}
	return args, nil
}
