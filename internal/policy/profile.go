package policy

import (
	"fmt"
	"strings"
)

// ValidateProfileName rejects profile names that could escape the profiles
// directory or address hidden files. It runs before any filesystem access
// using the name; the loader additionally strips the name to its final path
// component when building the file path.
func ValidateProfileName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidProfileName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidProfileName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains %q", ErrInvalidProfileName, name, "..")
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidProfileName, name)
	}
	return nil
}
