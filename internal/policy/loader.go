package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lc/pimguard/internal/filesys"
	"github.com/lc/pimguard/internal/log"
)

const (
	// EnvConfigDir overrides the configuration root directory.
	EnvConfigDir = "APPLE_PIM_CONFIG_DIR"
	// EnvProfile selects a profile when none is passed explicitly.
	EnvProfile = "APPLE_PIM_PROFILE"

	// DefaultConfigDirName is the per-user config directory under $HOME.
	DefaultConfigDirName = ".pimguard"

	baseFileName   = "config.json"
	profileDirName = "profiles"
)

// Loader reads the base configuration and optional profile overrides from
// one config root directory. Nothing is cached: every Load re-reads the
// files so external edits take effect on the next invocation without any
// restart.
type Loader struct {
	fs   filesys.ReadWriteFS
	root string
}

// NewLoader creates a loader rooted at the directory named by the
// APPLE_PIM_CONFIG_DIR environment variable, falling back to
// ~/.pimguard. If the home directory cannot be determined, the current
// directory is used.
func NewLoader() *Loader {
	return NewLoaderWithRoot(filesys.OS(), ConfigRoot())
}

// NewLoaderWithRoot creates a loader with a specific filesystem and root,
// mainly for tests.
func NewLoaderWithRoot(fs filesys.ReadWriteFS, root string) *Loader {
	return &Loader{fs: fs, root: root}
}

// ConfigRoot resolves the configuration root directory: the environment
// override if set and non-empty, else the fixed per-user default.
func ConfigRoot() string {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("could not determine home directory: %v", err)
		home = ""
	}
	return filepath.Join(home, DefaultConfigDirName)
}

// Root returns the loader's config root directory.
func (l *Loader) Root() string { return l.root }

// BasePath returns the path of the base configuration file.
func (l *Loader) BasePath() string { return filepath.Join(l.root, baseFileName) }

// ProfilePath returns the path of a profile file. The name is reduced to
// its final path component as a second guard behind ValidateProfileName.
func (l *Loader) ProfilePath(name string) string {
	return filepath.Join(l.root, profileDirName, filepath.Base(name)+".json")
}

// LoadBase reads the base configuration. A missing file is the expected
// "no restrictions configured yet" state and yields the all-access
// default; so does a file that fails to parse, with a non-fatal warning.
// Malformed base config never blocks execution.
func (l *Loader) LoadBase() *Config {
	data, err := l.fs.ReadFile(l.BasePath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("reading %s: %v; using all-access defaults", l.BasePath(), err)
		}
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Warnf("parsing %s: %v; using all-access defaults", l.BasePath(), err)
		return Default()
	}
	return cfg
}

// ResolveProfileName picks the profile to apply: the explicit argument
// wins, else the APPLE_PIM_PROFILE environment variable, else none.
func (l *Loader) ResolveProfileName(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSpace(os.Getenv(EnvProfile))
}

// LoadProfile reads a profile override by name. A missing file is
// ErrProfileNotFound and an unparsable one is ErrMalformedProfile; both
// are fatal to the requesting invocation.
func (l *Loader) LoadProfile(name string) (*Override, error) {
	path := l.ProfilePath(name)
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q (expected at %s)", ErrProfileNotFound, name, path)
		}
		return nil, fmt.Errorf("reading profile %q: %w", name, err)
	}

	var ov Override
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedProfile, name, err)
	}
	return &ov, nil
}

// ListProfiles returns the names of all profiles on disk, sorted.
func (l *Loader) ListProfiles() ([]string, error) {
	entries, err := l.fs.ReadDir(filepath.Join(l.root, profileDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Load produces the resolved configuration for one invocation.
//
// The base config degrades softly (missing or malformed → all-access
// defaults), but a profile that was explicitly requested and cannot be
// honored is a hard error: silently falling back to the base would widen
// access relative to what the caller asked for.
func (l *Loader) Load(explicitProfile string) (*Resolved, error) {
	base := l.LoadBase()

	name := l.ResolveProfileName(explicitProfile)
	if name == "" {
		r := Merge(*base, nil)
		return &r, nil
	}

	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}

	ov, err := l.LoadProfile(name)
	if err != nil {
		return nil, err
	}

	log.Debugf("applying profile %q from %s", name, l.ProfilePath(name))
	r := Merge(*base, ov)
	r.Profile = name
	return &r, nil
}
