// Package workspace reads Anchor.toml and enumerates the programs of an
// Anchor workspace.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the workspace manifest file name.
const ManifestName = "Anchor.toml"

// ErrNoWorkspace is returned by Load when no Anchor.toml is found.
var ErrNoWorkspace = errors.New("no Anchor.toml found\nrun inside an Anchor workspace or pass --path explicitly")

type Workspace struct {
	Path   string // Anchor.toml
	Root   string
	Config Config

	resolutionSet bool
}

type Config struct {
	Toolchain Toolchain                    `toml:"toolchain"`
	Features  Features                     `toml:"features"`
	Programs  map[string]map[string]string `toml:"programs"` // cluster -> program -> address
	Provider  Provider                     `toml:"provider"`
	Workspace Members                      `toml:"workspace"`
}

type Toolchain struct {
	AnchorVersion string `toml:"anchor_version"`
	SolanaVersion string `toml:"solana_version"`
}

type Features struct {
	Resolution bool `toml:"resolution"`
	SkipLint   bool `toml:"skip-lint"`
}

type Provider struct {
	Cluster string `toml:"cluster"`
	Wallet  string `toml:"wallet"`
}

type Members struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
}

// Program is one buildable program of the workspace.
type Program struct {
	Name    string // library name, underscores
	Dir     string
	Address string // from [programs.<cluster>], may be empty
}

// Find walks up from startDir looking for Anchor.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the workspace containing startDir.
func Load(startDir string) (*Workspace, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoWorkspace
	}
	return LoadFile(path)
}

// LoadFile parses an Anchor.toml.
func LoadFile(path string) (*Workspace, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("provider") && strings.TrimSpace(cfg.Provider.Cluster) == "" {
		return nil, fmt.Errorf("%s: missing [provider].cluster", path)
	}
	for cluster, progs := range cfg.Programs {
		for name, addr := range progs {
			if strings.TrimSpace(addr) == "" {
				return nil, fmt.Errorf("%s: [programs.%s].%s has no address", path, cluster, name)
			}
		}
	}
	return &Workspace{
		Path:          path,
		Root:          filepath.Dir(path),
		Config:        cfg,
		resolutionSet: meta.IsDefined("features", "resolution"),
	}, nil
}

// Resolution reports whether account resolution is enabled; Anchor's default
// is on.
func (w *Workspace) Resolution() bool {
	if !w.resolutionSet {
		return true
	}
	return w.Config.Features.Resolution
}

// Cluster is the provider cluster in lower case, "localnet" by default.
func (w *Workspace) Cluster() string {
	c := strings.ToLower(strings.TrimSpace(w.Config.Provider.Cluster))
	if c == "" {
		return "localnet"
	}
	return c
}

// Programs lists workspace programs sorted by name. Members default to
// programs/*; directories without Cargo.toml are skipped.
func (w *Workspace) Programs() ([]Program, error) {
	patterns := w.Config.Workspace.Members
	if len(patterns) == 0 {
		patterns = []string{"programs/*"}
	}
	excluded := make(map[string]bool)
	for _, ex := range w.Config.Workspace.Exclude {
		excluded[filepath.Clean(filepath.Join(w.Root, filepath.FromSlash(ex)))] = true
	}

	seen := make(map[string]bool)
	var out []Program
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(w.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad workspace member %q: %w", w.Path, pattern, err)
		}
		for _, dir := range matches {
			dir = filepath.Clean(dir)
			if seen[dir] || excluded[dir] {
				continue
			}
			seen[dir] = true
			name, ok, err := crateName(dir)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, Program{Name: name, Dir: dir, Address: w.address(name)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (w *Workspace) address(name string) string {
	if progs, ok := w.Config.Programs[w.Cluster()]; ok {
		return progs[name]
	}
	return ""
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
	} `toml:"lib"`
}

// crateName returns the library name of the crate in dir ([lib].name, else
// [package].name with dashes replaced).
func crateName(dir string) (string, bool, error) {
	path := filepath.Join(dir, "Cargo.toml")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	var m cargoManifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return "", false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("lib", "name") && m.Lib.Name != "" {
		return m.Lib.Name, true, nil
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(m.Package.Name) == "" {
		return "", false, fmt.Errorf("%s: missing [package].name", path)
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_"), true, nil
}
