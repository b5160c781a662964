package install

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Mode says whether the harness is testing a local checkout or a
// deployed installation.
type Mode string

const (
	// ModeDevelopment tests an adjacent checkout of the skill.
	ModeDevelopment Mode = "development"
	// ModeProduction tests a deployed copy under the user's home
	// directory or working tree.
	ModeProduction Mode = "production"
)

// Target is one candidate root that may contain the skill.
type Target struct {
	Name     string
	Path     string
	Priority bool
}

// Detection is the outcome of probing the filesystem for candidates.
// Target order is significant: consumers take the first target whose
// manifest exists so behavior stays deterministic when multiple
// installations coexist.
type Detection struct {
	Mode    Mode
	Targets []Target
}

// NotFoundError is returned when no candidate contains the manifest.
// It carries every path that was checked so the failure is actionable.
type NotFoundError struct {
	Manifest string
	Checked  []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no installation found: %s missing from all candidates:\n  %s",
		e.Manifest, strings.Join(e.Checked, "\n  "))
}

// Locator probes candidate installation paths for the skill.
type Locator struct {
	skillName        string
	manifest         string
	workDir          string
	homeDir          string
	marketplaceMatch glob.Glob
	marketplaceExpr  string
}

// Option configures a Locator.
type Option func(*Locator)

// WithWorkDir overrides the working directory used for detection.
func WithWorkDir(dir string) Option {
	return func(l *Locator) { l.workDir = dir }
}

// WithHomeDir overrides the home directory used for production paths.
func WithHomeDir(dir string) Option {
	return func(l *Locator) { l.homeDir = dir }
}

// WithMarketplacePattern restricts which marketplace directories are
// probed for the skill. Accepts glob syntax, e.g. "entrhq-*".
func WithMarketplacePattern(pattern string) Option {
	return func(l *Locator) { l.marketplaceExpr = pattern }
}

// NewLocator creates a locator for the named skill. skillName is the
// directory the skill installs under; manifest is the well-known file
// whose presence marks a valid installation.
func NewLocator(skillName, manifest string, opts ...Option) (*Locator, error) {
	if skillName == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	if manifest == "" {
		return nil, fmt.Errorf("manifest filename is required")
	}

	l := &Locator{skillName: skillName, manifest: manifest, marketplaceExpr: "*"}
	for _, opt := range opts {
		opt(l)
	}

	matcher, err := glob.Compile(l.marketplaceExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid marketplace pattern %q: %w", l.marketplaceExpr, err)
	}
	l.marketplaceMatch = matcher

	if l.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		l.workDir = wd
	}
	if l.homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		l.homeDir = home
	}

	return l, nil
}

// Detect decides the mode and enumerates candidate targets in priority
// order. It never fails outright; an empty-manifest situation surfaces
// later from Resolve.
func (l *Locator) Detect() Detection {
	// Development mode: a sibling checkout of the skill next to this
	// working tree, carrying the manifest at its top level.
	sibling := filepath.Join(filepath.Dir(l.workDir), l.skillName)
	if l.hasManifest(sibling) {
		return Detection{
			Mode: ModeDevelopment,
			Targets: []Target{
				{Name: "local checkout", Path: sibling, Priority: true},
			},
		}
	}

	targets := []Target{}

	// Marketplace installs live one level below a marketplace-name
	// directory we cannot predict, so expand it with a glob.
	if mp := l.marketplaceTarget(); mp != nil {
		targets = append(targets, *mp)
	} else {
		// Keep the unexpanded pattern in the list so a resolution
		// failure still reports the path that was considered.
		targets = append(targets, Target{
			Name:     "plugin marketplace",
			Path:     filepath.Join(l.homeDir, ".claude", "plugins", "marketplaces", "*", "skills", l.skillName),
			Priority: true,
		})
	}

	targets = append(targets,
		Target{
			Name:     "user skills",
			Path:     filepath.Join(l.homeDir, ".claude", "skills", l.skillName),
			Priority: true,
		},
		Target{
			Name: "project skills",
			Path: filepath.Join(l.workDir, ".claude", "skills", l.skillName),
		},
		Target{
			Name: "parent project skills",
			Path: filepath.Join(filepath.Dir(l.workDir), ".claude", "skills", l.skillName),
		},
	)

	return Detection{Mode: ModeProduction, Targets: targets}
}

// Resolve returns the first target whose manifest exists on disk.
func (l *Locator) Resolve() (Target, Detection, error) {
	detection := l.Detect()

	checked := make([]string, 0, len(detection.Targets))
	for _, target := range detection.Targets {
		checked = append(checked, target.Path)
		if l.hasManifest(target.Path) {
			return target, detection, nil
		}
	}

	return Target{}, detection, &NotFoundError{Manifest: l.manifest, Checked: checked}
}

// marketplaceTarget expands the marketplace wildcard and returns the
// first installed copy in lexical order, or nil when none exists.
func (l *Locator) marketplaceTarget() *Target {
	root := filepath.Join(l.homeDir, ".claude", "plugins", "marketplaces")
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && l.marketplaceMatch.Match(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(root, name, "skills", l.skillName)
		if l.hasManifest(path) {
			return &Target{Name: "plugin marketplace", Path: path, Priority: true}
		}
	}
	return nil
}

func (l *Locator) hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, l.manifest))
	return err == nil && info.Mode().IsRegular()
}
