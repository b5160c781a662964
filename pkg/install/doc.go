// Package install locates the copy of the skill that is under test.
//
// Detection is filesystem-only: a sibling checkout next to the working
// tree means development mode, otherwise the locator probes a fixed,
// ordered list of production install paths. The presence of the skill
// manifest (SKILL.md) inside a candidate directory is the sole signal
// that the directory is a valid installation; the manifest's contents
// are never parsed.
package install
