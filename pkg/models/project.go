package models

import (
	"path"
	"strings"
)

// RunState describes what is known about a project's runtime state. The
// process-manager protocol is out of scope for this module, so unless a
// status provider is wired in, records stay at StateUnknown.
type RunState string

const (
	StateUnknown     RunState = "unknown"
	StateRunning     RunState = "running"
	StateNotRunning  RunState = "stopped"
	StateNotRunnable RunState = "not_runnable"
	StateSystem      RunState = "system"
)

// Project represents one WinCC OA project installation known to this machine,
// either registered in pvssInst.conf or discovered on disk.
type Project struct {
	Name         string   `json:"name" yaml:"name"`
	InstallDir   string   `json:"install_dir" yaml:"install_dir"`
	InstallDate  string   `json:"install_date,omitempty" yaml:"install_date,omitempty"` // Raw registry text, e.g. "2021.03.09 14:11:25"
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`           // Platform version, empty until resolved
	Company      string   `json:"company,omitempty" yaml:"company,omitempty"`
	Runnable     bool     `json:"runnable" yaml:"runnable"`
	Current      bool     `json:"current,omitempty" yaml:"current,omitempty"`
	Unregistered bool     `json:"unregistered,omitempty" yaml:"unregistered,omitempty"`
	State        RunState `json:"state" yaml:"state"`
}

// Key returns the project's identity: its normalized installation directory.
// Two records with the same key describe the same project.
func (p *Project) Key() string {
	return NormalizePath(p.InstallDir)
}

// VersionPointer is a per-version current-project marker from the registry.
// InstallDir is filled only when the pointer could be resolved to an existing
// directory; otherwise the pointer is matched by name and version alone.
type VersionPointer struct {
	Version     string `json:"version" yaml:"version"`
	ProjectName string `json:"project_name" yaml:"project_name"`
	LastDir     string `json:"last_dir,omitempty" yaml:"last_dir,omitempty"`
	InstallDir  string `json:"install_dir,omitempty" yaml:"install_dir,omitempty"`
}

// Key identifies a pointer that has no resolved directory.
func (vp VersionPointer) Key() string {
	return strings.ToLower(vp.ProjectName) + "@" + vp.Version
}

// NormalizePath reduces a directory path to its identity form: forward
// slashes, cleaned, lower-cased. Registry entries and discovered directories
// may spell the same location with different casing, separators or trailing
// slashes; every map keyed by install dir must key on this form.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	norm := strings.ReplaceAll(p, `\`, "/")
	return strings.ToLower(path.Clean(norm))
}
