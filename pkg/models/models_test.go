package models

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"forward slashes kept", "/opt/WinCC_OA_Proj/Demo", "/opt/wincc_oa_proj/demo"},
		{"backslashes converted", `C:\WinCC_OA_Proj\Demo`, "c:/wincc_oa_proj/demo"},
		{"trailing slash dropped", "/opt/projects/demo/", "/opt/projects/demo"},
		{"trailing backslash dropped", `C:\WinCC_OA_Proj\Demo\`, "c:/wincc_oa_proj/demo"},
		{"case folded", "/Opt/Projects/DEMO", "/opt/projects/demo"},
		{"redundant segments cleaned", "/opt//projects/./demo", "/opt/projects/demo"},
		{"empty stays empty", "", ""},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProjectKeyIdentity(t *testing.T) {
	a := &Project{Name: "Demo", InstallDir: `C:\WinCC_OA_Proj\Demo`}
	b := &Project{Name: "demo copy", InstallDir: "c:/wincc_oa_proj/demo/"}

	if a.Key() != b.Key() {
		t.Errorf("expected identical keys, got %q and %q", a.Key(), b.Key())
	}

	c := &Project{Name: "Demo", InstallDir: "/opt/projects/demo"}
	if a.Key() == c.Key() {
		t.Error("different directories must not share a key")
	}
}

func TestVersionPointerKey(t *testing.T) {
	vp := VersionPointer{Version: "3.19", ProjectName: "DemoApplication"}
	if vp.Key() != "demoapplication@3.19" {
		t.Errorf("unexpected pointer key %q", vp.Key())
	}
}

func TestCategoryNodeCount(t *testing.T) {
	node := &CategoryNode{
		Label: "Sub-projects",
		Kind:  CategorySubprojects,
		Children: []*CategoryNode{
			{Label: "3.16", Kind: CategoryVersion, Projects: []*Project{{Name: "a"}, {Name: "b"}}},
			{Label: "Unknown", Kind: CategoryVersion, Projects: []*Project{{Name: "c"}}},
		},
	}

	if got := node.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}

	empty := &CategoryNode{Label: "Runnable", Kind: CategoryRunnable}
	if empty.Count() != 0 {
		t.Errorf("empty node Count() = %d, want 0", empty.Count())
	}
}
