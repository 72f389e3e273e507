package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mPokornyETM/oaprojects/pkg/catalog"
	"github.com/mPokornyETM/oaprojects/pkg/models"
)

type stubLocator map[string]string

func (s stubLocator) Lookup(version string) (string, bool, error) {
	dir, ok := s[version]
	return dir, ok, nil
}

func (s stubLocator) Enumerate() ([]string, error) {
	versions := make([]string, 0, len(s))
	for v := range s {
		versions = append(versions, v)
	}
	return versions, nil
}

type stubStatus struct {
	state models.RunState
}

func (s stubStatus) Status(p *models.Project) models.RunState {
	return s.state
}

// makeProject creates a directory carrying the project marker file.
func makeProject(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(path, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "config", "config"), []byte("[general]\n"), 0o644))
	return path
}

func writeRegistry(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pvssInst.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func labels(tree []*models.CategoryNode) []string {
	out := make([]string, len(tree))
	for i, n := range tree {
		out[i] = n.Label
	}
	return out
}

func findNode(tree []*models.CategoryNode, label string) *models.CategoryNode {
	for _, n := range tree {
		if n.Label == label {
			return n
		}
	}
	return nil
}

func TestRefreshEndToEnd(t *testing.T) {
	root := t.TempDir()
	projRoot := filepath.Join(root, "projects")
	mainDir := makeProject(t, filepath.Join(projRoot, "Main"))
	freeDir := makeProject(t, filepath.Join(projRoot, "Free"))

	// The registry spells Main's directory differently than the disk does;
	// normalization must still recognize them as one project.
	conf := writeRegistry(t, root, `
[Software\ETM\PVSS II\Configs\Main]
InstallationDir = "`+strings.ToUpper(mainDir)+`/"
InstallationVersion = "3.19"
CurrentProject = 1

[Software\ETM\PVSS II\Configs\Legacy_3.16]
InstallationDir = "`+filepath.Join(root, "legacy", "Legacy_3.16")+`"
NotRunnable = 1
`)

	svc := New(&Config{
		RegistryPath: conf,
		SearchRoots:  []string{projRoot},
		Locator:      stubLocator{"3.19": "/opt/WinCC_OA/3.19"},
	})

	tree, err := svc.Refresh()
	require.NoError(t, err)

	want := []string{
		catalog.LabelUnregistered,
		catalog.LabelCurrent,
		catalog.LabelRunnable,
		catalog.LabelUser,
	}
	assert.Equal(t, want, labels(tree))

	unreg := findNode(tree, catalog.LabelUnregistered)
	require.NotNil(t, unreg)
	require.Len(t, unreg.Projects, 1, "registered Main must not be rediscovered")
	assert.Equal(t, freeDir, unreg.Projects[0].InstallDir)

	current := findNode(tree, catalog.LabelCurrent)
	require.NotNil(t, current)
	require.Len(t, current.Projects, 1)
	assert.Equal(t, "Main", current.Projects[0].Name)

	user := findNode(tree, catalog.LabelUser)
	require.NotNil(t, user)
	require.Len(t, user.Children, 1)
	assert.Equal(t, "3.16", user.Children[0].Label, "version falls back to the name token")
	assert.Equal(t, models.StateNotRunnable, user.Children[0].Projects[0].State)

	assert.Len(t, svc.Projects(), 3)

	got, ok := svc.ProjectAt(mainDir + string(filepath.Separator))
	require.True(t, ok, "lookup accepts any spelling of the directory")
	assert.Equal(t, "Main", got.Name)
}

func TestFilterDropsRunnableKeepsUnregistered(t *testing.T) {
	root := t.TempDir()
	acme := makeProject(t, filepath.Join(root, "Acme"))
	beta := makeProject(t, filepath.Join(root, "Beta"))

	conf := writeRegistry(t, root, `
[Software\ETM\PVSS II\Configs\Acme]
InstallationDir = "`+acme+`"
NotRunnable = 0
Company = "Acme"
`)

	svc := New(&Config{
		RegistryPath: conf,
		SearchRoots:  []string{root},
		Locator:      stubLocator{},
	})

	tree, err := svc.Refresh()
	require.NoError(t, err)

	assert.Equal(t, []string{catalog.LabelUnregistered, catalog.LabelRunnable}, labels(tree))
	runnable := findNode(tree, catalog.LabelRunnable)
	require.Len(t, runnable.Projects, 1)
	assert.Equal(t, "Acme", runnable.Projects[0].Name)
	unreg := findNode(tree, catalog.LabelUnregistered)
	require.Len(t, unreg.Projects, 1)
	assert.Equal(t, beta, unreg.Projects[0].InstallDir)

	filtered := svc.SetFilter("beta")
	assert.Equal(t, []string{catalog.LabelUnregistered}, labels(filtered),
		"an emptied Runnable category disappears while filtering")
	require.Len(t, filtered[0].Projects, 1)
	assert.Equal(t, "Beta", filtered[0].Projects[0].Name)
}

func TestRefreshMissingRegistryRunsDiscoveryOnly(t *testing.T) {
	root := t.TempDir()
	found := makeProject(t, filepath.Join(root, "OnDisk"))

	svc := New(&Config{
		RegistryPath: filepath.Join(root, "does-not-exist.conf"),
		SearchRoots:  []string{root},
		Locator:      stubLocator{},
	})

	tree, err := svc.Refresh()
	require.NoError(t, err, "a missing registry file is not an error")

	assert.Equal(t, []string{catalog.LabelUnregistered, catalog.LabelRunnable}, labels(tree))
	require.Len(t, tree[0].Projects, 1)
	assert.Equal(t, found, tree[0].Projects[0].InstallDir)
}

func TestRefreshUnreadableRegistryIsFatal(t *testing.T) {
	svc := New(&Config{
		RegistryPath: t.TempDir(), // a directory: exists but cannot be read
		Locator:      stubLocator{},
	})

	tree, err := svc.Refresh()
	require.Error(t, err)
	assert.Empty(t, tree, "no partial inventory on a fatal registry error")
	assert.Empty(t, svc.Projects())
	assert.Empty(t, svc.Categories())
}

func TestSetFilterAndClear(t *testing.T) {
	root := t.TempDir()
	makeProject(t, filepath.Join(root, "Alpha"))
	makeProject(t, filepath.Join(root, "Beta"))

	svc := New(&Config{
		RegistryPath: filepath.Join(root, "none.conf"),
		SearchRoots:  []string{root},
		Locator:      stubLocator{},
	})
	tree, err := svc.Refresh()
	require.NoError(t, err)

	filtered := svc.SetFilter("alpha")
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Projects, 1)
	assert.Equal(t, "Alpha", filtered[0].Projects[0].Name)
	assert.Equal(t, "alpha", svc.FilterTerm())

	restored := svc.SetFilter("")
	require.Len(t, restored, len(tree))
	assert.Same(t, tree[0], restored[0], "clearing the filter hands back the retained tree")
}

func TestRefreshKeepsActiveFilter(t *testing.T) {
	root := t.TempDir()
	makeProject(t, filepath.Join(root, "Alpha"))
	makeProject(t, filepath.Join(root, "Beta"))

	svc := New(&Config{
		RegistryPath: filepath.Join(root, "none.conf"),
		SearchRoots:  []string{root},
		Locator:      stubLocator{},
	})
	_, err := svc.Refresh()
	require.NoError(t, err)

	svc.SetFilter("beta")
	tree, err := svc.Refresh()
	require.NoError(t, err)

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Projects, 1)
	assert.Equal(t, "Beta", tree[0].Projects[0].Name)
}

func TestVersionPointerSynthesizesRecord(t *testing.T) {
	root := t.TempDir()
	ghostDir := filepath.Join(root, "Ghost")
	require.NoError(t, os.MkdirAll(ghostDir, 0o755))

	conf := writeRegistry(t, root, `
[Software\ETM\PVSS II\3.19]
CurrentProject = Ghost
LastProjectDir = "`+root+`"
`)

	svc := New(&Config{
		RegistryPath: conf,
		Locator:      stubLocator{},
	})

	tree, err := svc.Refresh()
	require.NoError(t, err)

	current := findNode(tree, catalog.LabelCurrent)
	require.NotNil(t, current)
	require.Len(t, current.Projects, 1)

	p := current.Projects[0]
	assert.Equal(t, "Ghost", p.Name)
	assert.Equal(t, ghostDir, p.InstallDir)
	assert.Equal(t, "3.19", p.Version)
	assert.True(t, p.Current)
	assert.True(t, p.Runnable)
}

func TestVersionPointerBackfillsCurrentFlag(t *testing.T) {
	root := t.TempDir()
	demoDir := filepath.Join(root, "Demo")
	require.NoError(t, os.MkdirAll(demoDir, 0o755))

	conf := writeRegistry(t, root, `
[Software\ETM\PVSS II\Configs\Demo]
InstallationDir = "`+demoDir+`"

[Software\ETM\PVSS II\3.19]
CurrentProject = Demo
LastProjectDir = "`+root+`"
`)

	svc := New(&Config{RegistryPath: conf, Locator: stubLocator{}})

	tree, err := svc.Refresh()
	require.NoError(t, err)

	current := findNode(tree, catalog.LabelCurrent)
	require.NotNil(t, current)
	require.Len(t, current.Projects, 1)
	assert.Equal(t, "Demo", current.Projects[0].Name)
	assert.Equal(t, "3.19", current.Projects[0].Version, "pointer version backfills an empty record version")
	assert.Len(t, svc.Projects(), 1, "backfill must not duplicate the record")
}

func TestRunStates(t *testing.T) {
	root := t.TempDir()
	installDir := filepath.Join(root, "WinCC_OA", "3.19")
	require.NoError(t, os.MkdirAll(installDir, 0o755))

	conf := writeRegistry(t, root, `
[Software\ETM\PVSS II\Configs\Running]
InstallationDir = "`+filepath.Join(root, "Running")+`"

[Software\ETM\PVSS II\Configs\Dead]
InstallationDir = "`+filepath.Join(root, "Dead")+`"
NotRunnable = 1

[Software\ETM\PVSS II\3.19]
InstallationDir = "`+installDir+`"
`)

	svc := New(&Config{
		RegistryPath: conf,
		Locator:      stubLocator{"3.19": installDir},
		Status:       stubStatus{state: models.StateRunning},
	})

	_, err := svc.Refresh()
	require.NoError(t, err)

	byName := make(map[string]*models.Project)
	for _, p := range svc.Projects() {
		byName[p.Name] = p
	}

	assert.Equal(t, models.StateRunning, byName["Running"].State, "runnable projects ask the status provider")
	assert.Equal(t, models.StateNotRunnable, byName["Dead"].State)
	assert.Equal(t, models.StateSystem, byName["3.19"].State, "the platform entry is a system project")
}
