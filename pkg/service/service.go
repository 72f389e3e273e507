// Package service wires the registry parser, installation resolver,
// discovery walk and categorization into the one surface presenters call:
// refresh, filter, and record lookup.
package service

import (
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mPokornyETM/oaprojects/pkg/catalog"
	"github.com/mPokornyETM/oaprojects/pkg/discovery"
	"github.com/mPokornyETM/oaprojects/pkg/install"
	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/registry"
)

// StatusProvider answers whether a project is currently running. The
// process-manager protocol lives outside this module; without a provider
// every runnable project stays at StateUnknown.
type StatusProvider interface {
	Status(p *models.Project) models.RunState
}

// Config holds service configuration.
type Config struct {
	RegistryPath string
	SearchRoots  []string
	Locator      install.Locator
	Status       StatusProvider
	Logger       *logrus.Logger
}

// Service is the core project inventory service. All methods are safe for
// concurrent use; refreshes are serialized, and whichever refresh finishes
// last leaves its result behind.
type Service struct {
	Config   *Config
	Resolver *install.Resolver

	log *logrus.Logger

	mu       sync.Mutex
	projects []*models.Project
	byDir    map[string]*models.Project
	tree     []*models.CategoryNode
	filtered []*models.CategoryNode
	term     string
}

// New creates a project inventory service. Missing config fields fall back
// to the platform defaults: the installer's registry file location and the
// OS-native installation locator.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}
	if config.RegistryPath == "" {
		config.RegistryPath = registry.DefaultPath()
	}
	if config.Locator == nil {
		config.Locator = install.NewLocator()
	}
	log := config.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &Service{
		Config:   config,
		Resolver: install.NewResolver(config.Locator, log),
		log:      log,
		byDir:    make(map[string]*models.Project),
	}
}

// Refresh rebuilds the project set and the category tree: registry records
// first, then current-project backfill from the version pointers, then disk
// discovery against the registered set. A missing registry file only skips
// the registry step; a registry that exists but cannot be read is fatal,
// clearing the inventory rather than showing a partial one.
func (s *Service) Refresh() ([]*models.CategoryNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := registry.ParseFile(s.Config.RegistryPath)
	if err != nil {
		s.projects = nil
		s.byDir = make(map[string]*models.Project)
		s.tree = nil
		s.filtered = nil
		s.log.WithError(err).Error("registry read failed")
		return nil, err
	}

	merged := make(map[string]*models.Project, len(doc.Projects))
	var order []*models.Project
	for _, p := range doc.Projects {
		key := p.Key()
		if key == "" {
			continue
		}
		if existing, ok := merged[key]; ok {
			// Same directory registered twice: the later section wins, in
			// place, like duplicate keys within a section.
			*existing = *p
			continue
		}
		merged[key] = p
		order = append(order, p)
	}

	for _, vp := range doc.Pointers {
		if vp.InstallDir == "" {
			for _, p := range order {
				if strings.EqualFold(p.Name, vp.ProjectName) && p.Version == vp.Version {
					p.Current = true
				}
			}
			continue
		}
		key := models.NormalizePath(vp.InstallDir)
		if p, ok := merged[key]; ok {
			p.Current = true
			if p.Version == "" {
				p.Version = vp.Version
			}
			continue
		}
		// The ordinary project list omits this one, but the pointer proves
		// it exists on disk.
		p := &models.Project{
			Name:       vp.ProjectName,
			InstallDir: vp.InstallDir,
			Version:    vp.Version,
			Runnable:   true,
			Current:    true,
			State:      models.StateUnknown,
		}
		merged[key] = p
		order = append(order, p)
	}

	registered := make(map[string]bool, len(merged))
	for key := range merged {
		registered[key] = true
	}
	for _, p := range discovery.Scan(s.Config.SearchRoots, registered, s.log) {
		key := p.Key()
		if _, ok := merged[key]; ok {
			continue
		}
		merged[key] = p
		order = append(order, p)
	}

	for _, p := range order {
		s.assignState(p)
	}

	s.projects = order
	s.byDir = merged
	s.tree = catalog.Build(order, s.Resolver)
	if s.term != "" {
		s.filtered = catalog.Filter(s.tree, s.term)
	} else {
		s.filtered = nil
	}

	s.log.WithFields(logrus.Fields{
		"projects":   len(order),
		"categories": len(s.tree),
		"dropped":    doc.Dropped,
	}).Info("project inventory refreshed")

	return s.view(), nil
}

// SetFilter narrows the category view to records matching term. An empty
// term restores the retained unfiltered tree without rebuilding anything.
func (s *Service) SetFilter(term string) []*models.CategoryNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term = strings.TrimSpace(term)
	if s.term == "" {
		s.filtered = nil
		return s.tree
	}
	s.filtered = catalog.Filter(s.tree, s.term)
	return s.filtered
}

// Categories returns the current view: the filtered tree while a filter is
// active, the full tree otherwise.
func (s *Service) Categories() []*models.CategoryNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// FilterTerm returns the active filter term, empty when unfiltered.
func (s *Service) FilterTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Projects returns the merged record set of the last refresh.
func (s *Service) Projects() []*models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Project(nil), s.projects...)
}

// ProjectAt looks up a record by its directory, in any spelling.
func (s *Service) ProjectAt(dir string) (*models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byDir[models.NormalizePath(dir)]
	return p, ok
}

func (s *Service) view() []*models.CategoryNode {
	if s.term != "" {
		return s.filtered
	}
	return s.tree
}

// assignState derives the run state a record can carry without talking to
// the process manager. The platform installation entries show as system,
// the not-runnable flag wins over any provider, and everything else is the
// provider's call.
func (s *Service) assignState(p *models.Project) {
	switch {
	case s.Resolver.IsInstallationDir(p.InstallDir):
		p.State = models.StateSystem
	case !p.Runnable:
		p.State = models.StateNotRunnable
	case s.Config.Status != nil:
		p.State = s.Config.Status.Status(p)
	default:
		p.State = models.StateUnknown
	}
}
