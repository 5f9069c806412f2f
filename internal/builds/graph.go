// Package builds maps docker images to the compose services and build
// contexts that produce them, and decides whether built images are still
// current.
package builds

import (
	"rapydo/internal/compose"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// namePriorities breaks ties between services sharing one image. Lower
// index wins.
var namePriorities = []string{
	"backend",
	"proxy",
	"celery",
	"flower",
	"celerybeat",
	"celery-beat",
	"maintenance",
	"bot",
}

// TemplateBuild describes one image and the services using it
type TemplateBuild struct {
	Image string
	// Service is the representative service, chosen by NamePriority
	Service string
	// Services lists every service using Image, in compose order
	Services []string
	// Path is the build context; empty for pre-built images
	Path string
}

// HasService reports whether name uses this image
func (b *TemplateBuild) HasService(name string) bool {
	if b.Service == name {
		return true
	}
	for _, s := range b.Services {
		if s == name {
			return true
		}
	}
	return false
}

// Graph is an ordered image -> TemplateBuild table
type Graph struct {
	images []string
	builds map[string]*TemplateBuild
}

func newGraph() *Graph {
	return &Graph{builds: make(map[string]*TemplateBuild)}
}

// Get returns the build of image
func (g *Graph) Get(image string) (*TemplateBuild, bool) {
	b, ok := g.builds[image]
	return b, ok
}

// Has reports whether image is part of the graph
func (g *Graph) Has(image string) bool {
	_, ok := g.builds[image]
	return ok
}

// Images returns image names in discovery order
func (g *Graph) Images() []string {
	out := make([]string, len(g.images))
	copy(out, g.images)
	return out
}

// Builds returns every build in discovery order
func (g *Graph) Builds() []*TemplateBuild {
	out := make([]*TemplateBuild, 0, len(g.images))
	for _, image := range g.images {
		out = append(out, g.builds[image])
	}
	return out
}

// Len returns the number of images
func (g *Graph) Len() int {
	return len(g.images)
}

// FindTemplates groups services by image. Services without a build
// clause are skipped unless includeImage is set.
func FindTemplates(services compose.Services, includeImage bool) (*Graph, error) {
	graph := newGraph()

	for _, service := range services {
		if service.Build == nil && !includeImage {
			continue
		}

		if service.Image == "" {
			return nil, errors.MissingImageName(service.Name)
		}

		build, ok := graph.builds[service.Image]
		if !ok {
			build = &TemplateBuild{Image: service.Image, Service: service.Name}
			if service.Build != nil {
				build.Path = service.Build.Context
			}
			graph.builds[service.Image] = build
			graph.images = append(graph.images, service.Image)
		} else {
			build.Service = NamePriority(build.Service, service.Name)
		}
		build.Services = append(build.Services, service.Name)
	}

	return graph, nil
}

// NamePriority returns the preferred representative between two services
// sharing an image. When either name is not a known priority, a warning
// is logged and name2 is returned.
func NamePriority(name1, name2 string) string {
	p1 := priorityIndex(name1)
	p2 := priorityIndex(name2)
	if p1 < 0 || p2 < 0 {
		logger.WithFields(logger.Fields{
			"service1": name1,
			"service2": name2,
		}).Warnf("Cannot determine build priority between %s and %s", name1, name2)
		return name2
	}
	if p1 <= p2 {
		return name1
	}
	return name2
}

func priorityIndex(name string) int {
	for i, n := range namePriorities {
		if n == name {
			return i
		}
	}
	return -1
}

// Clean maps every target to the representative service of its image,
// so services sharing an image are handled once. Unknown targets are
// kept as they are. Results keep the order of first appearance.
func Clean(graph *Graph, targets []string) []string {
	normalization := make(map[string]string)
	for _, build := range graph.Builds() {
		for _, s := range build.Services {
			normalization[s] = build.Service
		}
	}

	seen := make(map[string]struct{}, len(targets))
	var out []string
	for _, t := range targets {
		clean, ok := normalization[t]
		if !ok {
			clean = t
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
