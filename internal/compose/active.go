package compose

import (
	"rapydo/internal/logger"
)

// ResolveActive returns the services flagged with ACTIVATE=1 followed by
// every service they transitively depend on. Seeds keep the compose
// order; dependencies are appended as they are discovered.
func ResolveActive(services Services) []string {
	dependencies := make(map[string][]string, len(services))
	var actives []string

	for _, service := range services {
		dependencies[service.Name] = service.DependsOn
		if service.Active() {
			actives = append(actives, service.Name)
		}
	}

	logger.WithField("services", actives).Debug("Base active services")

	return walkServices(actives, dependencies)
}

// walkServices extends actives in place until it is closed under
// dependencies. Each name is appended at most once, so cycles terminate.
func walkServices(actives []string, dependencies map[string][]string) []string {
	seen := make(map[string]struct{}, len(actives))
	for _, name := range actives {
		seen[name] = struct{}{}
	}

	for i := 0; i < len(actives); i++ {
		for _, dep := range dependencies[actives[i]] {
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			actives = append(actives, dep)
		}
	}
	return actives
}
