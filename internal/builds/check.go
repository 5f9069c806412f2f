package builds

import (
	"context"
	"time"

	"rapydo/internal/compose"
	"rapydo/internal/constants"
	"rapydo/internal/logger"
)

// ImageInspector lists local images and reads their creation time
type ImageInspector interface {
	ListImages(ctx context.Context) ([]string, error)
	// ImageCreationTime returns the zero time for missing images
	ImageCreationTime(ctx context.Context, image string) (time.Time, error)
}

// MissingImage is an image required by an active service but not present
type MissingImage struct {
	Image  string
	Action string
}

// ObsoleteImage is an image older than its sources or its template
type ObsoleteImage struct {
	Image   string
	Service string
	// From is set when the image must be rebuilt rather than pulled
	From    string
	Built   string
	Changed string
}

// Action returns the rapydo command refreshing the image
func (o ObsoleteImage) Action() string {
	if o.From != "" {
		return "build"
	}
	return "pull"
}

// Report collects the findings of Checker.Check
type Report struct {
	Missing  []MissingImage
	Obsolete []ObsoleteImage
}

// Checker inspects the builds of the active services
type Checker struct {
	images       ImageInspector
	obsolescence *ObsolescenceChecker
}

// NewChecker creates a build checker
func NewChecker(images ImageInspector, vcs VersionControl) *Checker {
	return &Checker{
		images:       images,
		obsolescence: NewObsolescenceChecker(vcs),
	}
}

// Check reports missing and obsolete images among the builds used by
// active services. Custom images are also obsolete when the template
// they extend was built after them.
func (c *Checker) Check(ctx context.Context, full, base compose.Services, active []string) (*Report, error) {
	local, err := c.images.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	available := make(map[string]struct{}, len(local))
	for _, image := range local {
		available[image] = struct{}{}
	}

	allBuilds, err := FindTemplates(full, false)
	if err != nil {
		return nil, err
	}
	coreBuilds, err := FindTemplates(base, false)
	if err != nil {
		return nil, err
	}
	overrides, err := FindOverrides(full, coreBuilds)
	if err != nil {
		return nil, err
	}

	activeSet := make(map[string]struct{}, len(active))
	for _, s := range active {
		activeSet[s] = struct{}{}
	}

	report := &Report{}
	for _, build := range allBuilds.Builds() {
		if !usesAny(build, activeSet) {
			continue
		}

		image := build.Image
		if _, ok := available[image]; !ok {
			action := "build"
			if coreBuilds.Has(image) {
				action = "pull"
			}
			logger.WithField("image", image).Warnf("Missing %s image, execute rapydo %s", image, action)
			report.Missing = append(report.Missing, MissingImage{Image: image, Action: action})
			continue
		}

		created, err := c.images.ImageCreationTime(ctx, image)
		if err != nil {
			return nil, err
		}

		obsolete, err := c.obsolescence.Check(ctx, created, build.Path)
		if err != nil {
			return nil, err
		}

		if obsolete != nil {
			from := overrides[image]
			// Custom builds not extending a template are rebuilt, not pulled
			if from == "" && !coreBuilds.Has(image) {
				from = image
			}
			report.add(ObsoleteImage{
				Image:   image,
				Service: build.Service,
				From:    from,
				Built:   obsolete.Built(),
				Changed: obsolete.Changed(),
			})
			continue
		}

		from, ok := overrides[image]
		if !ok {
			continue
		}
		fromBuild, ok := coreBuilds.Get(from)
		if !ok {
			logger.WithField("image", image).Error("Malformed image, from build is missing")
			continue
		}
		if _, ok := available[from]; !ok {
			logger.WithFields(logger.Fields{
				"services": fromBuild.Services,
				"image":    from,
			}).Warn("Missing template build")
		}

		fromCreated, err := c.images.ImageCreationTime(ctx, from)
		if err != nil {
			return nil, err
		}

		templateObsolete, err := c.obsolescence.Check(ctx, fromCreated, fromBuild.Path)
		if err != nil {
			return nil, err
		}
		if templateObsolete != nil {
			report.add(ObsoleteImage{
				Image:   from,
				Service: fromBuild.Service,
				Built:   templateObsolete.Built(),
				Changed: templateObsolete.Changed(),
			})
		}

		if fromCreated.After(created) {
			report.add(ObsoleteImage{
				Image:   image,
				Service: build.Service,
				From:    from,
				Built:   created.Format(constants.DateFormat),
				Changed: fromCreated.Format(constants.DateFormat),
			})
		}
	}

	return report, nil
}

// add records o unless its image is already reported. A template
// shared by several custom images is checked once per extender.
func (r *Report) add(o ObsoleteImage) {
	for _, known := range r.Obsolete {
		if known.Image == o.Image {
			return
		}
	}

	log := logger.WithFields(logger.Fields{
		"image":   o.Image,
		"service": o.Service,
	})
	if o.From != "" {
		log.Warnf("Obsolete image %s: built on %s FROM %s that changed on %s. Update it with: rapydo build %s",
			o.Image, o.Built, o.From, o.Changed, o.Service)
	} else {
		log.Warnf("Obsolete image %s: built on %s but changed on %s. Update it with: rapydo pull %s",
			o.Image, o.Built, o.Changed, o.Service)
	}
	r.Obsolete = append(r.Obsolete, o)
}

func usesAny(build *TemplateBuild, active map[string]struct{}) bool {
	for _, s := range build.Services {
		if _, ok := active[s]; ok {
			return true
		}
	}
	return false
}
