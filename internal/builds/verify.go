package builds

import (
	"context"
	"sort"

	"rapydo/internal/compose"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// ImageChecker answers whether an image is available, either in the
// local daemon or in the registry
type ImageChecker interface {
	ImageExists(ctx context.Context, image string) (bool, error)
}

// Verifier makes sure every image needed by a set of services exists
type Verifier struct {
	images ImageChecker
}

// NewVerifier creates a verifier backed by images
func NewVerifier(images ImageChecker) *Verifier {
	return &Verifier{images: images}
}

// Verify checks core images first, then every image of the full
// configuration. It fails on the first missing image with the command
// that would fix it.
func (v *Verifier) Verify(ctx context.Context, services []string, full, base compose.Services) error {
	templates, err := FindTemplates(base, true)
	if err != nil {
		return err
	}

	core := Clean(templates, services)
	sort.Strings(core)
	for _, service := range core {
		for _, build := range templates.Builds() {
			if !build.HasService(service) {
				continue
			}
			if err := v.require(ctx, build.Image, service, "pull"); err != nil {
				return err
			}
		}
	}

	all, err := FindTemplates(full, true)
	if err != nil {
		return err
	}

	for _, service := range Clean(all, services) {
		for _, build := range all.Builds() {
			if !build.HasService(service) {
				continue
			}
			action := "pull"
			if build.Path != "" {
				action = "build"
			}
			if err := v.require(ctx, build.Image, service, action); err != nil {
				return err
			}
		}
	}

	return nil
}

func (v *Verifier) require(ctx context.Context, image, service, action string) error {
	exists, err := v.images.ImageExists(ctx, image)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ImageUnavailable(image, service, action)
	}
	logger.WithFields(logger.Fields{
		"image":   image,
		"service": service,
	}).Debug("Image available")
	return nil
}
