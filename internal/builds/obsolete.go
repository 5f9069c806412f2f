package builds

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// VersionControl answers commit-history questions about files
type VersionControl interface {
	// Roots returns the known repository roots in lookup order
	Roots() []string
	IsUnderRepo(root, path string) bool
	LastCommitTime(ctx context.Context, root, path string) (time.Time, error)
}

// Obsolescence reports a file committed after its image was built
type Obsolescence struct {
	Path       string
	BuildTime  time.Time
	CommitTime time.Time
}

// Built returns the image build time as printed in reports
func (o *Obsolescence) Built() string {
	return o.BuildTime.Format(constants.DateFormat)
}

// Changed returns the commit time as printed in reports
func (o *Obsolescence) Changed() string {
	return o.CommitTime.Format(constants.DateFormat)
}

// ObsolescenceChecker compares image creation times with git history
type ObsolescenceChecker struct {
	vcs VersionControl
}

// NewObsolescenceChecker creates a checker backed by vcs
func NewObsolescenceChecker(vcs VersionControl) *ObsolescenceChecker {
	return &ObsolescenceChecker{vcs: vcs}
}

// Check walks buildPath in lexical order and returns the first file whose
// last commit is strictly newer than created. It returns nil when the
// image is current or when buildPath is empty.
func (c *ObsolescenceChecker) Check(ctx context.Context, created time.Time, buildPath string) (*Obsolescence, error) {
	if buildPath == "" {
		return nil, nil
	}

	var result *Obsolescence
	err := filepath.WalkDir(buildPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		root, err := c.repositoryFor(path)
		if err != nil {
			return err
		}

		committed, err := c.vcs.LastCommitTime(ctx, root, path)
		if err != nil {
			return err
		}

		if committed.After(created) {
			logger.WithField("file", path).Info("File changed")
			result = &Obsolescence{
				Path:       path,
				BuildTime:  created,
				CommitTime: committed,
			}
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		if errors.IsRapydoError(err) {
			return nil, err
		}
		return nil, errors.InternalError("walking build path "+buildPath, err)
	}

	return result, nil
}

func (c *ObsolescenceChecker) repositoryFor(path string) (string, error) {
	for _, root := range c.vcs.Roots() {
		if c.vcs.IsUnderRepo(root, path) {
			return root, nil
		}
	}
	return "", errors.UntrackedPath(path)
}
