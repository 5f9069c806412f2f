package config

import (
	"strings"

	"golang.org/x/mod/semver"

	"rapydo/internal/logger"
)

// CheckVersion compares the project.rapydo version with the controller
// version. Only major.minor are relevant; a mismatch is reported as a
// warning and false is returned.
func CheckVersion(tree *Tree, controller string) bool {
	required := tree.String("project.rapydo")
	if required == "" {
		return true
	}

	want := canonical(required)
	have := canonical(controller)
	if !semver.IsValid(want) || !semver.IsValid(have) {
		logger.WithFields(logger.Fields{
			"required":   required,
			"controller": controller,
		}).Warn("Unable to compare rapydo versions")
		return false
	}

	if semver.MajorMinor(want) != semver.MajorMinor(have) {
		action := "upgrade"
		if semver.Compare(want, have) < 0 {
			action = "downgrade"
		}
		logger.WithFields(logger.Fields{
			"required":   required,
			"controller": controller,
		}).Warnf("This project is not compatible with rapydo version %s, please %s to %s",
			controller, action, required)
		return false
	}
	return true
}

func canonical(version string) string {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
