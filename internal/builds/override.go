package builds

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"rapydo/internal/compose"
	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// Overrides maps a custom image to the template image it is built FROM
type Overrides map[string]string

// FindOverrides parses the Dockerfile of every built service whose image
// is not a template and records the ones extending a template image.
func FindOverrides(services compose.Services, templates *Graph) (Overrides, error) {
	overrides := make(Overrides)

	for _, service := range services {
		if service.Build == nil || templates.Has(service.Image) {
			continue
		}

		base, err := DockerfileBaseImage(service.Build.Context, templates)
		if err != nil {
			return nil, err
		}

		if !strings.HasPrefix(base, constants.TemplateImagePrefix) {
			continue
		}

		logger.Debugf("%s extends %s", service.Image, base)
		overrides[service.Image] = base
	}

	return overrides, nil
}

// DockerfileBaseImage returns the image named by the last FROM line of
// <context>/Dockerfile, without its "AS <alias>" suffix. Only the final
// stage of a multi-stage build is considered.
func DockerfileBaseImage(buildContext string, templates *Graph) (string, error) {
	dockerfile := filepath.Join(buildContext, "Dockerfile")

	f, err := os.Open(dockerfile)
	if err != nil {
		return "", errors.DockerfileNotFound(dockerfile)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", errors.WrapWithDetails(errors.ErrDockerfileParse, "Failed to read Dockerfile", dockerfile, err)
	}

	for i := len(lines) - 1; i >= 0; i-- {
		image, ok := fromImage(lines[i])
		if !ok {
			continue
		}

		if strings.HasPrefix(image, constants.TemplateImagePrefix) && !templates.Has(image) {
			return "", errors.DockerfileUnknownTemplate(image, dockerfile)
		}
		return image, nil
	}

	return "", errors.DockerfileNoBase(dockerfile)
}

// fromImage returns the image of a FROM instruction. Keywords are case
// insensitive, the image is returned as written.
func fromImage(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "from") {
		return "", false
	}
	for _, field := range fields[1:] {
		// --platform and friends
		if strings.HasPrefix(field, "--") {
			continue
		}
		return field, true
	}
	return "", false
}
