package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"rapydo/internal/container"
	rerrors "rapydo/internal/errors"
	"rapydo/internal/logger"
)

// HandleError turns err into the message shown to the user
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var rapydoErr *rerrors.RapydoError
	if errors.As(err, &rapydoErr) {
		logger.WithError(err).WithField("code", rapydoErr.Code).Debug("Command failed")
		return fmt.Errorf("%s", userMessage(rapydoErr))
	}

	var containerErr *container.ContainerError
	if errors.As(err, &containerErr) {
		logger.WithError(err).Debug("Container operation failed")
		return fmt.Errorf("%s", container.NewErrorHandler().GetUserMessage(containerErr))
	}

	return err
}

func userMessage(err *rerrors.RapydoError) string {
	var message strings.Builder
	message.WriteString(err.Message)
	if err.Details != "" {
		message.WriteString(": ")
		message.WriteString(err.Details)
	}

	switch err.Code {
	case rerrors.ErrMissingConfig:
		message.WriteString("\n\nTip: check the project name with --project and the files under projects/")
	case rerrors.ErrUntrackedPath:
		message.WriteString("\n\nTip: build contexts must live in the project or in submodules/build-templates")
	case rerrors.ErrGitRepoNotFound:
		message.WriteString("\n\nTip: initialize the submodules of the rapydo repository")
	}

	if err.Cause != nil {
		var containerErr *container.ContainerError
		if errors.As(err.Cause, &containerErr) {
			message.WriteString("\n\n")
			message.WriteString(container.NewErrorHandler().GetUserMessage(containerErr))
		}
	}
	return message.String()
}

// ExitOnError prints err and terminates the process. Every failure is
// fatal with exit code 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", HandleError(err))
	os.Exit(1)
}
