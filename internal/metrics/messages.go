package metrics

import (
	"fmt"
)

const (
	logMsgTagsFailed = "Failed to create metrics tags for feature %q: %s"
)

func errCreateTags(err error) error {
	return fmt.Errorf("error creating metrics tags: %w", err)
}

func errRegisterViews(err error) error {
	return fmt.Errorf("error registering metrics views: %w", err)
}
