// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "fmt"

// InputError reports input that is not analyzable text (binary content,
// invalid encoding). Empty input is not an InputError: an agreement with no
// matches is a valid, if degenerate, outcome.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input is not analyzable text: %s", e.Reason)
}

// ConfigurationError reports a broken rule or scoring table. It is raised
// at pipeline construction, before any document is processed, since a
// broken table would silently mis-classify every document.
type ConfigurationError struct {
	Section string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Section, e.Reason)
}
