package export

import (
	"errors"
	"fmt"
)

// ErrNoConversations is wrapped into a FormatError when an archive has no conversations file.
var ErrNoConversations = errors.New("could not find conversations.json inside the ZIP export")

// FormatError reports a malformed export. It is fatal to the parse call.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected export format: %s: %v", e.Reason, e.Err)
	}
	return "unexpected export format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// ConfigError reports an invalid configuration value such as an unknown timezone.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Key, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }
