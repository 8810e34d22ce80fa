package history

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// SchemaVersion is the layout of run entries written by this build
const SchemaVersion = "v1.0.0"

// IsCompatibleVersion reports whether a history file stamped with fileVersion
// can be read by a build using SchemaVersion. Major versions must match.
func IsCompatibleVersion(fileVersion string) (bool, error) {
	if !semver.IsValid(fileVersion) {
		return false, fmt.Errorf("invalid history version: %s", fileVersion)
	}

	return semver.Major(fileVersion) == semver.Major(SchemaVersion), nil
}
