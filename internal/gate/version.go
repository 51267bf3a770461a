package gate

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
)

// releaseNotesURLFormat is the versioned release-notes page.
const releaseNotesURLFormat = "https://github.com/gorewood/usher/releases/tag/v%s"

// IsDevBuild reports whether the running build is a development build.
// Unversioned and prerelease builds count as dev builds and never offer
// release notes.
func IsDevBuild(version string) bool {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return true
	}
	return v.Prerelease() != ""
}

// ReleaseNotesID returns the prompt id for the running version's release
// notes. The id is keyed by major.minor so patch releases share one
// prompt. Returns false for dev builds.
func ReleaseNotesID(version string) (string, bool) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil || v.Prerelease() != "" {
		return "", false
	}
	return fmt.Sprintf("release-notes-%d.%d", v.Major(), v.Minor()), true
}

// ReleaseNotesURL returns the release-notes page for a version.
func ReleaseNotesURL(version string) string {
	version = strings.TrimPrefix(version, "v")
	if v, err := semver.NewVersion(version); err == nil {
		version = v.String()
	}
	return fmt.Sprintf(releaseNotesURLFormat, version)
}
