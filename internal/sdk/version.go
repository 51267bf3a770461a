package sdk

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/semver"
)

// Version probes a tool with --version and parses the reported SDK version.
func (s *SDK) Version(ctx context.Context, tool Tool) (*semver.Version, error) {
	out, err := s.Run(ctx, tool, "", "--version")
	if err != nil {
		return nil, err
	}
	return ParseVersionOutput(out)
}

// ParseVersionOutput extracts the first semver-looking token from a tool's
// --version output. Handles both styles:
//
//	Dart SDK version: 3.5.4 (stable) (Wed Dec 11 04:27:46 2024 +0000)
//	Flutter 3.24.5 • channel stable • https://github.com/flutter/flutter.git
func ParseVersionOutput(out string) (*semver.Version, error) {
	for _, field := range strings.Fields(out) {
		v, err := semver.NewVersion(field)
		if err == nil {
			return v, nil
		}
	}
	return nil, errors.New("no version found in output: " + strings.TrimSpace(out))
}
