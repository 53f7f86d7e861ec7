package version

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
)

var (
	// Version is the current version of the server
	// This will be overridden by ldflags during build
	Version = "dev"

	// These variables are set by goreleaser
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

// ReleasesURL is where the latest published release is looked up
const ReleasesURL = "https://api.github.com/repos/kubiyabot/dynatrace-mcp/releases/latest"

// SetBuildInfo sets the build information
func SetBuildInfo(commitHash, buildDate, builder string) {
	commit = commitHash
	date = buildDate
	builtBy = builder
}

// GetVersion returns the full version string
func GetVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		Version, commit, date, builtBy)
}

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdate looks up the latest release at url.
// Returns: latestVersion, hasUpdate, error
func CheckForUpdate(ctx context.Context, url string) (string, bool, error) {
	var release githubRelease
	resp, err := resty.New().
		SetTimeout(10*time.Second).
		R().
		SetContext(ctx).
		SetResult(&release).
		Get(url)
	if err != nil {
		return "", false, err
	}
	if !resp.IsSuccess() {
		return "", false, fmt.Errorf("release lookup returned status %d", resp.StatusCode())
	}

	hasUpdate, err := IsNewer(Version, release.TagName)
	if err != nil {
		return release.TagName, false, err
	}
	return release.TagName, hasUpdate, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
// A development build is never considered outdated.
func IsNewer(current, latest string) (bool, error) {
	if current == "dev" {
		return false, nil
	}

	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("failed to parse current version %s: %w", current, err)
	}

	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("failed to parse latest version %s: %w", latest, err)
	}

	return lat.GreaterThan(cur), nil
}

// GetUpdateMessage returns a formatted message about an available update
func GetUpdateMessage(latest string) string {
	var sb strings.Builder
	sb.WriteString("\n📢 Update available!\n")
	sb.WriteString(fmt.Sprintf("Current version: %s\n", Version))
	sb.WriteString(fmt.Sprintf("Latest version:  %s\n", latest))
	return sb.String()
}
