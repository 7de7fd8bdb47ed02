// Package version provides build information for rolegate.
package version

import "strings"

var (
	// Version is the git describe output, injected at build time via ldflags.
	Version = "dev"
	// Commit is the git commit hash, injected at build time via ldflags.
	Commit = "none"
	// BuildDate is the build timestamp, injected at build time via ldflags.
	BuildDate = "unknown"
)

// String returns the full version line.
func String() string {
	return Short() + " (commit: " + Commit + ", built: " + BuildDate + ")"
}

// Short condenses a git describe version. "v1.2.0-5-gabc1234-dirty" becomes
// "v1.2.0-abc1234-5"; tags and other values are returned unchanged.
func Short() string {
	v := strings.TrimSuffix(Version, "-dirty")

	parts := strings.Split(v, "-")
	if len(parts) < 3 {
		return v
	}

	hash := parts[len(parts)-1]
	count := parts[len(parts)-2]
	if !strings.HasPrefix(hash, "g") || strings.Trim(count, "0123456789") != "" {
		return v
	}

	tag := strings.Join(parts[:len(parts)-2], "-")
	return tag + "-" + strings.TrimPrefix(hash, "g") + "-" + count
}
