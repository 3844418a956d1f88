package version

// Version is the analytics engine version stamped into every report.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-analytics/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// GetVersion returns the current engine version.
func GetVersion() string {
	return Version
}
