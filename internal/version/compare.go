package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
)

// CheckReportCompatibility checks whether a report written by reportVersion can be
// read by engineVersion.
//
// Compatibility Rules:
//   - "main" (development build) or an empty report version skips the check
//   - Major versions must match exactly
//   - The report's minor version must not be newer than the engine's
//   - Patch versions can differ
//
// Examples:
//   - Engine 1.2.0, Report 1.2.7 -> OK (patch differs)
//   - Engine 1.3.0, Report 1.2.0 -> OK (older report)
//   - Engine 1.2.0, Report 1.3.0 -> ERROR (report has fields this engine does not know)
//   - Engine 2.0.0, Report 1.2.0 -> ERROR (major differs)
func CheckReportCompatibility(engineVersion, reportVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	reportVersion = strings.TrimPrefix(reportVersion, "v")

	if engineVersion == "main" || reportVersion == "main" || reportVersion == "" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleReport, err, "invalid engine version '%s'", engineVersion)
	}

	reportSemver, err := semver.NewVersion(reportVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleReport, err, "invalid report version '%s'", reportVersion)
	}

	if engineSemver.Major() != reportSemver.Major() {
		return errors.Newf(errors.ErrCodeIncompatibleReport,
			"major version mismatch: engine is %d.x.x but report was written by %d.x.x",
			engineSemver.Major(), reportSemver.Major())
	}

	if reportSemver.Minor() > engineSemver.Minor() {
		return errors.Newf(errors.ErrCodeIncompatibleReport,
			"report was written by %d.%d.x, newer than engine %d.%d.x",
			reportSemver.Major(), reportSemver.Minor(),
			engineSemver.Major(), engineSemver.Minor())
	}

	return nil
}
