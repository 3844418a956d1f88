package version

import (
	"testing"

	"github.com/rxtech-lab/argo-analytics/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReportCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		reportVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			engineVersion: "1.2.0",
			reportVersion: "1.2.0",
		},
		{
			name:          "report patch higher",
			engineVersion: "1.2.0",
			reportVersion: "1.2.7",
		},
		{
			name:          "older report minor",
			engineVersion: "1.4.0",
			reportVersion: "1.2.3",
		},
		{
			name:          "newer report minor",
			engineVersion: "1.2.0",
			reportVersion: "1.3.0",
			expectError:   true,
			errorContains: "newer than engine 1.2.x",
		},
		{
			name:          "major version differs",
			engineVersion: "2.0.0",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "engine is main",
			engineVersion: "main",
			reportVersion: "9.9.9",
		},
		{
			name:          "report is main",
			engineVersion: "1.0.0",
			reportVersion: "main",
		},
		{
			name:          "unversioned report",
			engineVersion: "1.0.0",
			reportVersion: "",
		},
		{
			name:          "v prefix on both",
			engineVersion: "v1.2.0",
			reportVersion: "v1.2.0",
		},
		{
			name:          "prerelease report",
			engineVersion: "1.2.0",
			reportVersion: "1.2.0-alpha",
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			reportVersion: "1.2.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
		{
			name:          "invalid report version",
			engineVersion: "1.2.0",
			reportVersion: "x.y",
			expectError:   true,
			errorContains: "invalid report version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReportCompatibility(tt.engineVersion, tt.reportVersion)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.True(t, errors.HasCode(err, errors.ErrCodeIncompatibleReport))
		})
	}
}

func TestGetVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "1.5.0"
	assert.Equal(t, "1.5.0", GetVersion())
}
