package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MacroPower/kwait/pkg/version"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, version.Version)
	assert.NotEmpty(t, version.Revision)
	assert.Regexp(t, `^\d+\.\d+\.\d+`, version.Version)
}
