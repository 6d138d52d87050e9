package version_test

import (
	"strings"
	"testing"

	// Packages
	version "github.com/ArseniiRudenko/openai-req/pkg/version"
	assert "github.com/stretchr/testify/assert"
)

func Test_version_001(t *testing.T) {
	// The tag takes precedence over the branch
	assert := assert.New(t)
	defer func() { version.GitTag, version.GitBranch = "", "" }()

	version.GitBranch = "main"
	assert.Equal("main", version.Version())
	version.GitTag = "v1.2.3"
	assert.Equal("v1.2.3", version.Version())

	metadata := version.Metadata("openai")
	assert.Equal("openai", metadata["name"])
	assert.Equal("v1.2.3", metadata["version"])
	assert.Equal("main", metadata["branch"])
	assert.NotEmpty(metadata["compiler"])
}

func Test_version_002(t *testing.T) {
	// The user agent names the program and version
	assert := assert.New(t)
	defer func() { version.GitTag = "" }()

	version.GitTag = "v0.1.0"
	assert.True(strings.HasPrefix(version.UserAgent("openai"), "openai/v0.1.0 ("))
}
