// Package runtime assembles the tickwatch components from settings and
// carries build metadata that is not part of the user configuration.
package runtime

// Context contains runtime metadata injected at startup.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string
}

// NewContext returns build metadata, substituting placeholders for empty values.
func NewContext(version, buildDate string) *Context {
	if version == "" {
		version = "dev"
	}
	if buildDate == "" {
		buildDate = "unknown"
	}
	return &Context{Version: version, BuildDate: buildDate}
}
