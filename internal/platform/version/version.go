package version

import "runtime"

// Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info holds the build information served by the /version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}
}
