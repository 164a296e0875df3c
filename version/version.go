package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Product is the name reported in the User-Agent header and by `transcribe version`.
const Product = "transcribekit"

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get returns version information, filling gaps from the embedded VCS build settings.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildDate.IsZero() {
					if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
						info.BuildDate = t
					}
				}
			}
		}
	}

	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "<version>[-<commit>][-dirty]".
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String returns the short version plus Go version and build date when known.
func (i Info) String() string {
	s := fmt.Sprintf("%s %s", Product, i.Short())
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	if !i.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", i.BuildDate.UTC().Format(time.RFC3339))
	}
	return s
}

// UserAgent returns the User-Agent value sent to the transcription API.
func UserAgent() string {
	return Product + "/" + Get().Short()
}
