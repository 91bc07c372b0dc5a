package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/sharivan/XSharp-sub001/internal/infrastructure/storage"
)

// Set with -ldflags "-X github.com/sharivan/XSharp-sub001/internal/version.Commit=...".
var (
	Commit    string
	BuildDate string // YYYY-MM-DD (UTC)
)

var readBuildInfo = debug.ReadBuildInfo

// Build describes the running binary.
type Build struct {
	Commit     string
	BuildDate  string
	Modified   bool
	GoVersion  string
	SaveFormat string
}

// Current reports the linker-set metadata, falling back to the VCS stamp the
// go tool embeds in the binary.
func Current() Build {
	b := Build{
		Commit:     Commit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		SaveFormat: SaveFormat(),
	}

	bi, ok := readBuildInfo()
	if !ok {
		return b
	}
	if bi.GoVersion != "" {
		b.GoVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.BuildDate == "" {
				b.BuildDate, _, _ = strings.Cut(s.Value, "T")
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func (b Build) String() string {
	commit := coalesce(b.Commit, "unknown")
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if b.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("commit[%s] date[%s] %s save[%s]",
		commit, coalesce(b.BuildDate, "unknown"), b.GoVersion, b.SaveFormat)
}

// SaveFormat names the state file layout this build reads and writes.
func SaveFormat() string {
	return fmt.Sprintf("%s/v%d", storage.MagicHeader, storage.Version1)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
