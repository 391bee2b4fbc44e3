package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

// Set with -ldflags "-X github.com/kamal-hamza/lumi-cli/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version, build and format information",
	Aliases: []string{"v"},
	Long: `Print the lumi version, the commit it was built from, the Go runtime and
the image formats this build can decode. (alias: v)

Builds without ldflags (go install) report the module version and VCS
revision recorded by the Go toolchain.`,
	Args: cobra.NoArgs,
	Run:  runVersion,
}

// buildDetails describes one binary
type buildDetails struct {
	Version  string
	Commit   string
	Date     string
	Modified bool
}

// resolveBuild prefers ldflags values and fills the gaps from embedded build info
func resolveBuild(info *debug.BuildInfo, ok bool) buildDetails {
	d := buildDetails{Version: Version, Commit: GitCommit, Date: BuildDate}
	if !ok || info == nil {
		return d
	}

	if d.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == "unknown" {
				d.Commit = s.Value
				if len(d.Commit) > 12 {
					d.Commit = d.Commit[:12]
				}
			}
		case "vcs.time":
			if d.Date == "unknown" {
				d.Date = s.Value
			}
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
	return d
}

func formatList() string {
	names := make([]string, 0, len(domain.SupportedExtensions))
	for _, ext := range domain.SupportedExtensions {
		names = append(names, strings.TrimPrefix(ext, "."))
	}
	return strings.Join(names, " ")
}

func runVersion(cmd *cobra.Command, args []string) {
	d := resolveBuild(debug.ReadBuildInfo())

	commit := d.Commit
	if d.Modified {
		commit += " (dirty)"
	}

	fmt.Println(ui.StyleTitle.Render("Lumi") + " " + ui.IconSun + " terminal image adjuster")
	fmt.Println()
	fmt.Print(ui.RenderKeyValues([][2]string{
		{"Version", d.Version},
		{"Commit", commit},
		{"Built", d.Date},
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		{"Formats", formatList()},
	}))
}
