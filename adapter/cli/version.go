package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionJSON bool

// Build metadata, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// moduleVersion falls back to the module version recorded by "go install".
func moduleVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Annotations: map[string]string{AnnotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"version": moduleVersion(),
			"commit":  Commit,
			"built":   BuildDate,
			"go":      runtime.Version(),
		}
		if versionJSON {
			return WriteJSON(cmd.OutOrStdout(), info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "priora %s\n", info["version"])
		fmt.Fprintf(out, "  commit: %s\n", info["commit"])
		fmt.Fprintf(out, "  built:  %s\n", info["built"])
		fmt.Fprintf(out, "  go:     %s\n", info["go"])
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(versionCmd)
}
