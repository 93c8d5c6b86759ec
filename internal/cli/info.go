package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Version metadata, overridable at build time via -ldflags.
var (
	Version = "0.1.0"
	Build   = "dev"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Financial News Classifier")
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Build: %s\n", Build)
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show model and runtime information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := a.uc.EngineInfo()

			fmt.Println("\nModel Information")
			fmt.Printf("  Model ID:   %s\n", info.ModelID)
			fmt.Printf("  Runtime:    %s\n", info.Runtime)
			fmt.Printf("  Device:     %s\n", info.Device)
			fmt.Printf("  Max tokens: %d\n", info.MaxTokens)
			if info.Loaded {
				fmt.Printf("  Source:     %s\n", info.Source)
				fmt.Printf("  Labels:     %s\n", strings.Join(info.Labels, ", "))
			} else {
				fmt.Println("  Status:     not loaded (loads on first classification)")
			}
			fmt.Println()
			return nil
		},
	}
}
