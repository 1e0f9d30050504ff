// The version command prints the detour version.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/detour/pkg/detour"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the detour version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("detour", detour.Version)
	},
}
