// curlcount counts bicep curls from a webcam and serves the live count over
// HTTP, with an optional system tray menu.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "curlcount",
		Short: "Webcam bicep curl counter",
		Long: `curlcount tracks both arms with a pose detector, counts bicep curls
per arm and pushes every frame result to the browser over a WebSocket.

Show a thumbs-up to start counting and a peace sign to save the workout
and start over.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newReplayCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("curlcount " + version)
		},
	}
}
