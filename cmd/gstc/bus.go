package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gstc/gstc/pkg/gstc"
)

var busCmd = &cobra.Command{
	Use:   "bus",
	Short: "Wait on pipeline bus messages",
}

var busWaitCmd = &cobra.Command{
	Use:   "wait <pipeline>",
	Short: "Block until a bus message arrives",
	Long: `Block until the pipeline posts a message matching --filter, or until
--timeout nanoseconds pass. A timeout of -1 waits forever.

  gstc bus wait p0 --filter eos
  gstc bus wait p0 --filter error+eos --timeout 5000000000`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")
		timeout, _ := cmd.Flags().GetInt64("timeout")

		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runBusWait(ctx, c, os.Stdout, args[0], filter, timeout)
		})
	},
}

func init() {
	rootCmd.AddCommand(busCmd)
	busCmd.AddCommand(busWaitCmd)

	busWaitCmd.Flags().String("filter", "eos", "Message types to wait for, joined with +")
	busWaitCmd.Flags().Int64("timeout", gstc.WaitForever, "Timeout in nanoseconds; -1 waits forever")
}

func runBusWait(ctx context.Context, c *gstc.Client, w io.Writer, pipeline, filter string, timeout int64) error {
	if err := c.PipelineBusWait(ctx, pipeline, filter, timeout); err != nil {
		return err
	}
	printSuccess(w, fmt.Sprintf("Bus wait on pipeline %s finished", pipeline), jsonOutput)
	return nil
}
