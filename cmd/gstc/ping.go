package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gstc/gstc/pkg/gstc"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is answering",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient(cmd)
		if err != nil {
			handleError(err)
		}
		defer c.Close()

		if err := runPing(context.Background(), c, os.Stdout); err != nil {
			handleError(err)
		}
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [path]",
	Short: "Print the daemon's raw response for a resource",
	Long: `Read a resource from the daemon and print the response unchanged.

The path defaults to the root of the resource tree, for example:
  gstc describe /pipelines/p0/elements`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}

		c, err := getClient(cmd)
		if err != nil {
			handleError(err)
		}
		defer c.Close()

		if err := runDescribe(context.Background(), c, os.Stdout, path); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(describeCmd)
}

func runPing(ctx context.Context, c *gstc.Client, w io.Writer) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}
	printSuccess(w, "Daemon is responding", jsonOutput)
	return nil
}

func runDescribe(ctx context.Context, c *gstc.Client, w io.Writer, path string) error {
	body, err := c.Describe(ctx, path)
	if err != nil {
		return err
	}
	printRaw(w, body, jsonOutput)
	return nil
}
