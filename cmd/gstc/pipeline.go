package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gstc/gstc/pkg/gstc"
)

var pipelineCmd = &cobra.Command{
	Use:     "pipeline",
	Aliases: []string{"p"},
	Short:   "Manage pipelines",
}

var pipelineCreateCmd = &cobra.Command{
	Use:   "create <name> <description>...",
	Short: "Create a pipeline",
	Long: `Create a pipeline from a gst-launch description. The remaining arguments
are joined with spaces, so the description does not need quoting:

  gstc pipeline create p0 videotestsrc ! autovideosink`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runPipelineCreate(ctx, c, os.Stdout, args[0], strings.Join(args[1:], " "))
		})
	},
}

var pipelineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipelines",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runPipelineList(ctx, c, os.Stdout)
		})
	},
}

var pipelineStateCmd = &cobra.Command{
	Use:   "state <name> <state>",
	Short: "Set a pipeline to any state the daemon accepts",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runPipelineSetState(ctx, c, os.Stdout, args[0], gstc.State(args[1]))
		})
	},
}

var pipelineFlushStopCmd = &cobra.Command{
	Use:   "flush-stop <name>",
	Short: "Inject a flush stop event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reset, _ := cmd.Flags().GetBool("reset")
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runPipelineAction(ctx, c, os.Stdout, args[0], flushStopAction(reset))
		})
	},
}

// pipelineAction is a single-pipeline command without output beyond a
// confirmation.
type pipelineAction struct {
	use   string
	short string
	done  string
	call  func(c *gstc.Client, ctx context.Context, name string) error
}

func flushStopAction(reset bool) pipelineAction {
	return pipelineAction{
		done: "Flush stop sent to pipeline %s",
		call: func(c *gstc.Client, ctx context.Context, name string) error {
			return c.PipelineFlushStop(ctx, name, reset)
		},
	}
}

var pipelineActions = []pipelineAction{
	{"delete", "Delete a pipeline", "Pipeline %s deleted", (*gstc.Client).PipelineDelete},
	{"play", "Set a pipeline to playing", "Pipeline %s playing", (*gstc.Client).PipelinePlay},
	{"pause", "Set a pipeline to paused", "Pipeline %s paused", (*gstc.Client).PipelinePause},
	{"stop", "Set a pipeline to null", "Pipeline %s stopped", (*gstc.Client).PipelineStop},
	{"eos", "Inject an end-of-stream event", "EOS sent to pipeline %s", (*gstc.Client).PipelineInjectEOS},
	{"flush-start", "Inject a flush start event", "Flush start sent to pipeline %s", (*gstc.Client).PipelineFlushStart},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.AddCommand(pipelineCreateCmd)
	pipelineCmd.AddCommand(pipelineListCmd)
	pipelineCmd.AddCommand(pipelineStateCmd)
	pipelineCmd.AddCommand(pipelineFlushStopCmd)

	for _, action := range pipelineActions {
		pipelineCmd.AddCommand(newPipelineActionCmd(action))
	}

	pipelineFlushStopCmd.Flags().Bool("reset", true, "Reset the running time")
}

func newPipelineActionCmd(action pipelineAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.use + " <name>",
		Short: action.short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
				return runPipelineAction(ctx, c, os.Stdout, args[0], action)
			})
		},
	}
}

// withClient runs fn with a client built from the configuration and exits
// on failure.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *gstc.Client) error) {
	c, err := getClient(cmd)
	if err != nil {
		handleError(err)
	}
	defer c.Close()

	if err := fn(context.Background(), c); err != nil {
		// os.Exit skips deferred calls.
		c.Close()
		handleError(err)
	}
}

func runPipelineCreate(ctx context.Context, c *gstc.Client, w io.Writer, name, description string) error {
	if err := c.PipelineCreate(ctx, name, description); err != nil {
		return err
	}
	printSuccess(w, fmt.Sprintf("Pipeline %s created", name), jsonOutput)
	return nil
}

func runPipelineList(ctx context.Context, c *gstc.Client, w io.Writer) error {
	names, err := c.PipelineList(ctx)
	if err != nil {
		return err
	}
	printPipelines(w, names, jsonOutput)
	return nil
}

func runPipelineSetState(ctx context.Context, c *gstc.Client, w io.Writer, name string, state gstc.State) error {
	if err := c.PipelineSetState(ctx, name, state); err != nil {
		return err
	}
	printSuccess(w, fmt.Sprintf("Pipeline %s set to %s", name, state), jsonOutput)
	return nil
}

func runPipelineAction(ctx context.Context, c *gstc.Client, w io.Writer, name string, action pipelineAction) error {
	if err := action.call(c, ctx, name); err != nil {
		return err
	}
	printSuccess(w, fmt.Sprintf(action.done, name), jsonOutput)
	return nil
}
