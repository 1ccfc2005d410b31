package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gstc/gstc/pkg/gstc"
)

var elementCmd = &cobra.Command{
	Use:     "element",
	Aliases: []string{"e"},
	Short:   "Read and write element properties",
}

var elementSetCmd = &cobra.Command{
	Use:   "set <pipeline> <element> <property> <value>",
	Short: "Set an element property",
	Long: `Set an element property. The daemon's answer is not checked, so a
rejected value is only visible by reading the property back.`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runElementSet(ctx, c, os.Stdout, args[0], args[1], args[2], args[3])
		})
	},
}

var elementGetCmd = &cobra.Command{
	Use:   "get <pipeline> <element> <property>",
	Short: "Read an element property",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		withClient(cmd, func(ctx context.Context, c *gstc.Client) error {
			return runElementGet(ctx, c, os.Stdout, args[0], args[1], args[2])
		})
	},
}

func init() {
	rootCmd.AddCommand(elementCmd)

	elementCmd.AddCommand(elementSetCmd)
	elementCmd.AddCommand(elementGetCmd)
}

func runElementSet(ctx context.Context, c *gstc.Client, w io.Writer, pipeline, element, property, value string) error {
	if err := c.ElementSet(ctx, pipeline, element, property, value); err != nil {
		return err
	}
	printSuccess(w, fmt.Sprintf("Set %s.%s on pipeline %s", element, property, pipeline), jsonOutput)
	return nil
}

func runElementGet(ctx context.Context, c *gstc.Client, w io.Writer, pipeline, element, property string) error {
	value, err := c.ElementGet(ctx, pipeline, element, property)
	if err != nil {
		return err
	}
	printProperty(w, pipeline, element, property, value, jsonOutput)
	return nil
}
