package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gstc/gstc/pkg/gstc"
)

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		body := map[string]any{
			"message": err.Error(),
			"status":  int(gstc.StatusOf(err)),
		}
		var daemonErr *gstc.DaemonError
		if errors.As(err, &daemonErr) {
			body["description"] = daemonErr.Description
		}
		writeJSON(w, map[string]any{"error": body})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]any{"message": message})
		return
	}

	fmt.Fprintln(w, message)
}

// printPipelines prints the pipeline names reported by the daemon
func printPipelines(w io.Writer, names []string, jsonOutput bool) {
	if jsonOutput {
		if names == nil {
			names = []string{}
		}
		writeJSON(w, map[string]any{"pipelines": names})
		return
	}

	if len(names) == 0 {
		fmt.Fprintln(w, "No pipelines found")
		return
	}

	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

// printProperty prints one element property
func printProperty(w io.Writer, pipeline, element, property, value string, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]any{
			"pipeline": pipeline,
			"element":  element,
			"property": property,
			"value":    value,
		})
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pipeline:\t%s\n", pipeline)
	fmt.Fprintf(tw, "Element:\t%s\n", element)
	fmt.Fprintf(tw, "Property:\t%s\n", property)
	fmt.Fprintf(tw, "Value:\t%s\n", value)
	tw.Flush()
}

// printRaw prints a daemon response body. With JSON output the body is
// passed through when it is valid JSON.
func printRaw(w io.Writer, body string, jsonOutput bool) {
	if jsonOutput && !json.Valid([]byte(body)) {
		writeJSON(w, map[string]any{"raw": body})
		return
	}
	fmt.Fprintln(w, body)
}
