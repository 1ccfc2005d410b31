// Package gstc provides a Go client for the GStreamer Daemon (gstd).
//
// gstd owns and runs GStreamer pipelines. This package controls it over a
// socket using gstd's small CRUD-style command protocol, and lets callers
// wait, synchronously or asynchronously, for messages posted on a
// pipeline's bus.
//
// # Getting Started
//
// First, ensure gstd is running. Then create a client:
//
//	client, err := gstc.NewClient(
//	    gstc.WithAddress("127.0.0.1"),
//	    gstc.WithPort(5000),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Check that the daemon answers:
//
//	err := client.Ping(ctx)
//
// # Pipelines
//
// Create a pipeline and control its state:
//
//	err := client.PipelineCreate(ctx, "pipe", "videotestsrc ! autovideosink")
//	err = client.PipelinePlay(ctx, "pipe")
//	err = client.PipelinePause(ctx, "pipe")
//	err = client.PipelineStop(ctx, "pipe")
//	err = client.PipelineDelete(ctx, "pipe")
//
// Inject an end-of-stream event:
//
//	err := client.PipelineInjectEOS(ctx, "pipe")
//
// # Element Properties
//
// Values are sent pre-formatted:
//
//	err := client.ElementSet(ctx, "pipe", "src", "pattern", "ball")
//	err = client.ElementSetf(ctx, "pipe", "enc", "bitrate", "%d", 4000)
//
// ElementSet reports success once the command is dispatched, whatever the
// daemon answers. Read the value back with ElementGet when it matters.
//
// # Waiting for Bus Messages
//
// Block until the pipeline posts an end-of-stream message:
//
//	err := client.PipelineBusWait(ctx, "pipe", "eos", gstc.WaitForever)
//
// Or wait in the background:
//
//	err := client.PipelineBusWaitAsync(ctx, "pipe", "error", gstc.WaitForever,
//	    func(c *gstc.Client, pipeline, filter string, timeout int64, userData any) {
//	        fmt.Println("bus read returned for", pipeline)
//	    }, nil)
//
// Each asynchronous wait runs on its own goroutine and cannot be
// cancelled. Both forms return the result of configuring the wait, not of
// the bus read itself.
//
// # Error Handling
//
// Every operation returns an error; StatusOf recovers the integer status:
//
//	err := client.PipelinePlay(ctx, "pipe")
//	switch {
//	case err == nil:
//	case gstc.IsDaemonFailure(err):
//	    // gstd rejected the command; gstc.StatusOf(err) is its code
//	case gstc.IsUnreachable(err):
//	    // gstd is not running
//	case gstc.IsDecodeFailure(err):
//	    // the response carried no usable status
//	}
//
// # Transports
//
// The TCP transport dials per call unless WithKeepOpen is set. WithHTTP
// switches to gstd's HTTP API. Any Transport can be supplied with
// WithTransport, which is how tests substitute a mock.
package gstc
