// Command gstd-fake runs an in-memory stand-in for the GStreamer Daemon,
// speaking the TCP and HTTP protocols, for trying gstc without GStreamer.
package main

func main() {
	Execute()
}
