// Command gstc controls a running GStreamer Daemon.
package main

func main() {
	Execute()
}
