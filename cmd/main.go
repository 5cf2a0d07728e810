package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Logging may not be initialized yet.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
