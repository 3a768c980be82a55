package main

import (
	"os"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
