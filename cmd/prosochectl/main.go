// Command prosochectl holds operator tasks for the journal: schema
// migrations, development tokens and workout-note parsing.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
