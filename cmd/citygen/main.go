// Command citygen generates a procedural city dataset and writes it to a
// JSON file, per spec §6.
package main

import (
	"fmt"
	"os"

	"github.com/voidshard/citygen/cmd/citygen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
