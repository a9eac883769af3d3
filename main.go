// The main package for the paperhound executable.
package main

import (
	"github.com/paperhound/paperhound/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
