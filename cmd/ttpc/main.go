// Command ttpc assembles ttpasm source into ttp machine code and,
// optionally, runs the result through the trace VM.
package main

import (
	"os"

	"github.com/jcamarena/ttpc/cli"
)

func main() {
	os.Exit(cli.Execute())
}
