// Executable veriAI agent client. See README for
// usage instructions.
package main

import (
	"github.com/veriai-sys/veriai-go/cli"
	"github.com/veriai-sys/veriai-go/cli/veriaiclient/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
