// Executable veriAI coordinator server. See README for
// usage instructions.
package main

import (
	"github.com/veriai-sys/veriai-go/cli"
	"github.com/veriai-sys/veriai-go/cli/veriaiserver/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
