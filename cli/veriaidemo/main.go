// Executable veriAI demo, running two scripted agents through a
// verification session. See README for usage instructions.
package main

import (
	"github.com/veriai-sys/veriai-go/cli"
	"github.com/veriai-sys/veriai-go/cli/veriaidemo/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
