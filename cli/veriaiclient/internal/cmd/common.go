package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/cli"
	"golang.org/x/term"
)

const configMissingUsage = `
Couldn't load client's config-file.

To create a valid config, run
  veriaiclient init
This creates a toml file with the coordinator's address, the agent's id
and a freshly generated signing key (agent.priv and agent.pub).

The client looks for a file called 'config.toml' in its current working directory.
If you prefer the config-file to be named or stored somewhere different you can
specify where to look for the config with the --config flag. For example:
 veriaiclient run --config /etc/veriai/client.toml
`

func loadConfig(cmd *cobra.Command) (*client.Config, error) {
	file, encoding := cli.ConfigFlags(cmd)
	conf := &client.Config{}
	if err := conf.Load(file, encoding); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), configMissingUsage)
		return nil, err
	}
	return conf, nil
}

// append "\r\n" to msg and then write to terminal in raw mode.
func writeLineInRawMode(t *term.Terminal, msg string, printTimestamp bool) {
	if printTimestamp {
		t.Write([]byte("<" + time.Now().Format("15:04:05.999999999") + "> "))
	}
	t.Write([]byte(msg + "\r\n"))
}
