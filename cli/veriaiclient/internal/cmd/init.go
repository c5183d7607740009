package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/cli"
	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/utils"
)

var initCmd = cli.NewInitCommand("veriAI client", mkConfig)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("address", "a", "http://127.0.0.1:8000", "Base URL of the coordinator")
	initCmd.Flags().String("agent", "agent_a", "Id the agent registers under")
	initCmd.Flags().String("type", "reasoning_ai", "Type the agent registers under")
	initCmd.Flags().Bool("nokey", false, "Do not generate a signing key")
}

func mkConfig(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	addr, _ := cmd.Flags().GetString("address")
	agentID, _ := cmd.Flags().GetString("agent")
	agentType, _ := cmd.Flags().GetString("type")
	noKey, _ := cmd.Flags().GetBool("nokey")

	var keyPath string
	if !noKey {
		keyPath = "agent.priv"
		if err := mkSigningKey(dir); err != nil {
			return err
		}
	}
	conf := client.NewConfig(filepath.Join(dir, "config.toml"), "toml",
		addr, agentID, keyPath)
	conf.AgentType = agentType
	return conf.Save()
}

func mkSigningKey(dir string) error {
	sk, err := sign.GenerateKey(nil)
	if err != nil {
		return err
	}
	pk, _ := sk.Public()
	if err := utils.WriteFile(filepath.Join(dir, "agent.priv"), sk, 0600); err != nil {
		return err
	}
	return utils.WriteFile(filepath.Join(dir, "agent.pub"), pk, 0644)
}
