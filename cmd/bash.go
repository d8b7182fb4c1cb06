// Copyright © 2026 The tempchart Authors

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bashCmd represents the bash command
var bashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate Bash autocompletion file",
	Long:  `Generates an autocompletion file for Bash`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RootCmd.GenBashCompletionFile(filepath.Join(viper.GetString("output"), "tempchart_completions.sh"))
	},
}

func init() {
	docCmd.AddCommand(bashCmd)
}
