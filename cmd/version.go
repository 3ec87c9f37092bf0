package cmd

import (
	"fmt"
	"runtime"

	"github.com/mikemajara/ai-chatbot/internal/conf"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current version of " + conf.APP_NAME,
	Run: func(cmd *cobra.Command, args []string) {
		goVersion := fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(cmd.OutOrStdout(), "Built At: %s \nGo Version: %s \nAuthor: %s \nCommit ID: %s \nVersion: %s \n",
			conf.BuildTime, goVersion, conf.Author, conf.Commit, conf.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
