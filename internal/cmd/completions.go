package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/config"
	"github.com/cameronsjo/shipwright/internal/history"
)

// completeConfigDirs completes directory arguments; each one stands for
// <dir>/config.
func completeConfigDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeRunIDs completes recorded run ids by short prefix.
func completeRunIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	s, err := config.Load(wd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	runs, err := history.List(s.StateDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var ids []string
	for _, run := range runs {
		if strings.HasPrefix(run.Short(), toComplete) {
			ids = append(ids, run.Short())
		}
	}

	return ids, cobra.ShellCompDirectiveNoFileComp
}

// registerCompletions registers all dynamic completions for commands.
func registerCompletions() {
	generateCmd.ValidArgsFunction = completeConfigDirs
	expandCmd.ValidArgsFunction = completeConfigDirs
	imagesCmd.ValidArgsFunction = completeConfigDirs
	tagCmd.ValidArgsFunction = completeConfigDirs
	historyCmd.ValidArgsFunction = completeRunIDs
}

func init() {
	cobra.OnInitialize(registerCompletions)
}
