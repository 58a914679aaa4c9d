package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/tag"
)

var (
	tagDelimiter string
	tagSentinel  string
)

var tagCmd = &cobra.Command{
	Use:   "tag [dir]",
	Short: "Print the image tag for a directory",
	Long: `Print the tag derived from the directories between dir and the nearest
ancestor holding the sentinel file. The sentinel directory itself is left
out, so a config in the sentinel directory has an empty tag.

Examples:
  shipwright tag node/gcloud              # node-gcloud
  shipwright tag --delimiter _ node/gcloud`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.Flags().StringVar(&tagDelimiter, "delimiter", "", "Separator between directory names")
	tagCmd.Flags().StringVar(&tagSentinel, "sentinel", "", "File marking the top of the image tree")
}

func runTag(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	delimiter := settings.Delimiter
	if tagDelimiter != "" {
		delimiter = tagDelimiter
	}
	sentinel := settings.Sentinel
	if tagSentinel != "" {
		sentinel = tagSentinel
	}

	t, err := tag.ResolveWith(dir, delimiter, sentinel)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), t)
	return nil
}
