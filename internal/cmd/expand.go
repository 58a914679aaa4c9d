package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/shipwright/internal/descriptor"
)

var expandCount bool

var expandCmd = &cobra.Command{
	Use:   "expand [config...]",
	Short: "Print every configuration a config file expands to",
	Long: `Print every concrete configuration as a YAML document stream.

Configurations come out in generation order: the first list field in the
file varies slowest.

Examples:
  shipwright expand node/gcloud           # YAML stream
  shipwright expand --count node/gcloud   # number of configurations`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().BoolVar(&expandCount, "count", false, "Print only the number of configurations")
}

func runExpand(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if expandCount {
		for _, path := range configPaths(args) {
			desc, err := descriptor.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %d\n", path, desc.Count())
		}
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	for _, path := range configPaths(args) {
		desc, err := descriptor.Load(path)
		if err != nil {
			return err
		}
		fields := desc.Fields()
		n := 0
		for cfg := range desc.Configurations() {
			if err := enc.Encode(configurationNode(fields, cfg)); err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			n++
		}
		logger.Debug("expanded", "config", path, "count", n)
	}

	return nil
}

// configurationNode lays cfg out as a mapping in field declaration order.
func configurationNode(fields []descriptor.Field, cfg descriptor.Configuration) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		value, ok := cfg[f.Name]
		if !ok {
			continue
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	}
	return node
}
