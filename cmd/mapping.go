package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/price"
	"github.com/spf13/cobra"
)

var mappingCapability string

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "List the static capability mapping",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mapping, err := loadMapping()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if mappingCapability != "" {
			kind := model.CapabilityKind(mappingCapability)
			if _, ok := model.LookupCapabilityField(kind); !ok {
				return fmt.Errorf("unknown capability %q", mappingCapability)
			}
			for _, id := range mapping.ModelsWithCapability(kind) {
				fmt.Fprintln(out, id)
			}
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tIMAGE GEN\tWEB SEARCH")
		for _, r := range mapping.Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, price.Format(r.PricingImageGen), price.Format(r.PricingWebSearch))
		}
		return w.Flush()
	},
}

func init() {
	mappingCmd.Flags().StringVar(&mappingCapability, "capability", "", "only list models offering this capability (imageGen, webSearch)")
	rootCmd.AddCommand(mappingCmd)
}
