package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regquant/drcsa/policy"
)

var policiesCmd = &cobra.Command{
	Use:   "policies [policy-id]",
	Short: "List available policy bundles, or dump one policy's reference data",
	Long: `Without arguments, lists the policy identifiers that have a bundle under
the regdata directory. With a policy id, loads the bundle and prints its
reference tables and per-artefact content hashes as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}

func runPolicies(cmd *cobra.Command, args []string) error {
	loader := policy.NewLoader(cfg.Regdata, log)

	if len(args) == 0 {
		policies, err := loader.Policies()
		if err != nil {
			return err
		}
		if len(policies) == 0 {
			fmt.Printf("no policy bundles under %s\n", cfg.Regdata)
			return nil
		}
		for _, p := range policies {
			fmt.Println(p)
		}
		return nil
	}

	pack, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(map[string]any{
		"id":            pack.ID,
		"hashes":        pack.Hashes,
		"risk_weights":  pack.RiskWeights,
		"lgd_tables":    pack.LGDTables,
		"mappings":      pack.Mappings,
		"hedging_rules": pack.HedgingRules,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
