package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regquant/drcsa/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate <request-file>",
	Short: "Validate the scenarios in a request file",
	Long: `Checks every scenario in a request file for structural violations:
non-positive notionals, missing currencies, and duplicate trade ids.
All violations are reported, not just the first.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	req, err := loadRequestFile(args[0])
	if err != nil {
		return err
	}

	scenarios := append([]scenario.Scenario{req.Baseline}, req.Scenarios...)
	failed := false
	for _, scn := range scenarios {
		err := scenario.Validate(scn)
		if err == nil {
			fmt.Printf("ok      %s (%d exposures, digest %s)\n",
				scn.Name, len(scn.Exposures), scenario.Digest(scn)[:12])
			continue
		}
		failed = true
		var verr *scenario.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("invalid %s:\n", scn.Name)
			for _, v := range verr.Violations {
				fmt.Printf("        [%s] %s\n", v.Code, v.Msg)
			}
			continue
		}
		return err
	}
	if failed {
		return errors.New("validation failed")
	}
	return nil
}
