package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regquant/drcsa/compare"
	"github.com/regquant/drcsa/engine"
	"github.com/regquant/drcsa/export"
	"github.com/regquant/drcsa/journal"
	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

var computeCmd = &cobra.Command{
	Use:   "compute <request-file>",
	Short: "Compute charges for a baseline and its alternate scenarios",
	Long: `Runs the calculator for the request file and prints the export payload as
JSON. The payload embeds the policy identifier and per-artefact content
hashes, so it is self-describing for regulatory lineage.

Example:
  drcsa compute request.yaml --policy BCBS_MAR --out result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

var (
	computePolicy      string
	computeOut         string
	computeComparisons bool
	computeJournalDB   string
	computeJournalCSV  string
)

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringVarP(&computePolicy, "policy", "p", "", "regulatory policy to apply (overrides the request file)")
	computeCmd.Flags().StringVarP(&computeOut, "out", "o", "", "write the payload to a file instead of stdout")
	computeCmd.Flags().BoolVar(&computeComparisons, "comparisons", true, "include baseline-vs-alternate comparisons")
	computeCmd.Flags().StringVar(&computeJournalDB, "journal-db", "", "record the run in a SQLite lineage journal")
	computeCmd.Flags().StringVar(&computeJournalCSV, "journal-csv", "", "record the run in a CSV lineage journal")
}

func runCompute(cmd *cobra.Command, args []string) error {
	req, err := loadRequestFile(args[0])
	if err != nil {
		return err
	}
	if computePolicy != "" {
		req.Policy = computePolicy
	}
	if req.Policy == "" {
		return fmt.Errorf("no policy given: set --policy or the request file's policy field")
	}

	loader := policy.NewLoader(cfg.Regdata, log)
	eng := engine.New(loader, log)
	out, err := eng.Compute(engine.Request{
		PolicyID:   req.Policy,
		Baseline:   req.Baseline,
		Alternates: req.Scenarios,
	})
	if err != nil {
		return err
	}

	var matrix *compare.Matrix
	if computeComparisons {
		m := compare.CompareAll(out.Baseline, out.Alternates)
		matrix = &m
	}
	payload := export.Build(out, matrix)

	data, err := export.Marshal(payload)
	if err != nil {
		return err
	}
	if computeOut != "" {
		if err := os.WriteFile(computeOut, data, 0o644); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
		fmt.Printf("wrote %s (run %s)\n", computeOut, payload.RunID)
	} else {
		fmt.Println(string(data))
	}

	return journalRun(req, payload)
}

// journalRun records the run in the requested lineage sinks. Flags take
// precedence over the config file's journal section.
func journalRun(req *requestFile, payload export.Payload) error {
	sinks, err := journalSinks()
	if err != nil {
		return err
	}
	for _, sink := range sinks {
		record := journal.Record{
			RunID:          payload.RunID,
			Time:           payload.GeneratedAt,
			PolicyID:       payload.Policy.ID,
			PolicyHash:     payload.Policy.Hashes[policy.HashPolicy],
			BaselineName:   payload.Baseline.ScenarioName,
			BaselineTotal:  payload.Baseline.Total,
			ScenarioCount:  len(payload.Scenarios),
			FailureCount:   len(payload.Failures),
			BaselineDigest: scenario.Digest(req.Baseline),
		}
		if err := sink.RecordRun(record); err != nil {
			sink.Close()
			return fmt.Errorf("journal run: %w", err)
		}
		if err := sink.Close(); err != nil {
			return fmt.Errorf("close journal: %w", err)
		}
	}
	return nil
}

func journalSinks() ([]journal.Journal, error) {
	var sinks []journal.Journal
	dbPath, csvPath := computeJournalDB, computeJournalCSV
	if dbPath == "" && csvPath == "" {
		switch cfg.Journal.Type {
		case "sqlite":
			dbPath = cfg.Journal.DBPath
		case "csv":
			csvPath = cfg.Journal.RunsFile
		}
	}
	if dbPath != "" {
		j, err := journal.NewSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, j)
	}
	if csvPath != "" {
		j, err := journal.NewCSV(csvPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, j)
	}
	return sinks, nil
}
