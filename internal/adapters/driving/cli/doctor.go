package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the pipeline end to end",
	Long: `Runs the system checks in order: data files, processed book, API key,
embedding service, pipeline artefacts, vector collection and a test search.
Prints a hint for each failing check.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	p := newPrinter(cmd)
	report := statusService.Check(cmd.Context())

	for _, check := range report.Checks {
		mark := p.success("✅")
		if !check.Passed {
			mark = p.failure("❌")
		}
		cmd.Printf("%s %s\n", mark, check.Name)
		for _, d := range check.Details {
			cmd.Printf("   - %s\n", d)
		}
	}

	p.heading("测试结果")
	cmd.Printf("通过: %d/%d\n", report.Passed(), report.Total())

	if report.OK() {
		cmd.Println(p.success("所有测试通过！系统运行正常。"))
		return nil
	}

	cmd.Println()
	cmd.Println("建议:")
	for _, check := range report.Checks {
		if !check.Passed && check.Hint != "" {
			cmd.Printf("  - %s: %s\n", check.Name, check.Hint)
		}
	}
	return fmt.Errorf("%d of %d checks failed", report.Total()-report.Passed(), report.Total())
}
