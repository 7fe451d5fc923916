package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/ivadual/internal/breakeven"
	"github.com/rgehrsitz/ivadual/internal/compare"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/internal/output"
	"github.com/spf13/cobra"
)

func calculateCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [company-file]",
		Short: "Calculate legacy and dual VAT taxes for the transition years",
		Long: `Calculate CBS, IBS and the legacy taxes of a company for each transition
year. Company figures come from an optional YAML or JSON file and can be
overridden with flags. When a current burden is given, the equivalent
CBS/IBS rates are added to the report.`,
		Example: `  ivadual calculate --revenue 1000000 --costs 400000 --burden 18.5
  ivadual calculate company.yaml --years 2026-2029 --format trace
  ivadual calculate company.yaml --format pdf --output report.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")
			yearsFlag, _ := cmd.Flags().GetString("years")
			refine, _ := cmd.Flags().GetBool("refine")

			formatter, err := output.NewFormatter(format)
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(output.FormatterNames(), ", "))
			}
			if format == "pdf" && outputPath == "" {
				return fmt.Errorf("the pdf format requires --output")
			}

			cfg, err := cli.loadConfiguration()
			if err != nil {
				return err
			}
			years, err := parseYears(yearsFlag)
			if err != nil {
				return err
			}
			input, err := loadCompany(cli, cmd, args)
			if err != nil {
				return err
			}

			engine := cli.newEngine(cfg)
			results, err := engine.CompareAcrossYears(input, years)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}
			reportWarnings(results)

			report := output.NewReport(input, results, output.Assumptions(cfg, cli.phaseOut))
			report.ConfigPath = cli.configPath
			if input.CurrentBurdenPercent.IsPositive() {
				solver := breakeven.NewDefaultSolver(engine)
				report.Equivalent, err = solver.EquivalentSchedule(cmd.Context(), input, input.CurrentBurdenPercent, domain.SortedYears(results), refine)
				if err != nil {
					return fmt.Errorf("equivalent rates failed: %w", err)
				}
			}

			if outputPath == "" {
				return output.WriteFormatted(cmd.OutOrStdout(), formatter, report)
			}
			var buf bytes.Buffer
			if err := output.WriteFormatted(&buf, formatter, report); err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
			return nil
		},
	}

	addCompanyFlags(cmd)
	cmd.Flags().String("years", "", "Years to calculate, e.g. 2026-2030 or 2026,2028 (default: all scheduled years)")
	cmd.Flags().StringP("format", "f", "console", "Output format: "+strings.Join(output.FormatterNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("refine", false, "Reconcile equivalent rates with the actual credit rules")
	return cmd
}

func compareCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [company-file]",
		Short: "Compare the tax burden across transition years",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			yearsFlag, _ := cmd.Flags().GetString("years")
			baseYear, _ := cmd.Flags().GetInt("base-year")

			cfg, err := cli.loadConfiguration()
			if err != nil {
				return err
			}
			years, err := parseYears(yearsFlag)
			if err != nil {
				return err
			}
			input, err := loadCompany(cli, cmd, args)
			if err != nil {
				return err
			}

			compareEngine := compare.NewCompareEngine(cli.newEngine(cfg))
			compSet, err := compareEngine.Compare(cmd.Context(), input, compare.CompareOptions{
				Years:      years,
				BaseYear:   baseYear,
				ConfigPath: cli.configPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table", "console":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(compSet))
			case "csv":
				text, err := (&compare.CSVFormatter{}).Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			case "json":
				return (&compare.JSONFormatter{Pretty: true}).Encode(out, compSet)
			default:
				return fmt.Errorf("unsupported format: %s (available: table, compact, csv, json)", format)
			}
			return nil
		},
	}

	addCompanyFlags(cmd)
	cmd.Flags().String("years", "", "Years to compare (default: all scheduled years)")
	cmd.Flags().Int("base-year", 0, "Year the others are compared to (default: the first year)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, compact, csv, json")
	return cmd
}

func equivalentCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equivalent [company-file]",
		Short: "Estimate the CBS/IBS rates equivalent to the current tax burden",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			yearsFlag, _ := cmd.Flags().GetString("years")
			refine, _ := cmd.Flags().GetBool("refine")

			cfg, err := cli.loadConfiguration()
			if err != nil {
				return err
			}
			years, err := parseYears(yearsFlag)
			if err != nil {
				return err
			}
			input, err := loadCompany(cli, cmd, args)
			if err != nil {
				return err
			}
			if !input.CurrentBurdenPercent.IsPositive() {
				return fmt.Errorf("a current burden is required (--burden or current_burden_percent)")
			}

			solver := breakeven.NewDefaultSolver(cli.newEngine(cfg))
			schedule, err := solver.EquivalentSchedule(cmd.Context(), input, input.CurrentBurdenPercent, years, refine)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatSchedule(schedule))
			case "json":
				text, err := (&breakeven.JSONFormatter{Pretty: true}).Format(schedule)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			default:
				return fmt.Errorf("unsupported format: %s (available: table, json)", format)
			}
			return nil
		},
	}

	addCompanyFlags(cmd)
	cmd.Flags().String("years", "", "Years to solve (default: all scheduled years)")
	cmd.Flags().Bool("refine", false, "Reconcile the estimate with the actual credit rules")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func validateCmd(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [company-file]",
		Short: "Validate the configuration and, optionally, a company file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.loadConfiguration()
			if err != nil {
				return err
			}
			source := cli.configPath
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK (%s)\n", source)

			if len(args) == 0 {
				return nil
			}
			input, err := cli.parser.LoadCompany(args[0])
			if err != nil {
				return err
			}
			if err := cli.newEngine(cfg).Validate(*input); err != nil {
				return fmt.Errorf("company input %s is invalid: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company input OK (%s)\n", args[0])
			return nil
		},
	}
}
