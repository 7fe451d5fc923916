package main

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "ivadual.yaml"

func configCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and edit tax configuration files",
	}
	cmd.AddCommand(configInitCmd(cli))
	cmd.AddCommand(configShowCmd(cli))
	cmd.AddCommand(addIncentiveCmd(cli))
	cmd.AddCommand(removeIncentiveCmd(cli))
	cmd.AddCommand(setRatesCmd(cli))
	cmd.AddCommand(setTransitionCmd(cli))
	cmd.AddCommand(setSectorCmd(cli))
	return cmd
}

func configInitCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cli.configPath
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				path = defaultConfigFile
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := cli.parser.SaveConfiguration(domain.NewDefaultConfiguration(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func configShowCmd(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.loadConfiguration()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// editConfiguration loads the --config file, applies edit and saves the
// result. A rejected edit leaves the file untouched.
func editConfiguration(cli *cliContext, cmd *cobra.Command, edit func(domain.TaxConfiguration) (domain.TaxConfiguration, error)) error {
	if cli.configPath == "" {
		return fmt.Errorf("--config is required to edit a configuration")
	}
	cfg, err := cli.loadConfiguration()
	if err != nil {
		return err
	}
	updated, err := edit(cfg)
	if err != nil {
		return err
	}
	if err := cli.parser.SaveConfiguration(updated, cli.configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s updated\n", cli.configPath)
	return nil
}

func addIncentiveCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-incentive",
		Short: "Append an ICMS incentive to a category",
		Example: `  ivadual -c cfg.yaml config add-incentive --category output --type rate_reduction \
      --percent 50 --coverage 60 --description "Programa estadual"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rawCategory, _ := cmd.Flags().GetString("category")
			category, err := domain.ParseIncentiveCategory(rawCategory)
			if err != nil {
				return err
			}
			incType, _ := cmd.Flags().GetString("type")
			description, _ := cmd.Flags().GetString("description")
			percentage, err := parsePercent(cmd, "percent")
			if err != nil {
				return err
			}
			coverage, err := parsePercent(cmd, "coverage")
			if err != nil {
				return err
			}

			inc := domain.Incentive{
				Description: description,
				Type:        domain.IncentiveType(incType),
				Percentage:  percentage,
				Coverage:    coverage,
			}
			return editConfiguration(cli, cmd, func(cfg domain.TaxConfiguration) (domain.TaxConfiguration, error) {
				return cfg.WithIncentive(category, inc)
			})
		},
	}
	cmd.Flags().String("category", "", "Incentive category: output, input or assessment")
	cmd.Flags().String("type", "", "Incentive type, e.g. rate_reduction, presumed_credit")
	cmd.Flags().String("percent", "0", "Benefit percentage (0-100)")
	cmd.Flags().String("coverage", "100", "Share of the remaining pool covered (0-100)")
	cmd.Flags().String("description", "", "Free text description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func removeIncentiveCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-incentive",
		Short: "Remove an ICMS incentive by its position in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawCategory, _ := cmd.Flags().GetString("category")
			index, _ := cmd.Flags().GetInt("index")
			return editConfiguration(cli, cmd, func(cfg domain.TaxConfiguration) (domain.TaxConfiguration, error) {
				return cfg.WithoutIncentive(domain.IncentiveCategory(rawCategory), index)
			})
		},
	}
	cmd.Flags().String("category", "", "Incentive category: output, input or assessment")
	cmd.Flags().Int("index", 0, "Zero-based position in the category list")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func setRatesCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-rates",
		Short: "Set the nominal CBS/IBS rates and, optionally, the ICMS rates (percentages)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfiguration(cli, cmd, func(cfg domain.TaxConfiguration) (domain.TaxConfiguration, error) {
				var err error
				if cmd.Flags().Changed("cbs") || cmd.Flags().Changed("ibs") {
					cbs, ibs := cfg.BaseRates.CBS, cfg.BaseRates.IBS
					if cmd.Flags().Changed("cbs") {
						if cbs, err = parsePercent(cmd, "cbs"); err != nil {
							return cfg, err
						}
					}
					if cmd.Flags().Changed("ibs") {
						if ibs, err = parsePercent(cmd, "ibs"); err != nil {
							return cfg, err
						}
					}
					if cfg, err = cfg.WithBaseRates(cbs, ibs); err != nil {
						return cfg, err
					}
				}
				if cmd.Flags().Changed("icms-input") || cmd.Flags().Changed("icms-output") {
					in, out := cfg.ICMS.InputRate, cfg.ICMS.OutputRate
					if cmd.Flags().Changed("icms-input") {
						if in, err = parsePercent(cmd, "icms-input"); err != nil {
							return cfg, err
						}
					}
					if cmd.Flags().Changed("icms-output") {
						if out, err = parsePercent(cmd, "icms-output"); err != nil {
							return cfg, err
						}
					}
					if cfg, err = cfg.WithICMSRates(in, out); err != nil {
						return cfg, err
					}
				}
				return cfg, nil
			})
		},
	}
	cmd.Flags().String("cbs", "", "Nominal CBS rate, e.g. 8.8")
	cmd.Flags().String("ibs", "", "Nominal IBS rate, e.g. 17.7")
	cmd.Flags().String("icms-input", "", "Average ICMS rate on purchases")
	cmd.Flags().String("icms-output", "", "Average ICMS rate on sales")
	return cmd
}

func setTransitionCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-transition",
		Short: "Set a year's implementation factor and, optionally, its IBS cross-credit (percentages)",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			factor, err := parsePercent(cmd, "factor")
			if err != nil {
				return err
			}
			return editConfiguration(cli, cmd, func(cfg domain.TaxConfiguration) (domain.TaxConfiguration, error) {
				cfg, err := cfg.WithTransitionFactor(year, factor)
				if err != nil || !cmd.Flags().Changed("cross-credit") {
					return cfg, err
				}
				fraction, err := parsePercent(cmd, "cross-credit")
				if err != nil {
					return domain.TaxConfiguration{}, err
				}
				return cfg.WithCrossCredit(year, fraction)
			})
		},
	}
	cmd.Flags().Int("year", 0, "Transition year")
	cmd.Flags().String("factor", "", "Implementation factor, e.g. 40")
	cmd.Flags().String("cross-credit", "", "Share of IBS creditable against ICMS")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("factor")
	return cmd
}

func setSectorCmd(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-sector",
		Short: "Add or replace a sector's IBS rate and CBS reduction (percentages)",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			ibs, err := parsePercent(cmd, "ibs")
			if err != nil {
				return err
			}
			reduction, err := parsePercent(cmd, "cbs-reduction")
			if err != nil {
				return err
			}
			err = editConfiguration(cli, cmd, func(cfg domain.TaxConfiguration) (domain.TaxConfiguration, error) {
				return cfg.WithSectorRates(name, domain.SectorRates{IBSRate: ibs, CBSReduction: reduction})
			})
			if err == nil {
				cli.logger.Debugf("sector %s set to IBS %s", name, brfmt.Percent(ibs))
			}
			return err
		},
	}
	cmd.Flags().String("name", "", "Sector name")
	cmd.Flags().String("ibs", "", "Sector IBS rate")
	cmd.Flags().String("cbs-reduction", "0", "CBS reduction for the sector")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("ibs")
	return cmd
}
