package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
)

type StagesCmd struct {
	global *globalOptions
}

func newStagesCmd(global *globalOptions) *StagesCmd {
	return &StagesCmd{global: global}
}

func (c *StagesCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the configured pricing stages in the order they run",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
}

func (c *StagesCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetBorder(true)
	table.SetHeader([]string{"#", "Stage"})

	for i, name := range pipeline.Stages() {
		table.Append([]string{strconv.Itoa(i + 1), name})
	}

	table.SetFooter([]string{"Base", pipeline.Base().StringFixed(pricing.CentPlaces) + " " + cfg.Pricing.Currency})
	table.Render()

	return nil
}
