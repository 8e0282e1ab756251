package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jsamuelsen/insurance-quote-service/internal/app"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
)

// computeOptions holds the flags of quotectl compute.
type computeOptions struct {
	dob          string
	carYear      int
	carMake      string
	carModel     string
	tickets      int
	dui          bool
	fullCoverage bool
	breakdown    bool
	asOf         string
}

type ComputeCmd struct {
	global *globalOptions
	opts   computeOptions
}

func newComputeCmd(global *globalOptions) *ComputeCmd {
	return &ComputeCmd{global: global}
}

func (c *ComputeCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a quote for one person",
		Example: `  quotectl compute --dob 1990-01-02 --car-year 2010 --car-make Honda --car-model Civic
  quotectl compute --dob 2007-03-04 --car-year 1995 --car-make Porsche --car-model "911 Carrera" \
    --tickets 1 --dui --full-coverage --breakdown --as-of 2024-06-01`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	c.opts.bind(cmd.Flags())

	for _, name := range []string{"dob", "car-year", "car-make", "car-model"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (o *computeOptions) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.dob, "dob", "", "date of birth (YYYY-MM-DD)")
	fs.IntVar(&o.carYear, "car-year", 0, "model year of the car")
	fs.StringVar(&o.carMake, "car-make", "", "car make, e.g. Honda")
	fs.StringVar(&o.carModel, "car-model", "", "car model, e.g. Civic")
	fs.IntVar(&o.tickets, "tickets", 0, "number of speeding tickets")
	fs.BoolVar(&o.dui, "dui", false, "driver has a DUI")
	fs.BoolVar(&o.fullCoverage, "full-coverage", false, "quote full coverage")
	fs.BoolVar(&o.breakdown, "breakdown", false, "print the amount after each stage")
	fs.StringVar(&o.asOf, "as-of", "", "price as of this date (YYYY-MM-DD) instead of today")
}

func (o *computeOptions) person() (domain.Person, error) {
	dob, err := time.Parse(time.DateOnly, o.dob)
	if err != nil {
		return domain.Person{}, domain.NewValidationErrorWithValue("dob", "must be a date in YYYY-MM-DD format", o.dob)
	}

	return domain.Person{
		DateOfBirth:     dob,
		CarYear:         o.carYear,
		CarMake:         o.carMake,
		CarModel:        o.carModel,
		SpeedingTickets: o.tickets,
		HasDUI:          o.dui,
		HasFullCoverage: o.fullCoverage,
	}, nil
}

// clock returns a clock frozen at --as-of, or the real clock.
func (o *computeOptions) clock() (clockwork.Clock, error) {
	if o.asOf == "" {
		return clockwork.NewRealClock(), nil
	}

	asOf, err := time.Parse(time.DateOnly, o.asOf)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of %q: must be YYYY-MM-DD", o.asOf)
	}

	return clockwork.NewFakeClockAt(asOf), nil
}

func (c *ComputeCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	clock, err := c.opts.clock()
	if err != nil {
		return err
	}

	person, err := c.opts.person()
	if err != nil {
		return err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Pipeline: pipeline,
		Clock:    clock,
		Logger:   c.global.newLogger(cmd.ErrOrStderr()),
	})

	quote, err := service.ComputeQuote(cmd.Context(), person)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if c.opts.breakdown {
		renderBreakdown(out, quote)
	}

	_, err = fmt.Fprintf(out, "Quote: %s %s\n", quote.Amount.StringFixed(pricing.CentPlaces), cfg.Pricing.Currency)

	return err
}

func renderBreakdown(w io.Writer, quote *domain.Quote) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(true)
	table.SetHeader([]string{"Stage", "Before", "After", "Change"})

	for _, adj := range quote.Breakdown {
		table.Append([]string{
			adj.Stage,
			adj.Before.String(),
			adj.After.String(),
			signed(adj.Delta()),
		})
	}

	table.SetFooter([]string{"", "", "Exact", quote.Exact.String()})
	table.Render()
}

func signed(d pricing.Money) string {
	if d.IsPositive() {
		return "+" + d.String()
	}

	return d.String()
}
