package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/axiomgfx-dili/pkg/types/compound"
)

// NewCompoundsCmd lists the library.  get, dose-response and predict hang
// off it.
func NewCompoundsCmd() *cobra.Command {
	p := &compound.ListParams{}
	var tc50Min, tc50Max float64
	var desc bool

	cmd := &cobra.Command{
		Use:     "compounds",
		Aliases: []string{"compound"},
		Short:   "List DILI library compounds with filtering, sorting and pagination",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tc50-min") {
				p.TC50Min = &tc50Min
			}
			if cmd.Flags().Changed("tc50-max") {
				p.TC50Max = &tc50Max
			}
			if desc {
				p.SortOrder = "desc"
			}
			out, err := cc.Client.Compounds().List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return PrintResult(cmd, listView{out})
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.Skip, "skip", 0, "number of compounds to skip")
	f.IntVar(&p.Limit, "limit", 0, "page size (server default 20, max 100)")
	f.StringVar(&p.Search, "search", "", "case-insensitive name filter")
	f.StringVar(&p.RiskCategory, "risk", "", "risk category: low, medium or high")
	f.Float64Var(&tc50Min, "tc50-min", 0, "minimum TC50 in µM")
	f.Float64Var(&tc50Max, "tc50-max", 0, "maximum TC50 in µM")
	f.StringVar(&p.SortBy, "sort-by", "", "sort field: name, tc50, riskScore, ec50, molecular_weight")
	f.StringVar(&p.SortOrder, "sort-order", "", "asc or desc")
	f.BoolVar(&desc, "desc", false, "sort descending, same as --sort-order=desc")
	cmd.MarkFlagsMutuallyExclusive("desc", "sort-order")

	cmd.AddCommand(newCompoundsGetCmd(), newDoseResponseCmd(), newPredictCmd())
	return cmd
}

type listView struct{ resp *compound.ListResponse }

func (v listView) JSONValue() interface{} { return v.resp }

func (v listView) TableHeaders() []string {
	return []string{"ID", "NAME", "TC50", "EC50", "RISK", "LOGP"}
}

func (v listView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.resp.Compounds))
	for _, c := range v.resp.Compounds {
		rows = append(rows, []string{c.ID, c.Name, formatNum(c.TC50), formatNum(c.EC50),
			formatNum(c.RiskScore), formatNum(c.LogP)})
	}
	return rows
}

func (v listView) String() string {
	var sb strings.Builder
	for _, c := range v.resp.Compounds {
		fmt.Fprintf(&sb, "%-24s TC50=%-8s risk=%s\n", c.Name, formatNum(c.TC50), formatNum(c.RiskScore))
	}
	fmt.Fprintf(&sb, "page %d/%d, %d total", v.resp.Page, v.resp.Pages, v.resp.Total)
	return sb.String()
}

func newCompoundsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one compound with its risk profile and safety margin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out, err := cc.Client.Compounds().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, detailView{out})
		},
	}
}

type detailView struct{ d *compound.CompoundDetail }

func (v detailView) JSONValue() interface{} { return v.d }

func (v detailView) TableHeaders() []string {
	return []string{"ID", "NAME", "TC20", "TC50", "EC20", "EC50", "RISK", "CATEGORY", "MARGIN"}
}

func (v detailView) TableRows() [][]string {
	d := v.d
	return [][]string{{d.ID, d.Name, formatNum(d.TC20), formatNum(d.TC50), formatNum(d.EC20),
		formatNum(d.EC50), formatNum(d.RiskScore), d.RiskCategory, formatNum(d.SafetyMargin)}}
}

func (v detailView) String() string {
	d := v.d
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n  TC20=%s TC50=%s EC20=%s EC50=%s µM\n  risk %s [%s], safety margin %s\n",
		d.Name, d.ID, formatNum(d.TC20), formatNum(d.TC50), formatNum(d.EC20), formatNum(d.EC50),
		formatNum(d.RiskScore), riskLabel(d.RiskCategory), formatNum(d.SafetyMargin))
	writeProfile(&sb, d.RiskProfile)
	return strings.TrimRight(sb.String(), "\n")
}

func writeProfile(sb *strings.Builder, p compound.RiskProfile) {
	fmt.Fprintf(sb, "  safety window %s-%sx Cmax [%s], confidence %s\n",
		formatNum(p.SafetyWindow[0]), formatNum(p.SafetyWindow[1]), riskLabel(p.RiskCategory), formatNum(p.Confidence))
	for _, r := range p.Recommendations {
		fmt.Fprintf(sb, "  - %s\n", r)
	}
}

func newPredictCmd() *cobra.Command {
	req := &compound.PredictRequest{}
	var e compound.Endpoints

	cmd := &cobra.Command{
		Use:   "predict SMILES",
		Short: "Predict the DILI risk profile of a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			req.SMILES = args[0]
			for _, name := range []string{"tc20", "tc50", "ec20", "ec50"} {
				if cmd.Flags().Changed(name) {
					req.AssayData = &e
				}
			}
			out, err := cc.Client.Compounds().PredictRisk(cmd.Context(), req)
			if err != nil {
				return err
			}
			return PrintResult(cmd, predictView{out})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.CompoundName, "name", "", "compound name to report")
	f.Float64Var(&e.TC20, "tc20", 0, "measured TC20 in µM")
	f.Float64Var(&e.TC50, "tc50", 0, "measured TC50 in µM")
	f.Float64Var(&e.EC20, "ec20", 0, "measured EC20 in µM")
	f.Float64Var(&e.EC50, "ec50", 0, "measured EC50 in µM")
	return cmd
}

type predictView struct{ p *compound.PredictResponse }

func (v predictView) JSONValue() interface{} { return v.p }

func (v predictView) TableHeaders() []string {
	return []string{"ID", "NAME", "SCORE", "CATEGORY", "WINDOW", "CONFIDENCE", "LIBRARY"}
}

func (v predictView) TableRows() [][]string {
	p := v.p
	return [][]string{{p.CompoundID, p.CompoundName, formatNum(p.RiskScore), p.RiskCategory,
		formatNum(p.SafetyWindow[0]) + "-" + formatNum(p.SafetyWindow[1]), formatNum(p.Confidence),
		strconv.FormatBool(p.FromLibrary)}}
}

func (v predictView) String() string {
	p := v.p
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) risk %s\n", p.CompoundName, p.CompoundID, formatNum(p.RiskScore))
	writeProfile(&sb, p.RiskProfile)
	return strings.TrimRight(sb.String(), "\n")
}

func newDoseResponseCmd() *cobra.Command {
	p := &compound.DoseResponseParams{}
	var hill float64

	cmd := &cobra.Command{
		Use:   "dose-response ID",
		Short: "Generate the dose-response curve for a compound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("hill") {
				p.HillSlope = &hill
			}
			out, err := cc.Client.Compounds().DoseResponse(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return PrintResult(cmd, doseView{out})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.AssayType, "assay", "", "assay type (default cell_viability)")
	f.Float64Var(&hill, "hill", 0, "Hill slope (default 1.0)")
	f.BoolVar(&p.Noise, "noise", false, "add measurement noise to the points")
	return cmd
}

type doseView struct{ r *compound.DoseResponse }

func (v doseView) JSONValue() interface{} { return v.r }

func (v doseView) TableHeaders() []string {
	return []string{"CONC (µM)", "RESPONSE", "CI LOW", "CI HIGH", "SE"}
}

func (v doseView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.r.Points))
	for _, pt := range v.r.Points {
		rows = append(rows, []string{formatNum(pt.X), formatNum(pt.Y),
			formatNum(pt.ConfidenceInterval[0]), formatNum(pt.ConfidenceInterval[1]), formatNum(pt.StandardError)})
	}
	return rows
}

func (v doseView) String() string {
	fit := v.r.CurveFit
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: EC50=%s hill=%s top=%s bottom=%s\n", v.r.CompoundID, v.r.AssayType,
		formatNum(fit.EC50), formatNum(fit.HillSlope), formatNum(fit.Top), formatNum(fit.Bottom))
	for _, pt := range v.r.Points {
		fmt.Fprintf(&sb, "  %10s µM  %s\n", formatNum(pt.X), formatNum(pt.Y))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// riskLabel colors a risk category for terminal output.
func riskLabel(category string) string {
	switch category {
	case compound.RiskHigh:
		return color.RedString(category)
	case compound.RiskMedium:
		return color.YellowString(category)
	case compound.RiskLow:
		return color.GreenString(category)
	}
	return category
}

//Personal.AI order the ending
