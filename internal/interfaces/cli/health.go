package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
)

// NewHealthCmd reports server liveness and readiness.  It fails when the
// server is not ready, after printing the component report.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server liveness and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			live, err := cc.Client.Liveness(cmd.Context())
			if err != nil {
				return err
			}
			ready, rerr := cc.Client.Readiness(cmd.Context())
			if ready == nil {
				return rerr
			}
			if perr := PrintResult(cmd, healthView{Liveness: live, Readiness: ready}); perr != nil {
				return perr
			}
			return rerr
		},
	}
}

type healthView struct {
	Liveness  *common.LivenessResponse  `json:"liveness"`
	Readiness *common.ReadinessResponse `json:"readiness"`
}

func (v healthView) components() []string {
	names := make([]string, 0, len(v.Readiness.Components))
	for n := range v.Readiness.Components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (v healthView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (version %s, up %s), %s", v.Liveness.Status, v.Liveness.Version,
		v.Liveness.Uptime, v.Readiness.Status)
	for _, n := range v.components() {
		c := v.Readiness.Components[n]
		fmt.Fprintf(&sb, "\n  %-10s %s", n, c.Status)
		if c.Error != "" {
			fmt.Fprintf(&sb, "  %s", c.Error)
		}
	}
	return sb.String()
}

func (v healthView) TableHeaders() []string { return []string{"COMPONENT", "STATUS", "LATENCY", "ERROR"} }

func (v healthView) TableRows() [][]string {
	rows := [][]string{{"service", v.Readiness.Status, "", ""}}
	for _, n := range v.components() {
		c := v.Readiness.Components[n]
		rows = append(rows, []string{n, string(c.Status), c.Latency, c.Error})
	}
	return rows
}

//Personal.AI order the ending
