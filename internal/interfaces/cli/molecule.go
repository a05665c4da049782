package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/pkg/client"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/molecule"
)

// NewResolveCmd resolves one or more compound names.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME [NAME...]",
		Short: "Resolve compound names to identifiers and a 3D structure URL",
		Long: "Resolve walks the server's fallback chain (catalog, PubChem, OPSIN, CIR) for\n" +
			"each name.  Several names are sent as one batch and printed in input order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			mols := cc.Client.Molecules()

			if len(args) == 1 {
				out, err := mols.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cc.Logger.Debug("resolved", logging.String("name", args[0]), logging.String("source", out.Source))
				return PrintResult(cmd, resolveView{single: true, items: []molecule.ResolveResponse{*out}})
			}

			res, err := mols.ResolveBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			return PrintResult(cmd, resolveView{items: res})
		},
	}
}

type resolveView struct {
	single bool
	items  []molecule.ResolveResponse
}

func (v resolveView) JSONValue() interface{} {
	if v.single && len(v.items) == 1 {
		return v.items[0]
	}
	return v.items
}

func (v resolveView) TableHeaders() []string {
	return []string{"NAME", "SOURCE", "CID", "FORMULA", "SMILES", "SDF3D"}
}

func (v resolveView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.items))
	for _, r := range v.items {
		cid := ""
		if r.CID > 0 {
			cid = strconv.FormatInt(r.CID, 10)
		}
		rows = append(rows, []string{r.Name, r.Source, cid, r.MolecularFormula, r.SMILES, r.SDF3DURL})
	}
	return rows
}

func (v resolveView) String() string {
	var sb strings.Builder
	for i, r := range v.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s  [%s]", r.Name, r.Source)
		if r.CID > 0 {
			fmt.Fprintf(&sb, "  cid=%d", r.CID)
		}
		if r.SMILES != "" {
			fmt.Fprintf(&sb, "  smiles=%s", r.SMILES)
		}
		if r.SDF3DURL != "" {
			fmt.Fprintf(&sb, "  sdf3d=%s", r.SDF3DURL)
		}
	}
	return sb.String()
}

// NewMappingCmd shows how a display name is spelled for external resolvers.
func NewMappingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mapping NAME",
		Short: "Show the resolver spelling of a compound name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			out, err := cc.Client.Molecules().Mapping(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, mappingView(*out))
		},
	}
}

type mappingView molecule.MappingResponse

func (v mappingView) String() string {
	suffix := ""
	if !v.Mapped {
		suffix = " (lowercased)"
	}
	return fmt.Sprintf("%s -> %s%s", v.OriginalName, v.MappedName, suffix)
}

func (v mappingView) TableHeaders() []string { return []string{"ORIGINAL", "MAPPED", "EXPLICIT"} }

func (v mappingView) TableRows() [][]string {
	return [][]string{{v.OriginalName, v.MappedName, strconv.FormatBool(v.Mapped)}}
}

type sdfOptions struct {
	cid     int64
	smiles  string
	name    string
	get3d   bool
	outFile string
	summary bool
}

// NewSDFCmd downloads a structure file.
func NewSDFCmd() *cobra.Command {
	opts := &sdfOptions{}
	cmd := &cobra.Command{
		Use:   "sdf",
		Short: "Download a structure file by CID, SMILES or compound name",
		Long: "sdf fetches a structure-data file through the server's proxy.  Without\n" +
			"--out the record is written to stdout, or to the server-suggested\n" +
			"filename with --out=auto.  --summary prints the molfile header instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSDF(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.cid, "cid", 0, "PubChem compound id")
	f.StringVar(&opts.smiles, "smiles", "", "SMILES string, converted by CIR")
	f.StringVar(&opts.name, "name", "", "compound name, resolved server-side")
	f.BoolVar(&opts.get3d, "get3d", true, "request 3D coordinates (--smiles only)")
	f.StringVarP(&opts.outFile, "out", "O", "", "output path, \"auto\" for the server filename, empty for stdout")
	f.BoolVar(&opts.summary, "summary", false, "print the molfile header instead of the file")
	cmd.MarkFlagsMutuallyExclusive("cid", "smiles", "name")
	cmd.MarkFlagsOneRequired("cid", "smiles", "name")
	return cmd
}

func runSDF(cmd *cobra.Command, opts *sdfOptions) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	mols := cc.Client.Molecules()
	ctx := cmd.Context()

	var file *client.StructureFile
	switch {
	case cmd.Flags().Changed("cid"):
		if opts.cid <= 0 {
			return errors.InvalidParam("cid must be positive").WithDetail(strconv.FormatInt(opts.cid, 10))
		}
		file, err = mols.DownloadByCID(ctx, opts.cid)
	case cmd.Flags().Changed("smiles"):
		file, err = mols.StructureBySMILES(ctx, opts.smiles, opts.get3d)
	default:
		file, err = mols.DownloadByName(ctx, opts.name)
	}
	if err != nil {
		return err
	}

	if opts.summary {
		h, err := domain.ParseSDFHeader(file.Content)
		if err != nil {
			return err
		}
		return PrintResult(cmd, sdfSummaryView{
			Title: h.Title, Program: h.Program, Atoms: h.Atoms, Bonds: h.Bonds,
			Version: h.Version, Records: h.Records, Is3D: h.Is3D(), Bytes: len(file.Content),
		})
	}

	path := opts.outFile
	if path == "auto" {
		path = file.Filename
		if path == "" {
			path = "structure.sdf"
		}
	}
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(file.Content)
		return err
	}
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write structure file").WithDetail(path)
	}
	cc.Logger.Info("structure saved", logging.String("path", path), logging.Int("bytes", len(file.Content)))
	PrintSuccess(cmd, fmt.Sprintf("wrote %d bytes to %s", len(file.Content), path))
	return nil
}

type sdfSummaryView struct {
	Title   string `json:"title"`
	Program string `json:"program"`
	Atoms   int    `json:"atoms"`
	Bonds   int    `json:"bonds"`
	Version string `json:"version"`
	Records int    `json:"records"`
	Is3D    bool   `json:"is_3d"`
	Bytes   int    `json:"bytes"`
}

func (v sdfSummaryView) String() string {
	dim := "2D"
	if v.Is3D {
		dim = "3D"
	}
	return fmt.Sprintf("%s: %d atoms, %d bonds, %s %s, %d record(s), %d bytes",
		v.Title, v.Atoms, v.Bonds, v.Version, dim, v.Records, v.Bytes)
}

func (v sdfSummaryView) TableHeaders() []string {
	return []string{"TITLE", "ATOMS", "BONDS", "VERSION", "3D", "RECORDS"}
}

func (v sdfSummaryView) TableRows() [][]string {
	return [][]string{{v.Title, strconv.Itoa(v.Atoms), strconv.Itoa(v.Bonds), v.Version,
		strconv.FormatBool(v.Is3D), strconv.Itoa(v.Records)}}
}

//Personal.AI order the ending
