package chemdb

import (
	"context"
	"strings"

	"github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
)

// CIR bodies containing any of these are not structures.
var cirErrorMarkers = []string{"error", "<html", "not found"}

// LooksLikeCIRError reports whether a 2xx CIR body is really an error page.
func LooksLikeCIRError(body string) bool {
	lower := strings.ToLower(body)
	for _, m := range cirErrorMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// CIR is the NCI Chemical Identifier Resolver.  It is the last external
// step of the chain and the structure source for SMILES-based requests.
type CIR struct {
	*baseClient
}

// NewCIR builds a client rooted at opts.BaseURL.
func NewCIR(opts Options) *CIR {
	return &CIR{baseClient: newBaseClient(ProviderCIR, opts)}
}

// SMILES converts an identifier to SMILES.  An empty or error-looking body
// yields "" without error.
func (c *CIR) SMILES(ctx context.Context, identifier string) (string, error) {
	resp, err := c.get(ctx, request{
		op:         "smiles",
		path:       "/chemical/structure/{id}/smiles",
		pathParams: map[string]string{"id": identifier},
		accept:     "text/plain",
	})
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(resp.String())
	if body == "" || LooksLikeCIRError(body) {
		return "", nil
	}
	// CIR answers one SMILES per line when the identifier is ambiguous.
	if i := strings.IndexAny(body, "\r\n"); i >= 0 {
		body = strings.TrimSpace(body[:i])
	}
	return body, nil
}

// StructureFile fetches an SDF for smiles.  The file endpoint is tried
// first; on any failure the legacy sdf endpoint is tried exactly once and
// its error is the one reported.
func (c *CIR) StructureFile(ctx context.Context, smiles string, get3d bool) ([]byte, error) {
	body, err := c.fetchSDF(ctx, "sdf_file", "/chemical/structure/{smiles}/file", smiles, get3d, true)
	if err == nil {
		return body, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	c.log.Debug("primary structure endpoint failed, trying alternate")
	return c.fetchSDF(ctx, "sdf_alt", "/chemical/structure/{smiles}/sdf", smiles, get3d, false)
}

func (c *CIR) fetchSDF(ctx context.Context, op, path, smiles string, get3d, withFormat bool) ([]byte, error) {
	query := map[string]string{}
	if withFormat {
		query["format"] = "sdf"
	}
	if get3d {
		query["get3d"] = "True"
	}
	resp, err := c.get(ctx, request{
		op:         op,
		path:       path,
		pathParams: map[string]string{"smiles": smiles},
		query:      query,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *CIR) Name() string { return string(molecule.SourceCIR) }

// Attempt implements molecule.Step.
func (c *CIR) Attempt(ctx context.Context, q molecule.Query) (molecule.CompoundIdentity, error) {
	smiles, err := c.SMILES(ctx, q.NormalizedName)
	if err != nil {
		return molecule.CompoundIdentity{}, asMiss(ProviderCIR, err)
	}
	if smiles == "" {
		return molecule.CompoundIdentity{}, molecule.NoMatch(ProviderCIR)
	}
	return molecule.CompoundIdentity{
		Source:    molecule.SourceCIR,
		SMILES:    smiles,
		Structure: molecule.RefBySMILES(smiles),
	}, nil
}

var _ molecule.Step = (*CIR)(nil)

//Personal.AI order the ending
