package client

import (
	"context"
	"mime"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/molecule"
)

const moleculePrefix = "/api/molecule"

// MoleculesClient resolves compound names and downloads structure files.
type MoleculesClient struct {
	client *Client
}

// StructureFile is a downloaded SDF record.
type StructureFile struct {
	// Filename is set by the download routes, empty for the proxy.
	Filename    string
	ContentType string
	Content     []byte
}

func invalidArg(msg string) error {
	return errors.New(errors.ErrCodeValidation, msg)
}

// Resolve maps a compound name to its identifiers.
func (m *MoleculesClient) Resolve(ctx context.Context, name string) (*molecule.ResolveResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidArg("name is required")
	}
	var out molecule.ResolveResponse
	if err := m.client.post(ctx, moleculePrefix+"/resolve", molecule.ResolveRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveBatch resolves names in one call; results keep input order.
func (m *MoleculesClient) ResolveBatch(ctx context.Context, names []string) ([]molecule.ResolveResponse, error) {
	if len(names) == 0 {
		return nil, invalidArg("names must not be empty")
	}
	var out molecule.BatchResolveResponse
	if err := m.client.post(ctx, moleculePrefix+"/resolve/batch", molecule.BatchResolveRequest{Names: names}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Mapping reports how the service spells name for external resolvers.
func (m *MoleculesClient) Mapping(ctx context.Context, name string) (*molecule.MappingResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidArg("name is required")
	}
	var out molecule.MappingResponse
	if err := m.client.get(ctx, moleculePrefix+"/compound-mapping/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls the molecule service probe.
func (m *MoleculesClient) Health(ctx context.Context) (bool, error) {
	var out molecule.HealthResponse
	if err := m.client.get(ctx, moleculePrefix+"/healthz", nil, &out); err != nil {
		return false, err
	}
	return out.OK, nil
}

// StructureByCID fetches the PubChem 3D record through the proxy.
func (m *MoleculesClient) StructureByCID(ctx context.Context, cid int64) (*StructureFile, error) {
	if cid <= 0 {
		return nil, invalidArg("cid must be positive")
	}
	return m.fetch(ctx, moleculePrefix+"/sdf", url.Values{"cid": {strconv.FormatInt(cid, 10)}})
}

// StructureBySMILES generates a structure file through the proxy.
func (m *MoleculesClient) StructureBySMILES(ctx context.Context, smiles string, get3d bool) (*StructureFile, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, invalidArg("smiles is required")
	}
	return m.fetch(ctx, moleculePrefix+"/sdf", url.Values{
		"smiles": {smiles},
		"get3d":  {strconv.FormatBool(get3d)},
	})
}

// StructureFromURL follows the sdf3d_url of a ResolveResponse.
func (m *MoleculesClient) StructureFromURL(ctx context.Context, sdf3dURL string) (*StructureFile, error) {
	if sdf3dURL == "" {
		return nil, invalidArg("structure url is empty")
	}
	u, err := url.Parse(sdf3dURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid structure url")
	}
	return m.fetch(ctx, u.Path, u.Query())
}

// DownloadByName resolves name server-side and downloads its 3D record.
func (m *MoleculesClient) DownloadByName(ctx context.Context, name string) (*StructureFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidArg("name is required")
	}
	return m.fetch(ctx, moleculePrefix+"/by-name/"+url.PathEscape(name)+"/sdf3d", nil)
}

// DownloadByCID downloads the PubChem 3D record as an attachment.
func (m *MoleculesClient) DownloadByCID(ctx context.Context, cid int64) (*StructureFile, error) {
	if cid <= 0 {
		return nil, invalidArg("cid must be positive")
	}
	return m.fetch(ctx, moleculePrefix+"/cid/"+strconv.FormatInt(cid, 10)+"/sdf3d", nil)
}

func (m *MoleculesClient) fetch(ctx context.Context, path string, query url.Values) (*StructureFile, error) {
	resp, err := m.client.raw(ctx, path, query)
	if err != nil {
		return nil, err
	}
	f := &StructureFile{
		ContentType: resp.Header().Get("Content-Type"),
		Content:     resp.Body(),
	}
	if cd := resp.Header().Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			f.Filename = params["filename"]
		}
	}
	return f, nil
}

//Personal.AI order the ending
