package molecule

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// SDFContentType is the media type the structure proxy answers with.
const SDFContentType = "chemical/x-mdl-sdfile"

// StructureFile is one fetched structure document.  It lives for a single
// request; nothing is cached.
type StructureFile struct {
	Content     []byte
	ContentType string
	// Filename is set only for download routes.
	Filename string
	// Upstream names the provider that served Content.
	Upstream string
}

// Size is len(Content).
func (f StructureFile) Size() int { return len(f.Content) }

// AttachmentName builds the download filename for a named compound.
func AttachmentName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "structure"
	}
	return name + ".sdf"
}

// CIDAttachmentName builds the download filename for a PubChem compound.
func CIDAttachmentName(cid int64) string {
	return fmt.Sprintf("compound_%d.sdf", cid)
}

// ParseStructureQuery reads the proxy query string.  Exactly one of cid and
// smiles must be non-empty; cid must be a positive integer.  get3d accepts
// the strconv.ParseBool spellings, anything else counts as false.
func ParseStructureQuery(q url.Values) (StructureRef, error) {
	cid := strings.TrimSpace(q.Get("cid"))
	smiles := strings.TrimSpace(q.Get("smiles"))

	switch {
	case cid == "" && smiles == "":
		return StructureRef{}, errors.New(errors.ErrCodeStructureQueryAmbiguous, "either cid or smiles parameter is required")
	case cid != "" && smiles != "":
		return StructureRef{}, errors.New(errors.ErrCodeStructureQueryAmbiguous, "provide only one of cid or smiles")
	case cid != "":
		n, err := ParseCID(cid)
		if err != nil {
			return StructureRef{}, err
		}
		return *RefByCID(n), nil
	}

	get3d, _ := strconv.ParseBool(q.Get("get3d"))
	return StructureRef{Kind: StructureBySMILES, SMILES: smiles, Get3D: get3d}, nil
}

// ParseCID parses a positive PubChem compound id.
func ParseCID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New(errors.ErrCodeMoleculeInvalidIdentifier, "cid must be a positive integer").WithDetail(s)
	}
	return n, nil
}

//Personal.AI order the ending
