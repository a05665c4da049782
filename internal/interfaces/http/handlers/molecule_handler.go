package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/axiomgfx-dili/internal/application/molecule"
	domain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	dto "github.com/turtacn/axiomgfx-dili/pkg/types/molecule"
)

// MoleculeHandler serves name resolution and the structure-file proxy.
type MoleculeHandler struct {
	resolver   *appmol.Resolver
	structures *appmol.StructureService
	logger     logging.Logger
}

func NewMoleculeHandler(resolver *appmol.Resolver, structures *appmol.StructureService, logger logging.Logger) *MoleculeHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MoleculeHandler{resolver: resolver, structures: structures, logger: logger.Named("molecule_handler")}
}

// RegisterRoutes mounts the molecule API under g (normally /api/molecule).
func (h *MoleculeHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/resolve", h.Resolve)
	g.POST("/resolve/batch", h.ResolveBatch)
	g.GET("/sdf", h.StructureProxy)
	g.OPTIONS("/sdf", h.StructureOptions)
	g.GET("/by-name/:name/sdf3d", h.StructureByName)
	g.GET("/cid/:cid/sdf3d", h.StructureByCID)
	g.GET("/compound-mapping/:name", h.Mapping)
	g.GET("/healthz", h.Health)
}

// ToResolveResponse renders an identity for the wire.
func ToResolveResponse(id domain.CompoundIdentity) dto.ResolveResponse {
	out := dto.ResolveResponse{
		Source:           id.Source.String(),
		Name:             id.DisplayName,
		NormalizedName:   id.NormalizedName,
		CID:              id.CID,
		SMILES:           id.SMILES,
		InChI:            id.InChI,
		InChIKey:         id.InChIKey,
		MolecularFormula: id.MolecularFormula,
		MolecularWeight:  id.MolecularWeight,
	}
	if id.Structure != nil {
		out.SDF3DURL = id.Structure.ProxyPath()
	}
	return out
}

// Resolve handles POST /resolve.
func (h *MoleculeHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.resolver.Resolve(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResolveResponse(id))
}

// ResolveBatch handles POST /resolve/batch.
func (h *MoleculeHandler) ResolveBatch(c *gin.Context) {
	var req dto.BatchResolveRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, err := h.resolver.ResolveBatch(c.Request.Context(), req.Names)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.BatchResolveResponse{Results: make([]dto.ResolveResponse, len(ids))}
	for i, id := range ids {
		resp.Results[i] = ToResolveResponse(id)
	}
	c.JSON(http.StatusOK, resp)
}

// setProxyCORS stamps the proxy's own GET-only policy.  It is applied to
// successes and failures alike so browsers can read error bodies.
func setProxyCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}

// StructureOptions handles the CORS preflight of /sdf.
func (h *MoleculeHandler) StructureOptions(c *gin.Context) {
	setProxyCORS(c)
	c.Status(http.StatusOK)
}

// StructureProxy handles GET /sdf?cid=N or ?smiles=S[&get3d=true].
func (h *MoleculeHandler) StructureProxy(c *gin.Context) {
	setProxyCORS(c)
	ref, err := domain.ParseStructureQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}
	f, err := h.structures.Fetch(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, f.ContentType, f.Content)
}

// StructureByName handles GET /by-name/:name/sdf3d.
func (h *MoleculeHandler) StructureByName(c *gin.Context) {
	f, err := h.structures.ByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	attachment(c, f.Filename)
	c.Data(http.StatusOK, f.ContentType, f.Content)
}

// StructureByCID handles GET /cid/:cid/sdf3d.
func (h *MoleculeHandler) StructureByCID(c *gin.Context) {
	cid, err := domain.ParseCID(c.Param("cid"))
	if err != nil {
		writeError(c, err)
		return
	}
	f, err := h.structures.ByCID(c.Request.Context(), cid)
	if err != nil {
		writeError(c, err)
		return
	}
	attachment(c, f.Filename)
	c.Data(http.StatusOK, f.ContentType, f.Content)
}

// Mapping handles GET /compound-mapping/:name.
func (h *MoleculeHandler) Mapping(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		writeError(c, errors.New(errors.ErrCodeMoleculeInvalidName, "name is required"))
		return
	}
	m := h.resolver.Mapping(name)
	c.JSON(http.StatusOK, dto.MappingResponse{
		OriginalName: m.OriginalName,
		MappedName:   m.MappedName,
		Mapped:       m.Mapped,
	})
}

// Health handles GET /healthz under the molecule group.
func (h *MoleculeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true})
}

//Personal.AI order the ending
