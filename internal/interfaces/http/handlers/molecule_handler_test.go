package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmol "github.com/turtacn/axiomgfx-dili/internal/application/molecule"
	domain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/chemdb"
	"github.com/turtacn/axiomgfx-dili/internal/interfaces/http/handlers"
	"github.com/turtacn/axiomgfx-dili/internal/testutil"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
	dto "github.com/turtacn/axiomgfx-dili/pkg/types/molecule"
)

func init() { gin.SetMode(gin.TestMode) }

func newMoleculeRouter(t *testing.T, fake *testutil.FakeChem) *gin.Engine {
	t.Helper()
	opts := chemdb.Options{BaseURL: fake.URL()}
	pc, op, cir := chemdb.NewPubChem(opts), chemdb.NewOPSIN(opts), chemdb.NewCIR(opts)

	res, err := appmol.NewResolver(domain.DefaultCatalog(), []domain.Step{pc, op, cir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	svc := appmol.NewStructureService(pc, cir, res, nil, nil)
	h := handlers.NewMoleculeHandler(res, svc, nil)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/molecule"))
	return r
}

func serve(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func resolve(t *testing.T, r http.Handler, name string) (*httptest.ResponseRecorder, dto.ResolveResponse) {
	t.Helper()
	body, _ := json.Marshal(dto.ResolveRequest{Name: name})
	w := serve(r, http.MethodPost, "/api/molecule/resolve", body)
	var out dto.ResolveResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var e common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// ─────────────────────────────────────────────────────────────────────────────
// Resolve
// ─────────────────────────────────────────────────────────────────────────────

func TestResolve_CatalogIgnoresUpstreamOutage(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	for _, p := range []string{"pubchem", "opsin", "cir"} {
		fake.SetDown(p, http.StatusServiceUnavailable)
	}
	r := newMoleculeRouter(t, fake)

	w, out := resolve(t, r, "Metformin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SourceCatalog, out.Source)
	assert.Equal(t, int64(4091), out.CID)
	assert.Equal(t, "/api/molecule/sdf?cid=4091", out.SDF3DURL)
	assert.Empty(t, fake.Calls())
}

func TestResolve_PubChemFullIdentity(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddPubChem("caffeine", testutil.FakeCompound{
		CID:              2519,
		SMILES:           "CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
		InChI:            "InChI=1S/C8H10N4O2/c1-10-4-9-6-5(10)7(13)12(3)8(14)11(6)2/h4H,1-3H3",
		InChIKey:         "RYYVLZVUVIJVGH-UHFFFAOYSA-N",
		MolecularFormula: "C8H10N4O2",
		MolecularWeight:  194.19,
	})
	r := newMoleculeRouter(t, fake)

	w, out := resolve(t, r, "Caffeine")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SourcePubChem, out.Source)
	assert.Equal(t, "Caffeine", out.Name)
	assert.Equal(t, "caffeine", out.NormalizedName)
	assert.Equal(t, int64(2519), out.CID)
	assert.NotEmpty(t, out.SMILES)
	assert.NotEmpty(t, out.InChI)
	assert.Equal(t, "C8H10N4O2", out.MolecularFormula)
	assert.InDelta(t, 194.19, out.MolecularWeight, 1e-9)
	assert.Equal(t, "RYYVLZVUVIJVGH-UHFFFAOYSA-N", out.InChIKey)
}

func TestResolve_PubChemInChIOnlyStaysPubChem(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddPubChem("methane", testutil.FakeCompound{
		CID:              297,
		InChI:            "InChI=1S/CH4/h1H4",
		MolecularFormula: "CH4",
		MolecularWeight:  16.04,
	})
	fake.AddOPSIN("methane", "C")
	r := newMoleculeRouter(t, fake)

	w, out := resolve(t, r, "Methane")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SourcePubChem, out.Source)
	assert.Equal(t, int64(297), out.CID)
	assert.Empty(t, out.SMILES)
	assert.Equal(t, "InChI=1S/CH4/h1H4", out.InChI)
	assert.Equal(t, "/api/molecule/sdf?cid=297", out.SDF3DURL)
	assert.Zero(t, fake.CountCalls("opsin"))
}

func TestResolve_OPSINAfterPubChemFailure(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.SetDown("pubchem", http.StatusInternalServerError)
	fake.AddOPSIN("paracetamol", "CC(=O)NC1=CC=C(O)C=C1")
	r := newMoleculeRouter(t, fake)

	w, out := resolve(t, r, "Paracetamol")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SourceOPSIN, out.Source)
	assert.Equal(t, "CC(=O)NC1=CC=C(O)C=C1", out.SMILES)
	assert.Zero(t, out.CID)
	assert.Empty(t, out.InChI)
	assert.Empty(t, out.MolecularFormula)
	assert.True(t, strings.HasPrefix(out.SDF3DURL, "/api/molecule/sdf?"))
}

func TestResolve_AllProvidersFailYieldsPlaceholder(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	r := newMoleculeRouter(t, fake)

	w, out := resolve(t, r, "Unobtainium")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, out.IsPlaceholder())
	assert.Equal(t, "CCO", out.SMILES)
	assert.Equal(t, "/api/molecule/sdf?get3d=true&smiles=CCO", out.SDF3DURL)
}

func TestResolve_Idempotent(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddCIR("thalidomide", "O=C1CCC(N2C(=O)C3=CC=CC=C3C2=O)C(=O)N1")
	r := newMoleculeRouter(t, fake)

	_, first := resolve(t, r, "Thalidomide")
	_, second := resolve(t, r, "Thalidomide")
	assert.Equal(t, dto.SourceCIR, first.Source)
	assert.Equal(t, first, second)
}

func TestResolve_BadRequests(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodPost, "/api/molecule/resolve", []byte(`{"name":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "COMMON_002", decodeError(t, w).Code)

	w = serve(r, http.MethodPost, "/api/molecule/resolve", []byte(`{"name":"   "}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MOL_002", decodeError(t, w).Code)
}

func TestResolveBatch_PreservesOrder(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddOPSIN("paracetamol", "CC(=O)NC1=CC=C(O)C=C1")
	r := newMoleculeRouter(t, fake)

	body := []byte(`{"names":["Aspirin","Paracetamol","Unobtainium","Metformin"]}`)
	w := serve(r, http.MethodPost, "/api/molecule/resolve/batch", body)
	require.Equal(t, http.StatusOK, w.Code)

	var out dto.BatchResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Results, 4)
	got := []string{out.Results[0].Source, out.Results[1].Source, out.Results[2].Source, out.Results[3].Source}
	assert.Equal(t, []string{"catalog", "opsin", "placeholder", "catalog"}, got)
	assert.Equal(t, "Paracetamol", out.Results[1].Name)
}

func TestResolveBatch_Rejections(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodPost, "/api/molecule/resolve/batch", []byte(`{"names":[]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	names := make([]string, appmol.DefaultBatchMaxNames+1)
	for i := range names {
		names[i] = "Aspirin"
	}
	body, _ := json.Marshal(dto.BatchResolveRequest{Names: names})
	w = serve(r, http.MethodPost, "/api/molecule/resolve/batch", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MOL_007", decodeError(t, w).Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Structure proxy
// ─────────────────────────────────────────────────────────────────────────────

func assertProxyCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestStructureProxy_ByCID(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddSDFForCID(4091, "mock-sdf-content")
	r := newMoleculeRouter(t, fake)

	w := serve(r, http.MethodGet, "/api/molecule/sdf?cid=4091", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mock-sdf-content", w.Body.String())
	assert.Equal(t, dto.SDFContentType, w.Header().Get("Content-Type"))
	assertProxyCORS(t, w)
}

func TestStructureProxy_SMILESAlternateRoute(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddSDFForSMILES("CCO", "ethanol-sdf")
	fake.FailCIRPrimary(true)
	r := newMoleculeRouter(t, fake)

	w := serve(r, http.MethodGet, "/api/molecule/sdf?smiles=CCO&get3d=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ethanol-sdf", w.Body.String())
	assert.Equal(t, 1, fake.CountCalls("cir:sdf_file"))
	assert.Equal(t, 1, fake.CountCalls("cir:sdf_alt"))
}

func TestStructureProxy_ParameterErrors(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	for _, target := range []string{
		"/api/molecule/sdf",
		"/api/molecule/sdf?cid=1&smiles=CCO",
		"/api/molecule/sdf?cid=0",
		"/api/molecule/sdf?cid=abc",
	} {
		w := serve(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.NotEmpty(t, decodeError(t, w).Error, target)
		assertProxyCORS(t, w)
	}
}

func TestStructureProxy_UpstreamStatusPassesThrough(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodGet, "/api/molecule/sdf?cid=999999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.NotEmpty(t, e.Error)
	assert.Equal(t, "SRC_003", e.Code)
}

func TestStructureProxy_Options(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodOptions, "/api/molecule/sdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assertProxyCORS(t, w)
}

func TestStructureByName_Download(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddSDFForCID(2244, "aspirin-sdf")
	r := newMoleculeRouter(t, fake)

	w := serve(r, http.MethodGet, "/api/molecule/by-name/Aspirin/sdf3d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "aspirin-sdf", w.Body.String())
	assert.Equal(t, `attachment; filename="Aspirin.sdf"`, w.Header().Get("Content-Disposition"))
}

func TestStructureByName_PlaceholderIs404(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodGet, "/api/molecule/by-name/Unobtainium/sdf3d", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MOL_005", decodeError(t, w).Code)
}

func TestStructureByCID_Download(t *testing.T) {
	fake := testutil.NewFakeChem(t)
	fake.AddSDFForCID(3672, "ibuprofen-sdf")
	r := newMoleculeRouter(t, fake)

	w := serve(r, http.MethodGet, "/api/molecule/cid/3672/sdf3d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="compound_3672.sdf"`, w.Header().Get("Content-Disposition"))

	w = serve(r, http.MethodGet, "/api/molecule/cid/-4/sdf3d", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Mapping and health
// ─────────────────────────────────────────────────────────────────────────────

func TestMapping(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))

	w := serve(r, http.MethodGet, "/api/molecule/compound-mapping/Valproic%20Acid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var m dto.MappingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, dto.MappingResponse{OriginalName: "Valproic Acid", MappedName: "valproic acid", Mapped: true}, m)

	w = serve(r, http.MethodGet, "/api/molecule/compound-mapping/Caffeine", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.False(t, m.Mapped)
	assert.Equal(t, "caffeine", m.MappedName)
}

func TestMoleculeHealth(t *testing.T) {
	r := newMoleculeRouter(t, testutil.NewFakeChem(t))
	w := serve(r, http.MethodGet, "/api/molecule/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

//Personal.AI order the ending
