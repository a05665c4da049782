package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeCompound is what the fake PubChem knows about one name.
type FakeCompound struct {
	CID              int64
	SMILES           string
	InChI            string
	InChIKey         string
	MolecularFormula string
	MolecularWeight  float64
}

// FakeChem serves the PubChem, OPSIN and CIR routes the service uses from
// one httptest server.  Unknown names get 404.  It is safe for concurrent
// requests.
type FakeChem struct {
	Server *httptest.Server

	mu          sync.Mutex
	pubchem     map[string]FakeCompound
	opsin       map[string]string
	cir         map[string]string
	sdfByCID    map[int64]string
	sdfBySMILES map[string]string
	down        map[string]int
	failPrimary bool
	calls       []string
}

// NewFakeChem starts a server that is closed with the test.
func NewFakeChem(t testing.TB) *FakeChem {
	t.Helper()
	f := StartFakeChem()
	t.Cleanup(f.Close)
	return f
}

// StartFakeChem starts a server the caller must Close.  For TestMain, where
// there is no testing.TB.
func StartFakeChem() *FakeChem {
	f := &FakeChem{
		pubchem:     map[string]FakeCompound{},
		opsin:       map[string]string{},
		cir:         map[string]string{},
		sdfByCID:    map[int64]string{},
		sdfBySMILES: map[string]string{},
		down:        map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// Close stops the server.
func (f *FakeChem) Close() { f.Server.Close() }

// URL is the base URL for every provider.
func (f *FakeChem) URL() string { return f.Server.URL }

func (f *FakeChem) AddPubChem(name string, c FakeCompound) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pubchem[name] = c
}

func (f *FakeChem) AddOPSIN(name, smiles string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opsin[name] = smiles
}

func (f *FakeChem) AddCIR(name, smiles string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cir[name] = smiles
}

func (f *FakeChem) AddSDFForCID(cid int64, sdf string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sdfByCID[cid] = sdf
}

func (f *FakeChem) AddSDFForSMILES(smiles, sdf string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sdfBySMILES[smiles] = sdf
}

// SetDown makes every route of provider ("pubchem", "opsin", "cir") answer
// status.  Zero restores it.
func (f *FakeChem) SetDown(provider string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.down, provider)
		return
	}
	f.down[provider] = status
}

// FailCIRPrimary makes the CIR file endpoint answer 500 so the alternate
// route is exercised.
func (f *FakeChem) FailCIRPrimary(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPrimary = fail
}

// Calls lists "provider:op" for every request served, in arrival order.
func (f *FakeChem) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CountCalls counts requests whose "provider:op" label has prefix.
func (f *FakeChem) CountCalls(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func segments(r *http.Request) []string {
	raw := strings.Split(strings.Trim(r.URL.EscapedPath(), "/"), "/")
	out := make([]string, len(raw))
	for i, s := range raw {
		if u, err := url.PathUnescape(s); err == nil {
			out[i] = u
		} else {
			out[i] = s
		}
	}
	return out
}

func (f *FakeChem) record(label string) (downStatus int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, label)
	return f.down[strings.SplitN(label, ":", 2)[0]]
}

func (f *FakeChem) serve(w http.ResponseWriter, r *http.Request) {
	seg := segments(r)
	switch {
	case len(seg) >= 4 && seg[0] == "rest" && seg[1] == "pug" && seg[2] == "compound":
		f.servePubChem(w, r, seg[3:])
	case len(seg) == 2 && seg[0] == "opsin" && strings.HasSuffix(seg[1], ".json"):
		f.serveOPSIN(w, strings.TrimSuffix(seg[1], ".json"))
	case len(seg) == 4 && seg[0] == "chemical" && seg[1] == "structure":
		f.serveCIR(w, r, seg[2], seg[3])
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeChem) servePubChem(w http.ResponseWriter, r *http.Request, seg []string) {
	switch {
	case len(seg) == 4 && seg[0] == "name" && seg[2] == "cids":
		if st := f.record("pubchem:cids"); st != 0 {
			w.WriteHeader(st)
			return
		}
		c, ok := f.lookupPubChemByName(seg[1])
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeFakeJSON(w, map[string]any{"IdentifierList": map[string]any{"CID": []int64{c.CID}}})

	case len(seg) == 5 && seg[0] == "cid" && seg[2] == "property":
		if st := f.record("pubchem:properties"); st != 0 {
			w.WriteHeader(st)
			return
		}
		cid, _ := strconv.ParseInt(seg[1], 10, 64)
		c, ok := f.lookupPubChemByCID(cid)
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeFakeJSON(w, map[string]any{"PropertyTable": map[string]any{"Properties": []any{map[string]any{
			"CID":              c.CID,
			"IsomericSMILES":   c.SMILES,
			"InChI":            c.InChI,
			"InChIKey":         c.InChIKey,
			"MolecularFormula": c.MolecularFormula,
			"MolecularWeight":  strconv.FormatFloat(c.MolecularWeight, 'f', -1, 64),
		}}}})

	case len(seg) == 4 && seg[0] == "cid" && seg[2] == "record" && seg[3] == "SDF":
		if st := f.record("pubchem:sdf3d"); st != 0 {
			w.WriteHeader(st)
			return
		}
		cid, _ := strconv.ParseInt(seg[1], 10, 64)
		f.mu.Lock()
		sdf, ok := f.sdfByCID[cid]
		f.mu.Unlock()
		if !ok || r.URL.Query().Get("record_type") != "3d" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "chemical/x-mdl-sdfile")
		_, _ = w.Write([]byte(sdf))

	default:
		http.NotFound(w, r)
	}
}

func (f *FakeChem) lookupPubChemByName(name string) (FakeCompound, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.pubchem[name]
	return c, ok
}

func (f *FakeChem) lookupPubChemByCID(cid int64) (FakeCompound, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.pubchem {
		if c.CID == cid {
			return c, true
		}
	}
	return FakeCompound{}, false
}

func (f *FakeChem) serveOPSIN(w http.ResponseWriter, name string) {
	if st := f.record("opsin:parse"); st != 0 {
		w.WriteHeader(st)
		return
	}
	f.mu.Lock()
	smiles, ok := f.opsin[name]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		writeFakeJSON(w, map[string]any{"status": "FAILURE", "message": name + " is unparsable"})
		return
	}
	writeFakeJSON(w, map[string]any{"status": "SUCCESS", "smiles": smiles})
}

func (f *FakeChem) serveCIR(w http.ResponseWriter, r *http.Request, id, rep string) {
	switch rep {
	case "smiles":
		if st := f.record("cir:smiles"); st != 0 {
			w.WriteHeader(st)
			return
		}
		f.mu.Lock()
		smiles, ok := f.cir[id]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(smiles + "\n"))

	case "file", "sdf":
		label := "cir:sdf_file"
		if rep == "sdf" {
			label = "cir:sdf_alt"
		}
		if st := f.record(label); st != 0 {
			w.WriteHeader(st)
			return
		}
		f.mu.Lock()
		failPrimary := f.failPrimary
		sdf, ok := f.sdfBySMILES[id]
		f.mu.Unlock()
		if rep == "file" && (failPrimary || r.URL.Query().Get("format") != "sdf") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sdf))

	default:
		http.NotFound(w, r)
	}
}

func writeFakeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

//Personal.AI order the ending
