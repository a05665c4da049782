package molecule

import (
	"context"

	domain "github.com/turtacn/axiomgfx-dili/internal/domain/molecule"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// CIDStructureSource serves 3D records by PubChem id.
type CIDStructureSource interface {
	Fetch3DSDF(ctx context.Context, cid int64) ([]byte, error)
}

// SMILESStructureSource generates structure files from SMILES.  The
// implementation owns its primary/alternate endpoint policy.
type SMILESStructureSource interface {
	StructureFile(ctx context.Context, smiles string, get3d bool) ([]byte, error)
}

// Structure fetch routes, used as metric labels.
const (
	RouteProxyCID    = "proxy_cid"
	RouteProxySMILES = "proxy_smiles"
	RouteByName      = "by_name"
	RouteByCID       = "by_cid"
)

// StructureService proxies structure files.  Nothing is cached; every call
// goes upstream.
type StructureService struct {
	byCID    CIDStructureSource
	bySMILES SMILESStructureSource
	resolver *Resolver
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// NewStructureService wires the sources.  resolver is needed only for
// ByName.
func NewStructureService(byCID CIDStructureSource, bySMILES SMILESStructureSource, resolver *Resolver,
	logger logging.Logger, metrics *prometheus.AppMetrics) *StructureService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &StructureService{
		byCID:    byCID,
		bySMILES: bySMILES,
		resolver: resolver,
		logger:   logger.Named("structure"),
		metrics:  metrics,
	}
}

// Fetch retrieves the file ref points at.
func (s *StructureService) Fetch(ctx context.Context, ref domain.StructureRef) (*domain.StructureFile, error) {
	route := RouteProxySMILES
	if ref.Kind == domain.StructureByCID {
		route = RouteProxyCID
	}
	return s.fetch(ctx, route, ref)
}

// ByCID downloads the PubChem 3D record as compound_{cid}.sdf.
func (s *StructureService) ByCID(ctx context.Context, cid int64) (*domain.StructureFile, error) {
	f, err := s.fetch(ctx, RouteByCID, *domain.RefByCID(cid))
	if err != nil {
		return nil, err
	}
	f.Filename = domain.CIDAttachmentName(cid)
	return f, nil
}

// ByName resolves name and downloads its structure as {name}.sdf.  A name
// that only reached the placeholder has no structure.
func (s *StructureService) ByName(ctx context.Context, name string) (*domain.StructureFile, error) {
	if s.resolver == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "name resolution is not configured")
	}
	id, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if id.IsPlaceholder() || id.Structure == nil {
		prometheus.RecordStructureFetch(s.metrics, RouteByName, prometheus.OutcomeMiss, 0)
		return nil, errors.New(errors.ErrCodeStructureUnavailable, "3D structure not available").
			WithDetail(id.DisplayName)
	}
	f, err := s.fetch(ctx, RouteByName, *id.Structure)
	if err != nil {
		return nil, err
	}
	f.Filename = domain.AttachmentName(id.DisplayName)
	return f, nil
}

func (s *StructureService) fetch(ctx context.Context, route string, ref domain.StructureRef) (*domain.StructureFile, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var (
		body     []byte
		err      error
		upstream string
	)
	switch ref.Kind {
	case domain.StructureByCID:
		upstream = string(domain.SourcePubChem)
		body, err = s.byCID.Fetch3DSDF(ctx, ref.CID)
	default:
		upstream = string(domain.SourceCIR)
		body, err = s.bySMILES.StructureFile(ctx, ref.SMILES, ref.Get3D)
	}
	if err != nil {
		prometheus.RecordStructureFetch(s.metrics, route, prometheus.OutcomeError, 0)
		s.logger.Warn("structure fetch failed",
			logging.String("route", route),
			logging.String("kind", string(ref.Kind)),
			logging.Int("status", errors.HTTPStatus(err)),
			logging.Err(err))
		return nil, err
	}

	prometheus.RecordStructureFetch(s.metrics, route, prometheus.OutcomeHit, len(body))
	fields := []logging.Field{
		logging.String("route", route),
		logging.String("upstream", upstream),
		logging.Int("bytes", len(body)),
	}
	if h, herr := domain.ParseSDFHeader(body); herr == nil {
		fields = append(fields,
			logging.Int("atoms", h.Atoms),
			logging.Int("bonds", h.Bonds),
			logging.Bool("coords_3d", h.Is3D()))
	}
	s.logger.Debug("structure fetched", fields...)
	return &domain.StructureFile{
		Content:     body,
		ContentType: domain.SDFContentType,
		Upstream:    upstream,
	}, nil
}

//Personal.AI order the ending
