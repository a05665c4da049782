// Package chemdb talks to the public chemistry services used for name
// resolution and 3D structure retrieval: PubChem PUG REST, OPSIN and the NCI
// Chemical Identifier Resolver.  Every call is a single attempt; failures are
// reported as SRC_* AppErrors carrying the upstream status.
package chemdb

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/axiomgfx-dili/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/axiomgfx-dili/pkg/errors"
)

// Provider names, also used as metric labels and AppError.Provider.
const (
	ProviderPubChem = "pubchem"
	ProviderOPSIN   = "opsin"
	ProviderCIR     = "cir"
)

// Options configures one upstream client.
type Options struct {
	BaseURL string
	// Timeout 0 leaves the HTTP client default in place; the caller's
	// context still applies.
	Timeout   time.Duration
	UserAgent string
	Debug     bool
	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	// HTTPClient replaces the underlying transport, mainly for tests.
	HTTPClient *http.Client
}

type baseClient struct {
	provider string
	rc       *resty.Client
	log      logging.Logger
	metrics  *prometheus.AppMetrics
}

func newBaseClient(provider string, opts Options) *baseClient {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetDebug(opts.Debug).
		SetRetryCount(0)
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	log := opts.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &baseClient{
		provider: provider,
		rc:       rc,
		log:      log.Named("chemdb").With(logging.String("provider", provider)),
		metrics:  opts.Metrics,
	}
}

// request is one GET against the provider.
type request struct {
	op         string
	path       string
	pathParams map[string]string
	query      map[string]string
	accept     string
}

// get performs r and returns the response only when it is 2xx.  Transport
// failures come back with UpstreamStatus 0.
func (b *baseClient) get(ctx context.Context, r request) (*resty.Response, error) {
	req := b.rc.R().SetContext(ctx)
	if len(r.pathParams) > 0 {
		req.SetPathParams(r.pathParams)
	}
	if len(r.query) > 0 {
		req.SetQueryParams(r.query)
	}
	if r.accept != "" {
		req.SetHeader("Accept", r.accept)
	}

	start := time.Now()
	resp, err := req.Get(r.path)
	elapsed := time.Since(start)

	status := 0
	if resp != nil && err == nil {
		status = resp.StatusCode()
	}
	prometheus.RecordUpstreamCall(b.metrics, b.provider, r.op, status, elapsed)

	if err != nil {
		b.log.Debug("upstream request failed",
			logging.String("op", r.op),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))
		return nil, errors.Upstream(b.provider, 0, err).WithDetail(r.op)
	}

	b.log.Debug("upstream response",
		logging.String("op", r.op),
		logging.String("url", resp.Request.URL),
		logging.Int("status", status),
		logging.Duration("elapsed", elapsed))

	if !resp.IsSuccess() {
		return nil, errors.Upstream(b.provider, status, nil).WithDetail(r.op)
	}
	return resp, nil
}

// decodeJSON unmarshals a 2xx body into v.
func (b *baseClient) decodeJSON(resp *resty.Response, op string, v interface{}) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return b.fail(errors.ErrCodeDataSourceParseError, "response is not valid JSON", op, err)
	}
	return nil
}

// fail builds a provider-attributed AppError for a response that arrived but
// was unusable.
func (b *baseClient) fail(code errors.ErrorCode, msg, op string, cause error) *errors.AppError {
	e := errors.New(code, b.provider+" "+msg).WithDetail(op)
	e.Cause = cause
	e.Provider = b.provider
	return e
}

//Personal.AI order the ending
