package registry

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
)

// DefaultImageCheckTimeout bounds the image reachability probe so a hung
// remote resource cannot stall campaign creation indefinitely.
const DefaultImageCheckTimeout = 10 * time.Second

// deadlineLayouts are accepted formats for a human-entered deadline.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Draft is the campaign-creation input supplied by the surrounding UI.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Target      *big.Int `json:"target"`
	// Deadline is a human-entered timestamp, converted to unix seconds
	// before submission.
	Deadline string `json:"deadline"`
	Image    string `json:"image"`
}

// Publisher submits new campaigns to the ledger. Every campaign starts
// Pending on the ledger side.
type Publisher struct {
	ledger       Ledger
	cache        *Cache
	owner        string
	imageClient  *http.Client
	imageTimeout time.Duration
	log          *logrus.Entry
}

// PublisherConfig holds publisher construction parameters.
type PublisherConfig struct {
	Ledger Ledger
	Cache  *Cache
	// Owner is the identity campaigns are created under.
	Owner             string
	ImageCheckTimeout time.Duration
	Logger            *logrus.Entry
}

// NewPublisher creates a campaign publisher.
func NewPublisher(cfg PublisherConfig) *Publisher {
	if cfg.ImageCheckTimeout <= 0 {
		cfg.ImageCheckTimeout = DefaultImageCheckTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Publisher{
		ledger:       cfg.Ledger,
		cache:        cfg.Cache,
		owner:        cfg.Owner,
		imageClient:  &http.Client{Timeout: cfg.ImageCheckTimeout},
		imageTimeout: cfg.ImageCheckTimeout,
		log:          cfg.Logger.WithField("component", "publisher"),
	}
}

// Publish validates the draft, verifies the artwork URL is reachable and
// submits the campaign. One cache refresh is forced after confirmation.
func (p *Publisher) Publish(ctx context.Context, draft Draft) (*Receipt, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
	}
	if draft.Target == nil || draft.Target.Sign() < 0 {
		return nil, fmt.Errorf("%w: target must be a non-negative amount", ErrInvalidArgument)
	}

	deadline, err := ParseDeadline(draft.Deadline)
	if err != nil {
		return nil, err
	}

	if !p.CheckImageReachable(ctx, draft.Image) {
		return nil, fmt.Errorf("%w: image %q is not reachable", ErrInvalidArgument, draft.Image)
	}

	receipt, err := p.ledger.CreateCampaign(ctx, p.owner, draft.Title, draft.Description, draft.Target, deadline, draft.Image)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues("create", "failure").Inc()
		return nil, classifyWriteErr("create campaign", err)
	}
	metrics.LedgerWrites.WithLabelValues("create", "success").Inc()
	p.log.WithFields(logrus.Fields{"title": draft.Title, "tx": receipt.TxHash}).Info("campaign created")

	if _, err := p.cache.Refresh(ctx); err != nil {
		p.log.WithError(err).Warn("post-create refresh failed; cache is stale until next TTL expiry")
		return receipt, fmt.Errorf("create confirmed (tx %s) but refresh failed: %w", receipt.TxHash, err)
	}
	return receipt, nil
}

// CheckImageReachable probes the artwork URL and reports whether it loads.
// The probe is bounded by the configured timeout; content is never verified.
func (p *Publisher) CheckImageReachable(ctx context.Context, url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}

	cctx, cancel := context.WithTimeout(ctx, p.imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := p.imageClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

// ParseDeadline converts a human-entered deadline to unix seconds.
func ParseDeadline(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot parse deadline %q", ErrInvalidArgument, s)
}
