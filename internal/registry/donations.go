package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/CrowdChain-Network/registry_layer/internal/metrics"
)

// Recorder appends donation records to a campaign and lists its supporters.
type Recorder struct {
	ledger Ledger
	cache  *Cache
	log    *logrus.Entry
}

// NewRecorder creates a donation recorder over the given ledger and cache.
func NewRecorder(ledger Ledger, cache *Cache, log *logrus.Entry) *Recorder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Recorder{
		ledger: ledger,
		cache:  cache,
		log:    log.WithField("component", "donations"),
	}
}

// Donate issues a value-bearing write for the given campaign. The amount must
// be positive; a non-positive amount fails before any remote call. One cache
// refresh is forced after confirmation; a refresh failure is returned
// alongside the receipt.
func (r *Recorder) Donate(ctx context.Context, id int64, amount *big.Int) (*Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: donation amount must be positive", ErrInvalidArgument)
	}

	receipt, err := r.ledger.DonateToCampaign(ctx, id, amount)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues("donate", "failure").Inc()
		return nil, classifyWriteErr("donate", err)
	}
	metrics.LedgerWrites.WithLabelValues("donate", "success").Inc()
	r.log.WithFields(logrus.Fields{"campaign": id, "amount": amount.String(), "tx": receipt.TxHash}).
		Info("donation recorded")

	if _, err := r.cache.Refresh(ctx); err != nil {
		r.log.WithError(err).Warn("post-donation refresh failed; cache is stale until next TTL expiry")
		return receipt, fmt.Errorf("donation confirmed (tx %s) but refresh failed: %w", receipt.TxHash, err)
	}
	return receipt, nil
}

// ListDonations returns the campaign's donation records in submission order.
// The ledger returns parallel donor and amount sequences which are zipped
// positionally. A campaign with no donations yields an empty slice, not an
// error.
func (r *Recorder) ListDonations(ctx context.Context, id int64) ([]Donation, error) {
	donators, amounts, err := r.ledger.GetDonators(ctx, id)
	if err != nil {
		return nil, remoteReadErr("get donators", err)
	}

	n := len(donators)
	if len(amounts) < n {
		n = len(amounts)
	}
	donations := make([]Donation, 0, n)
	for i := 0; i < n; i++ {
		donations = append(donations, Donation{Donator: donators[i], Amount: amounts[i]})
	}
	return donations, nil
}
