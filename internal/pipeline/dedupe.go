package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/internal/model"
)

// DedupeBatch collapses a batch to one lead per company LinkedIn URL,
// keeping the first occurrence. Leads without a URL cannot be keyed;
// they are counted as excluded, not as duplicates, and logged.
func DedupeBatch(leads []model.Lead) (kept []model.Lead, dupes, excluded int) {
	seen := make(map[string]struct{}, len(leads))
	kept = make([]model.Lead, 0, len(leads))

	for _, l := range leads {
		if l.CompanyLinkedInURL == "" {
			excluded++
			zap.L().Warn("dedupe: lead without company linkedin url",
				zap.String("company", l.CompanyName),
			)
			continue
		}
		if _, ok := seen[l.CompanyLinkedInURL]; ok {
			dupes++
			continue
		}
		seen[l.CompanyLinkedInURL] = struct{}{}
		l.Lifecycle = model.LifecycleDeduped
		kept = append(kept, l)
	}
	return kept, dupes, excluded
}

// StoreDeduper suppresses leads already present in the persisted lead
// store. Keys are loaded once per run; survivors are added to the
// in-memory sets so duplicates within the same run are also caught.
type StoreDeduper struct {
	store leadstore.Store

	keys      map[string]struct{}
	companies map[string]struct{}
}

func NewStoreDeduper(store leadstore.Store) *StoreDeduper {
	return &StoreDeduper{store: store}
}

// Load reads existing leads and builds the suppression sets. A read
// failure does not abort the run: degraded is returned true and the
// deduper suppresses nothing.
func (d *StoreDeduper) Load(ctx context.Context) (degraded bool) {
	d.keys = make(map[string]struct{})
	d.companies = make(map[string]struct{})

	if d.store == nil {
		return false
	}

	existing, err := d.store.ReadExisting(ctx)
	if err != nil {
		zap.L().Warn("dedupe: store read failed, suppression disabled",
			zap.Error(err),
		)
		return true
	}

	for _, e := range existing {
		if key := model.StoreKey(e.Email, e.CompanyName); key != "" {
			d.keys[key] = struct{}{}
		}
		if e.CompanyName != "" {
			d.companies[strings.ToLower(e.CompanyName)] = struct{}{}
		}
	}
	return false
}

// Filter drops leads whose composite key, or failing that company
// name, is already known. Survivors are registered immediately.
func (d *StoreDeduper) Filter(leads []model.Lead) (kept []model.Lead, dupes int) {
	kept = make([]model.Lead, 0, len(leads))

	for _, l := range leads {
		if d.known(l) {
			dupes++
			zap.L().Debug("dedupe: suppressed by store",
				zap.String("company", l.CompanyNameCanonical),
			)
			continue
		}
		d.register(l)
		kept = append(kept, l)
	}
	return kept, dupes
}

func (d *StoreDeduper) known(l model.Lead) bool {
	if key := l.StoreKey(); key != "" {
		_, ok := d.keys[key]
		return ok
	}
	if l.CompanyNameCanonical == "" {
		return false
	}
	_, ok := d.companies[strings.ToLower(l.CompanyNameCanonical)]
	return ok
}

func (d *StoreDeduper) register(l model.Lead) {
	if key := l.StoreKey(); key != "" {
		d.keys[key] = struct{}{}
	}
	if l.CompanyNameCanonical != "" {
		d.companies[strings.ToLower(l.CompanyNameCanonical)] = struct{}{}
	}
}
