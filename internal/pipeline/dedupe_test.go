package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growthlane/outreach-cli/internal/model"
)

func TestDedupeBatch_FirstWins(t *testing.T) {
	leads := []model.Lead{
		{CompanyName: "Acme", CompanyLinkedInURL: "https://linkedin.com/company/acme", JobTitle: "SDR"},
		{CompanyName: "Acme Again", CompanyLinkedInURL: "https://linkedin.com/company/acme", JobTitle: "AE"},
		{CompanyName: "Globex", CompanyLinkedInURL: "https://linkedin.com/company/globex"},
	}

	kept, dupes, excluded := DedupeBatch(leads)

	assert.Len(t, kept, 2)
	assert.Equal(t, 1, dupes)
	assert.Zero(t, excluded)
	assert.Equal(t, "Acme", kept[0].CompanyName)
	assert.Equal(t, "SDR", kept[0].JobTitle)
	assert.Equal(t, "Globex", kept[1].CompanyName)
	assert.Equal(t, model.LifecycleDeduped, kept[0].Lifecycle)
}

func TestDedupeBatch_EmptyKeyExcluded(t *testing.T) {
	leads := []model.Lead{
		{CompanyName: "No URL Co"},
		{CompanyName: "Acme", CompanyLinkedInURL: "https://linkedin.com/company/acme"},
	}

	kept, dupes, excluded := DedupeBatch(leads)

	assert.Len(t, kept, 1)
	assert.Zero(t, dupes)
	assert.Equal(t, 1, excluded)
	assert.Equal(t, "Acme", kept[0].CompanyName)
}

func TestDedupeBatch_ExclusionsCountedApartFromDuplicates(t *testing.T) {
	leads := []model.Lead{
		{CompanyName: "No URL Co"},
		{CompanyName: "Acme", CompanyLinkedInURL: "https://linkedin.com/company/acme"},
		{CompanyName: "Acme Again", CompanyLinkedInURL: "https://linkedin.com/company/acme"},
		{CompanyName: "Also No URL"},
	}

	kept, dupes, excluded := DedupeBatch(leads)

	assert.Len(t, kept, 1)
	assert.Equal(t, 1, dupes)
	assert.Equal(t, 2, excluded)
}

func TestStoreDeduper_CompositeKey(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("ReadExisting", mock.Anything).Return([]model.ExistingLead{
		{Email: "A@X.com", CompanyName: "Acme"},
	}, nil)

	d := NewStoreDeduper(ls)
	degraded := d.Load(context.Background())
	assert.False(t, degraded)

	leads := []model.Lead{
		// same composite key, case-insensitive
		{Email: "a@x.com", CompanyNameCanonical: "ACME"},
		// same company, different email: composite check does not suppress
		{Email: "b@x.com", CompanyNameCanonical: "Acme"},
		// no email, known company: fallback suppresses
		{CompanyNameCanonical: "Acme"},
		// unknown identity
		{Email: "c@y.com", CompanyNameCanonical: "Globex"},
	}

	kept, dupes := d.Filter(leads)

	assert.Len(t, kept, 2)
	assert.Equal(t, 2, dupes)
	assert.Equal(t, "b@x.com", kept[0].Email)
	assert.Equal(t, "c@y.com", kept[1].Email)
}

func TestStoreDeduper_InRunReconciliation(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("ReadExisting", mock.Anything).Return([]model.ExistingLead{}, nil)

	d := NewStoreDeduper(ls)
	_ = d.Load(context.Background())

	leads := []model.Lead{
		{Email: "a@x.com", CompanyNameCanonical: "Acme", JobTitle: "SDR"},
		{Email: "a@x.com", CompanyNameCanonical: "Acme", JobTitle: "AE"},
	}

	kept, dupes := d.Filter(leads)

	assert.Len(t, kept, 1)
	assert.Equal(t, 1, dupes)
	assert.Equal(t, "SDR", kept[0].JobTitle)
}

func TestStoreDeduper_DegradesOnReadFailure(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("ReadExisting", mock.Anything).Return(nil, eris.New("api unavailable"))

	d := NewStoreDeduper(ls)
	degraded := d.Load(context.Background())
	assert.True(t, degraded)

	leads := []model.Lead{
		{Email: "a@x.com", CompanyNameCanonical: "Acme"},
		{Email: "b@y.com", CompanyNameCanonical: "Globex"},
	}

	kept, dupes := d.Filter(leads)
	assert.Len(t, kept, 2)
	assert.Zero(t, dupes)
}

func TestStoreDeduper_NilStorePassesThrough(t *testing.T) {
	d := NewStoreDeduper(nil)
	degraded := d.Load(context.Background())
	assert.False(t, degraded)

	kept, dupes := d.Filter([]model.Lead{{CompanyNameCanonical: "Acme"}})
	assert.Len(t, kept, 1)
	assert.Zero(t, dupes)
}

func TestStoreKey(t *testing.T) {
	assert.Equal(t, "a@x.com_acme", model.StoreKey("A@X.com", "Acme"))
	assert.Empty(t, model.StoreKey("", "Acme"))
	assert.Empty(t, model.StoreKey("a@x.com", ""))
}
