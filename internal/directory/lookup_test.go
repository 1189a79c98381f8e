package directory

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/internal/intercom"
	"github.com/spec-kit/sms-bridge/internal/phone"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

// fakeDirectoryAPI pages through a fixed contact list and records creations.
type fakeDirectoryAPI struct {
	contacts []domain.Contact
	pageSize int
	created  []intercom.CreateContactParams
	listed   int
}

func (f *fakeDirectoryAPI) ListContacts(ctx context.Context, cursor string) (*intercom.ContactPage, error) {
	f.listed++
	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	size := f.pageSize
	if size <= 0 {
		size = 2
	}
	end := start + size
	if end > len(f.contacts) {
		end = len(f.contacts)
	}
	page := &intercom.ContactPage{Contacts: f.contacts[start:end]}
	if end < len(f.contacts) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeDirectoryAPI) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			return &f.contacts[i], nil
		}
	}
	return nil, util.NewNotFound("contact", map[string]any{"contact_id": id})
}

func (f *fakeDirectoryAPI) CreateContact(ctx context.Context, params intercom.CreateContactParams) (*domain.Contact, error) {
	f.created = append(f.created, params)
	contact := domain.Contact{
		ID:         "created-" + strconv.Itoa(len(f.created)),
		ExternalID: params.ExternalID,
		Phone:      params.Phone,
	}
	f.contacts = append(f.contacts, contact)
	return &contact, nil
}

func newLookup(api *fakeDirectoryAPI) *Lookup {
	return NewLookup(api, phone.NewFormatter("US"))
}

func TestFindByPhoneMatchesAcrossSpellings(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{
		{ID: "u1", Phone: "+1 555 123 4567", Email: "a@example.com"},
	}}
	lookup := newLookup(api)

	for _, raw := range []string{"555.123.4567", "(555) 123-4567", "5551234567", "+15551234567"} {
		contact, err := lookup.FindByPhone(context.Background(), raw, false)
		require.NoError(t, err, raw)
		assert.Equal(t, "u1", contact.ID)
	}
}

func TestFindByPhonePagesUntilMatch(t *testing.T) {
	api := &fakeDirectoryAPI{
		pageSize: 1,
		contacts: []domain.Contact{
			{ID: "u1", Phone: "555.999.0000", Email: "a@example.com"},
			{ID: "u2", Phone: "bogus", Email: "b@example.com"},
			{ID: "u3", Phone: "555.123.4567", Email: "c@example.com"},
		},
	}
	lookup := newLookup(api)

	contact, err := lookup.FindByPhone(context.Background(), "5551234567", false)
	require.NoError(t, err)
	assert.Equal(t, "u3", contact.ID)
	assert.Equal(t, 3, api.listed)
}

func TestFindByPhoneSkipsProvisional(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{
		{ID: "prov", Phone: "555.123.4567"},
		{ID: "real", Phone: "555.123.4567", Email: "real@example.com"},
	}}
	lookup := newLookup(api)

	contact, err := lookup.FindByPhone(context.Background(), "5551234567", false)
	require.NoError(t, err)
	assert.Equal(t, "real", contact.ID)

	contact, err = lookup.FindByPhone(context.Background(), "5551234567", true)
	require.NoError(t, err)
	assert.Equal(t, "prov", contact.ID)
}

func TestFindByPhoneExhaustedIsNotFound(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{
		{ID: "u1", Phone: "555.999.0000", Email: "a@example.com"},
	}}
	lookup := newLookup(api)

	_, err := lookup.FindByPhone(context.Background(), "5551234567", false)
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}

func TestFindByPhoneInvalidTarget(t *testing.T) {
	lookup := newLookup(&fakeDirectoryAPI{})

	_, err := lookup.FindByPhone(context.Background(), "not-a-phone", false)
	require.Error(t, err)
	assert.True(t, util.IsInvalidPhone(err))
}

func TestFindOrCreatePrefersRealOverProvisional(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{
		{ID: "prov", Phone: "555.123.4567"},
		{ID: "real", Phone: "555.123.4567", Email: "real@example.com"},
	}}
	lookup := newLookup(api)

	contact, created, err := lookup.FindOrCreateByPhone(context.Background(), "555.123.4567")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "real", contact.ID)
	assert.Empty(t, api.created)
}

func TestFindOrCreateFallsBackToProvisional(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{
		{ID: "prov", Phone: "555.123.4567"},
	}}
	lookup := newLookup(api)

	contact, created, err := lookup.FindOrCreateByPhone(context.Background(), "(555) 123-4567")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "prov", contact.ID)
	assert.Empty(t, api.created, "existing provisional record must not be duplicated")
}

func TestFindOrCreateMintsProvisional(t *testing.T) {
	api := &fakeDirectoryAPI{}
	lookup := newLookup(api)

	contact, created, err := lookup.FindOrCreateByPhone(context.Background(), "555.123.4567")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, api.created, 1)
	assert.Equal(t, "(555) 123-4567", api.created[0].Phone)
	assert.NotEmpty(t, api.created[0].ExternalID)
	assert.True(t, contact.Provisional())

	// A second resolution for the same phone finds the minted record.
	again, created, err := lookup.FindOrCreateByPhone(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, contact.ID, again.ID)
	assert.Len(t, api.created, 1)
}

func TestFindByID(t *testing.T) {
	api := &fakeDirectoryAPI{contacts: []domain.Contact{{ID: "u1", Email: "a@example.com"}}}
	lookup := newLookup(api)

	contact, err := lookup.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", contact.ID)

	_, err = lookup.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}
