package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/internal/intercom"
	"github.com/spec-kit/sms-bridge/internal/phone"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

// Lookup resolves phone numbers and ids to directory records. Phone search is
// a linear scan over the full remote directory; the directory is small
// relative to query volume in the target deployment, so the scan is the
// accepted cost (scaling limitation, not a bug).
type Lookup struct {
	api    intercom.DirectoryAPI
	phones *phone.Formatter
}

// NewLookup constructs a Lookup over the provider's directory surface.
func NewLookup(api intercom.DirectoryAPI, phones *phone.Formatter) *Lookup {
	return &Lookup{api: api, phones: phones}
}

// FindByPhone scans the directory for a record whose normalized phone equals
// the normalized target. Records without an email are provisional and are
// skipped unless allowProvisional is set. First match in page order wins.
// Returns NOT_FOUND when every page is exhausted without a match.
func (l *Lookup) FindByPhone(ctx context.Context, rawPhone string, allowProvisional bool) (*domain.Contact, error) {
	target, err := l.phones.Normalize(rawPhone)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return nil, util.NewValidationError("phone required", nil)
	}

	cursor := ""
	for {
		page, err := l.api.ListContacts(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for i := range page.Contacts {
			candidate := &page.Contacts[i]
			if !allowProvisional && candidate.Provisional() {
				continue
			}
			// Unparsable directory phones are non-matches, never errors.
			normalized, err := l.phones.Normalize(candidate.Phone)
			if err != nil || normalized == "" {
				continue
			}
			if normalized == target {
				return candidate, nil
			}
		}
		if page.NextCursor == "" {
			return nil, util.NewNotFound("contact", map[string]any{"phone": target})
		}
		cursor = page.NextCursor
	}
}

// FindByID fetches a single directory record.
func (l *Lookup) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	return l.api.GetContact(ctx, id)
}

// FindOrCreateByPhone resolves a phone to a contact with a three-tier
// fallback: a registered contact first, then an existing provisional record,
// and only then a freshly minted provisional contact. A phone that already has
// any record never gets a duplicate. The returned flag reports whether a new
// record was created.
func (l *Lookup) FindOrCreateByPhone(ctx context.Context, rawPhone string) (*domain.Contact, bool, error) {
	contact, err := l.FindByPhone(ctx, rawPhone, false)
	if err == nil {
		return contact, false, nil
	}
	if !util.IsNotFound(err) {
		return nil, false, err
	}

	contact, err = l.FindByPhone(ctx, rawPhone, true)
	if err == nil {
		return contact, false, nil
	}
	if !util.IsNotFound(err) {
		return nil, false, err
	}

	normalized, err := l.phones.Normalize(rawPhone)
	if err != nil {
		return nil, false, err
	}
	created, err := l.api.CreateContact(ctx, intercom.CreateContactParams{
		Phone:      normalized,
		ExternalID: newExternalID(),
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// newExternalID seeds a provisional contact with a unique external id so the
// provider never merges two distinct phone-only records.
func newExternalID() string {
	return fmt.Sprintf("sms-%d-%s", time.Now().Unix(), uuid.NewString())
}
