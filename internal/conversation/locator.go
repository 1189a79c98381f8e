package conversation

import (
	"context"

	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/internal/intercom"
)

// TieBreak reports whether a should be preferred over b when both carry the
// exact same updated-at timestamp. The provider does not document a secondary
// order; the default keeps whichever the list returned first.
type TieBreak func(a, b *domain.Conversation) bool

// Locator finds the active SMS conversation for a contact.
type Locator struct {
	api        intercom.ConversationAPI
	classifier *Classifier
	tieBreak   TieBreak
}

// LocatorOption customizes a Locator.
type LocatorOption func(*Locator)

// WithTieBreak overrides the equal-timestamp preference, mainly for tests.
func WithTieBreak(tb TieBreak) LocatorOption {
	return func(l *Locator) { l.tieBreak = tb }
}

// NewLocator constructs a Locator.
func NewLocator(api intercom.ConversationAPI, classifier *Classifier, opts ...LocatorOption) *Locator {
	l := &Locator{
		api:        api,
		classifier: classifier,
		tieBreak:   func(a, b *domain.Conversation) bool { return false },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FindActiveSmsThread returns the most recently updated open SMS conversation
// owned by the contact, or nil when none exists. Every page is walked before
// selecting: the newest thread may sit on a later page, so selection cannot
// short-circuit. Among equal timestamps the tie-break applies; by default the
// earlier list position wins.
func (l *Locator) FindActiveSmsThread(ctx context.Context, contactID string) (*domain.Conversation, error) {
	var candidates []domain.Conversation

	cursor := ""
	for {
		page, err := l.api.ListConversations(ctx, contactID, cursor)
		if err != nil {
			return nil, err
		}
		for i := range page.Conversations {
			conv := &page.Conversations[i]
			if conv.ContactID != contactID {
				continue
			}
			if !l.classifier.IsSmsThread(conv) {
				continue
			}
			candidates = append(candidates, *conv)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		current := &candidates[i]
		if current.UpdatedAt.After(best.UpdatedAt) {
			best = current
			continue
		}
		if current.UpdatedAt.Equal(best.UpdatedAt) && l.tieBreak(current, best) {
			best = current
		}
	}
	return best, nil
}
