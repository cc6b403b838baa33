package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dom/account-store/internal/domain"
)

var (
	ErrNilAccount      = errors.New("account is nil")
	ErrRosterNotArray  = errors.New("roster document is not an array")
	ErrResourcesFormat = errors.New("resources document is not an array")
	ErrUnknownStatus   = domain.ErrInvalidAccountStatus
	ErrNegativePrice   = domain.ErrNegativePrice
)

// Account is a stored listing whose roster and resources documents have been
// decoded and validated. Everything downstream of the repository works on
// this type instead of the raw JSON.
type Account struct {
	*domain.Account

	Roster    []domain.RosterHero
	Resources []domain.Resource

	counts Multiset
}

// HeroCounts is the multiset of hero identifiers in the roster.
func (a *Account) HeroCounts() Multiset {
	return a.counts
}

type rosterEntry struct {
	ID      string          `json:"id"`
	NameEn  string          `json:"nameEn"`
	NameRu  string          `json:"nameRu"`
	Icon    string          `json:"icon"`
	Type    domain.HeroType `json:"type"`
	GameID  string          `json:"gameId"`
	Rarity  *int            `json:"rarity"`
	Element *string         `json:"element"`
}

type resourceEntry struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

// ParseAccount decodes the roster and resources of a stored account.
// An unknown status, a negative price or a document that is not a JSON
// array rejects the whole account. Inside an array, entries that are
// malformed, lack an identifier or belong to a different game are dropped.
func ParseAccount(raw *domain.Account) (*Account, error) {
	if raw == nil {
		return nil, ErrNilAccount
	}
	if !raw.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, raw.Status)
	}
	if raw.Price.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativePrice, raw.Price)
	}

	roster, err := parseRoster(raw)
	if err != nil {
		return nil, err
	}
	resources, err := parseResources(raw.Resources)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(roster))
	for i, h := range roster {
		ids[i] = h.ID
	}

	return &Account{
		Account:   raw,
		Roster:    roster,
		Resources: resources,
		counts:    BuildMultiset(ids),
	}, nil
}

// ParseAccounts parses every account and skips the ones that fail.
func ParseAccounts(raw []*domain.Account) []*Account {
	out := make([]*Account, 0, len(raw))
	for _, r := range raw {
		a, err := ParseAccount(r)
		if err != nil {
			id := "<nil>"
			if r != nil {
				id = r.ID.String()
			}
			log.Printf("WARN [catalog.ParseAccounts] accountID=%s: %v", id, err)
			continue
		}
		out = append(out, a)
	}
	return out
}

func parseRoster(raw *domain.Account) ([]domain.RosterHero, error) {
	entries, err := splitArray(raw.Heroes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterNotArray, err)
	}

	gameID := raw.GameID.String()
	roster := make([]domain.RosterHero, 0, len(entries))
	for _, e := range entries {
		var entry rosterEntry
		if err := json.Unmarshal(e, &entry); err != nil {
			continue
		}
		if entry.ID == "" {
			continue
		}
		if entry.GameID != "" && entry.GameID != gameID {
			continue
		}
		roster = append(roster, domain.RosterHero{
			ID:      entry.ID,
			NameEn:  entry.NameEn,
			NameRu:  entry.NameRu,
			Icon:    entry.Icon,
			Type:    entry.Type,
			GameID:  entry.GameID,
			Rarity:  entry.Rarity,
			Element: entry.Element,
		})
	}
	return roster, nil
}

func parseResources(doc []byte) ([]domain.Resource, error) {
	entries, err := splitArray(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourcesFormat, err)
	}

	resources := make([]domain.Resource, 0, len(entries))
	for _, e := range entries {
		var entry resourceEntry
		if err := json.Unmarshal(e, &entry); err != nil {
			continue
		}
		if entry.Name == "" {
			continue
		}
		v, err := entry.Value.Float64()
		if err != nil {
			continue
		}
		resources = append(resources, domain.Resource{Name: entry.Name, Value: v})
	}
	return resources, nil
}

// splitArray treats an empty or null document as an empty array.
func splitArray(doc []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
