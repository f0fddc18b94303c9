package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/db"
)

// memStore is an in-memory db.Database used by the service tests
type memStore struct {
	mu sync.Mutex

	shiftCodes []db.ShiftCode
	accounts   []db.Account
	entries    map[string]db.RosterEntry // keyed by badge|date
	posts      []db.Post
	recipients map[string][]string // post id -> user ids
	reads      []db.PostRead

	calls []string

	upsertErr     error
	insertPostErr error
}

var _ db.Database = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		entries:    make(map[string]db.RosterEntry),
		recipients: make(map[string][]string),
	}
}

func entryKey(badge, date string) string {
	return badge + "|" + date
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memStore) sortedEntries() []db.RosterEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]db.RosterEntry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].BadgeNumberRaw < result[j].BadgeNumberRaw
	})
	return result
}

func (m *memStore) GetShiftCodes(ctx context.Context) ([]db.ShiftCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.ShiftCode(nil), m.shiftCodes...), nil
}

func (m *memStore) InsertShiftCode(ctx context.Context, sc *db.ShiftCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.shiftCodes {
		if e.Code == sc.Code {
			return db.ErrConflict
		}
	}
	m.record("InsertShiftCode")
	m.shiftCodes = append(m.shiftCodes, *sc)
	return nil
}

func (m *memStore) UpdateShiftCode(ctx context.Context, sc *db.ShiftCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shiftCodes {
		if m.shiftCodes[i].ID == sc.ID {
			m.record("UpdateShiftCode")
			m.shiftCodes[i] = *sc
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memStore) SetShiftCodeStatus(ctx context.Context, id string, status model.ShiftCodeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shiftCodes {
		if m.shiftCodes[i].ID == id {
			m.record("SetShiftCodeStatus")
			m.shiftCodes[i].Status = status
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memStore) GetAccounts(ctx context.Context) ([]db.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Account(nil), m.accounts...), nil
}

func (m *memStore) GetAccount(ctx context.Context, id string) (*db.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			account := a
			return &account, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", id, db.ErrNotFound)
}

func (m *memStore) GetRosterEntries(ctx context.Context, filter db.RosterFilter) ([]db.RosterEntry, error) {
	var result []db.RosterEntry
	for _, e := range m.sortedEntries() {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.DateFrom != "" && e.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && e.Date > filter.DateTo {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *memStore) DeleteRosterEntriesByBadges(ctx context.Context, badges []string, dates []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteRosterEntriesByBadges")
	badgeSet, dateSet := toSet(badges), toSet(dates)
	var n int64
	for k, e := range m.entries {
		if badgeSet[e.BadgeNumberRaw] && dateSet[e.Date] {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteRosterEntriesByUsers(ctx context.Context, userIDs []string, dates []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteRosterEntriesByUsers")
	userSet, dateSet := toSet(userIDs), toSet(dates)
	var n int64
	for k, e := range m.entries {
		if e.UserID != "" && userSet[e.UserID] && dateSet[e.Date] {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpsertRosterEntries(ctx context.Context, entries []db.RosterEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpsertRosterEntries")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, e := range entries {
		key := entryKey(e.BadgeNumberRaw, e.Date)
		if existing, ok := m.entries[key]; ok {
			e.ID = existing.ID
			if e.UserID == "" {
				e.UserID = existing.UserID
			}
		}
		m.entries[key] = e
	}
	return nil
}

func (m *memStore) LinkRosterEntries(ctx context.Context, badgeKey string, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("LinkRosterEntries")
	var n int64
	for k, e := range m.entries {
		if e.UserID == "" && roster.NormalizeBadge(e.BadgeNumberRaw) == badgeKey {
			e.UserID = userID
			m.entries[k] = e
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetPosts(ctx context.Context) ([]db.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Post(nil), m.posts...), nil
}

func (m *memStore) GetPost(ctx context.Context, id string) (*db.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", id, db.ErrNotFound)
}

func (m *memStore) InsertPost(ctx context.Context, post *db.Post, recipientIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("InsertPost")
	if m.insertPostErr != nil {
		return m.insertPostErr
	}
	m.posts = append(m.posts, *post)
	if len(recipientIDs) > 0 {
		m.recipients[post.ID] = append([]string(nil), recipientIDs...)
	}
	return nil
}

func (m *memStore) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID != id {
			continue
		}
		m.posts = append(m.posts[:i], m.posts[i+1:]...)
		delete(m.recipients, id)
		kept := m.reads[:0]
		for _, r := range m.reads {
			if r.PostID != id {
				kept = append(kept, r)
			}
		}
		m.reads = kept
		return nil
	}
	return fmt.Errorf("post %s: %w", id, db.ErrNotFound)
}

func (m *memStore) GetPostRecipients(ctx context.Context, postID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recipients[postID]...), nil
}

func (m *memStore) GetRecipientPostIDs(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for postID, users := range m.recipients {
		for _, u := range users {
			if u == userID {
				ids = append(ids, postID)
			}
		}
	}
	return ids, nil
}

func (m *memStore) GetPostReads(ctx context.Context, postID string) ([]db.PostRead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reads []db.PostRead
	for _, r := range m.reads {
		if r.PostID == postID {
			reads = append(reads, r)
		}
	}
	return reads, nil
}

func (m *memStore) GetUserReads(ctx context.Context, userID string) ([]db.PostRead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reads []db.PostRead
	for _, r := range m.reads {
		if r.UserID == userID {
			reads = append(reads, r)
		}
	}
	return reads, nil
}

func (m *memStore) InsertPostRead(ctx context.Context, read *db.PostRead) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reads {
		if r.PostID == read.PostID && r.UserID == read.UserID {
			return false, nil
		}
	}
	m.reads = append(m.reads, *read)
	return true, nil
}

func (m *memStore) GetStats(ctx context.Context, today string) (*db.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &db.Stats{Accounts: len(m.accounts)}
	for _, p := range m.posts {
		if p.IsActive {
			stats.ActivePosts++
		}
	}
	for _, e := range m.entries {
		if e.Date == today {
			stats.EntriesToday++
		}
	}
	for _, sc := range m.shiftCodes {
		if sc.Status == model.ShiftCodeActive {
			stats.ActiveShiftCodes++
		}
	}
	return stats, nil
}
