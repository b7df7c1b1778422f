package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/calendar"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/schedule"
)

// memStore is an in-memory ReservationStore with the same contracts as
// repository.ReservationRepo.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Reservation

	createErr error
	setCalErr error
}

func newMemStore() *memStore {
	return &memStore{rows: map[uint64]model.Reservation{}}
}

func (m *memStore) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, row := range m.rows {
		if row.Code == r.Code {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	return nil
}

func (m *memStore) GetByCode(_ context.Context, code string) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Code == code {
			return row, nil
		}
	}
	return model.Reservation{}, repository.ErrNotFound
}

func (m *memStore) UpdateDetails(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.Date, row.Time, row.Guests, row.Phone, row.RestaurantSlug = r.Date, r.Time, r.Guests, r.Phone, r.RestaurantSlug
	m.rows[r.ID] = row
	return nil
}

func (m *memStore) SetCalendar(_ context.Context, id uint64, status model.CalendarStatus, eventID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setCalErr != nil {
		return m.setCalErr
	}
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.CalendarStatus = status
	if eventID != nil {
		v := *eventID
		row.CalendarEventID = &v
	}
	m.rows[id] = row
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) CountAt(_ context.Context, slug, date, clock string, excludeID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, row := range m.rows {
		if id != excludeID && row.RestaurantSlug == slug && row.Date == date && row.Time == clock {
			n++
		}
	}
	return n, nil
}

func (m *memStore) TimesOn(_ context.Context, slug, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for _, row := range m.rows {
		if row.Date == date && (slug == "" || row.RestaurantSlug == slug) {
			out = append(out, row.Time)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, slug string) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, row := range m.rows {
		if slug == "" || row.RestaurantSlug == slug {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memStore) ListSince(_ context.Context, slug, date string) ([]model.Reservation, error) {
	all, _ := m.List(context.Background(), slug)
	out := []model.Reservation{}
	for _, r := range all {
		if r.Date >= date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) get(code string) (model.Reservation, bool) {
	r, err := m.GetByCode(context.Background(), code)
	return r, err == nil
}

// seed stores n reservations in a slot without going through the service.
func (m *memStore) seed(slug, date, clock string, n int) {
	for i := 0; i < n; i++ {
		_ = m.Create(context.Background(), &model.Reservation{
			Code:           fmt.Sprintf("S%05d", int(m.nextID)+1),
			Name:           "Seed",
			Email:          fmt.Sprintf("seed%d@example.com", i),
			Phone:          "1234567",
			Guests:         2,
			Date:           date,
			Time:           clock,
			RestaurantSlug: slug,
			CalendarStatus: model.CalendarSynced,
		})
	}
}

type memRestaurants map[string]model.Restaurant

func (m memRestaurants) GetBySlug(_ context.Context, slug string) (model.Restaurant, error) {
	r, ok := m[slug]
	if !ok {
		return model.Restaurant{}, repository.ErrNotFound
	}
	return r, nil
}

// fakeProvider records calendar calls and fails on demand.
type fakeProvider struct {
	mu        sync.Mutex
	createErr error
	updateErr error
	cancelErr error
	next      int

	creates []calendar.Details
	updates []string
	cancels []string
}

func (p *fakeProvider) Create(_ context.Context, d calendar.Details) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates = append(p.creates, d)
	if p.createErr != nil {
		return "", p.createErr
	}
	p.next++
	return fmt.Sprintf("evt-%d", p.next), nil
}

func (p *fakeProvider) Update(_ context.Context, id string, _ calendar.Details) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, id)
	return p.updateErr
}

func (p *fakeProvider) Cancel(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancels = append(p.cancels, id)
	return p.cancelErr
}

type fakeMailer struct {
	err  error
	sent []model.Reservation
	rest []model.Restaurant
}

func (f *fakeMailer) SendConfirmation(_ context.Context, r model.Reservation, rest model.Restaurant) error {
	f.sent = append(f.sent, r)
	f.rest = append(f.rest, rest)
	return f.err
}

// fakeLocker counts lock and release calls.
type fakeLocker struct {
	locks, releases int
	err             error
}

func (l *fakeLocker) Lock(context.Context, string, string, string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locks++
	return func() { l.releases++ }, nil
}

type harness struct {
	svc      *ReservationService
	store    *memStore
	provider *fakeProvider
	mailer   *fakeMailer
}

var fixedNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func newHarness() *harness {
	store := newMemStore()
	addr := "1 Main St"
	rests := memRestaurants{
		"default": {Slug: "default", Name: "Default Diner", Address: &addr},
		"bistro":  {Slug: "bistro", Name: "Bistro"},
	}
	provider := &fakeProvider{}
	mailer := &fakeMailer{}
	svc := NewReservationService(store, rests, schedule.Default(),
		NewCapacityChecker(store, DefaultCeiling, nil),
		calendar.NewSyncer(provider, time.Second), mailer, "default")
	svc.Now = func() time.Time { return fixedNow }
	return &harness{svc: svc, store: store, provider: provider, mailer: mailer}
}

// sequenceCodes returns a generator yielding codes in order.
func sequenceCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", errors.New("exhausted")
		}
		c := codes[i]
		i++
		return c, nil
	}
}

func validInput() CreateInput {
	return CreateInput{
		Name:   "A",
		Email:  "a@b.com",
		Phone:  "+37120000000",
		Guests: 2,
		Date:   "2025-01-07", // Tuesday
		Time:   "19:00",
	}
}
