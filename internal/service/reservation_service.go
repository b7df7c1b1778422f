package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/table-reservation/internal/calendar"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/schedule"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// maxCodeAttempts bounds how often Create regenerates a code after the
// store reports a duplicate.
const maxCodeAttempts = 5

// Lookup status values.
const (
	StatusUpcoming = "upcoming"
	StatusPast     = "past"
)

// ReservationStore is the persistence the lifecycle needs.
type ReservationStore interface {
	SlotCounter
	Create(ctx context.Context, r *model.Reservation) error
	GetByCode(ctx context.Context, code string) (model.Reservation, error)
	UpdateDetails(ctx context.Context, r *model.Reservation) error
	SetCalendar(ctx context.Context, id uint64, status model.CalendarStatus, eventID *string) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, slug string) ([]model.Reservation, error)
	ListSince(ctx context.Context, slug, date string) ([]model.Reservation, error)
}

// RestaurantStore resolves restaurant slugs.
type RestaurantStore interface {
	GetBySlug(ctx context.Context, slug string) (model.Restaurant, error)
}

// Mailer sends the guest confirmation.  Delivery is fire and forget.
type Mailer interface {
	SendConfirmation(ctx context.Context, r model.Reservation, rest model.Restaurant) error
}

// CreateInput is a guest's booking request.
type CreateInput struct {
	Name           string `json:"name" validate:"required,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone" validate:"required,phone"`
	Guests         int    `json:"guests" validate:"min=2,max=20"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	RestaurantSlug string `json:"restaurantSlug" validate:"omitempty,max=64"`
}

// UpdateInput carries the fields a guest may change.  Nil fields keep the
// stored value.
type UpdateInput struct {
	Date           *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time           *string `json:"time" validate:"omitempty,datetime=15:04"`
	Guests         *int    `json:"guests" validate:"omitempty,min=2,max=20"`
	Phone          *string `json:"phone" validate:"omitempty,phone"`
	RestaurantSlug *string `json:"restaurantSlug" validate:"omitempty,min=1,max=64"`
}

// Availability describes one restaurant day.
type Availability struct {
	Restaurant  string   `json:"restaurant"`
	Date        string   `json:"date"`
	FullyBooked []string `json:"fullyBookedSlots"`
	OpenSlots   []string `json:"openSlots"`
}

// ReservationService owns the create, update and cancel lifecycle.  The
// stored record is authoritative: the calendar copy is synced after every
// write and its outcome recorded in calendar_status.
type ReservationService struct {
	Reservations ReservationStore
	Restaurants  RestaurantStore
	Policy       *schedule.Policy
	Capacity     *CapacityChecker
	Calendar     *calendar.Syncer
	Mailer       Mailer
	DefaultSlug  string

	NewCode func() (string, error)
	Now     func() time.Time
}

// NewReservationService wires the lifecycle with production defaults for
// the code generator and clock.
func NewReservationService(
	reservations ReservationStore,
	restaurants RestaurantStore,
	policy *schedule.Policy,
	capacity *CapacityChecker,
	syncer *calendar.Syncer,
	mailer Mailer,
	defaultSlug string,
) *ReservationService {
	if policy == nil {
		policy = schedule.Default()
	}
	if capacity == nil {
		capacity = NewCapacityChecker(reservations, DefaultCeiling, nil)
	}
	return &ReservationService{
		Reservations: reservations,
		Restaurants:  restaurants,
		Policy:       policy,
		Capacity:     capacity,
		Calendar:     syncer,
		Mailer:       mailer,
		DefaultSlug:  defaultSlug,
		NewCode:      utils.NewReservationCode,
		Now:          time.Now,
	}
}

// Create admits a new reservation.  An authenticated admin's restaurant
// overrides the slug in the request.
func (s *ReservationService) Create(ctx context.Context, in CreateInput, admin *model.Admin) (model.Reservation, error) {
	in.Name = normalizeName(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := CheckStruct(in); err != nil {
		return model.Reservation{}, err
	}
	if err := s.checkOpen(in.Date, in.Time); err != nil {
		return model.Reservation{}, err
	}

	slug := s.DefaultSlug
	if admin != nil && admin.RestaurantSlug != "" {
		slug = admin.RestaurantSlug
	} else if in.RestaurantSlug != "" {
		slug = in.RestaurantSlug
	}
	rest, err := s.restaurant(ctx, slug)
	if err != nil {
		return model.Reservation{}, err
	}

	release, err := s.Capacity.Hold(ctx, rest.Slug, in.Date, in.Time)
	if err != nil {
		return model.Reservation{}, err
	}
	res, err := s.insert(ctx, in, rest.Slug, release)
	if err != nil {
		return model.Reservation{}, err
	}

	s.syncCreated(ctx, &res)

	if s.Mailer != nil {
		if err := s.Mailer.SendConfirmation(ctx, res, rest); err != nil {
			log.Printf("reservation: confirmation for %s not sent: %v", res.Code, err)
		}
	}
	return res, nil
}

// insert runs the capacity check and the write while the slot is held.
func (s *ReservationService) insert(ctx context.Context, in CreateInput, slug string, release func()) (model.Reservation, error) {
	defer release()
	if err := s.Capacity.Check(ctx, slug, in.Date, in.Time, 0); err != nil {
		return model.Reservation{}, err
	}
	res := model.Reservation{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Guests:         in.Guests,
		Date:           in.Date,
		Time:           in.Time,
		RestaurantSlug: slug,
		CalendarStatus: model.CalendarPending,
	}
	for attempt := 1; ; attempt++ {
		code, err := s.NewCode()
		if err != nil {
			return model.Reservation{}, internal("generate code", err)
		}
		res.Code = code
		err = s.Reservations.Create(ctx, &res)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return model.Reservation{}, internal("insert reservation", err)
		}
		if attempt >= maxCodeAttempts {
			return model.Reservation{}, internal("insert reservation", errors.New("no free reservation code"))
		}
		log.Printf("reservation: code %s taken, regenerating (attempt %d)", code, attempt)
	}
}

func (s *ReservationService) syncCreated(ctx context.Context, res *model.Reservation) {
	if s.Calendar == nil {
		return
	}
	out := s.Calendar.Create(ctx, calendar.DetailsOf(*res))
	s.recordCalendar(ctx, res, out)
}

// recordCalendar persists a sync outcome and mirrors it onto res.  A failed
// write leaves res showing what is actually stored.
func (s *ReservationService) recordCalendar(ctx context.Context, res *model.Reservation, out calendar.Outcome) {
	if err := s.Reservations.SetCalendar(ctx, res.ID, out.Status, out.EventID); err != nil {
		log.Printf("reservation: store calendar status for %s: %v", res.Code, err)
		return
	}
	res.CalendarStatus = out.Status
	if out.EventID != nil {
		res.CalendarEventID = out.EventID
	}
}

// Lookup returns the reservation behind code together with whether it is
// upcoming or past.
func (s *ReservationService) Lookup(ctx context.Context, code string) (model.Reservation, string, error) {
	res, err := s.byCode(ctx, code)
	if err != nil {
		return model.Reservation{}, "", err
	}
	today := s.Now().In(s.Policy.Location()).Format(schedule.DateLayout)
	status := StatusPast
	if res.Date >= today {
		status = StatusUpcoming
	}
	return res, status, nil
}

// Update applies a guest's changes.  Possession of the code is the only
// authorisation.
func (s *ReservationService) Update(ctx context.Context, code string, in UpdateInput) (model.Reservation, error) {
	if err := CheckStruct(in); err != nil {
		return model.Reservation{}, err
	}
	existing, err := s.byCode(ctx, code)
	if err != nil {
		return model.Reservation{}, err
	}

	next := existing
	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.Time != nil {
		next.Time = *in.Time
	}
	if in.Guests != nil {
		next.Guests = *in.Guests
	}
	if in.Phone != nil {
		next.Phone = *in.Phone
	}

	if err := s.checkOpen(next.Date, next.Time); err != nil {
		return model.Reservation{}, err
	}
	if in.RestaurantSlug != nil {
		rest, err := s.restaurant(ctx, *in.RestaurantSlug)
		if err != nil {
			return model.Reservation{}, err
		}
		next.RestaurantSlug = rest.Slug
	}

	release, err := s.Capacity.Hold(ctx, next.RestaurantSlug, next.Date, next.Time)
	if err != nil {
		return model.Reservation{}, err
	}
	err = func() error {
		defer release()
		if err := s.Capacity.Check(ctx, next.RestaurantSlug, next.Date, next.Time, existing.ID); err != nil {
			return err
		}
		if err := s.Reservations.UpdateDetails(ctx, &next); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return internal("update reservation", err)
		}
		return nil
	}()
	if err != nil {
		return model.Reservation{}, err
	}

	if s.Calendar != nil {
		out := s.Calendar.Update(ctx, existing.EventID(), calendar.DetailsOf(next))
		s.recordCalendar(ctx, &next, out)
	}
	return next, nil
}

// Cancel deletes the reservation behind code.  The calendar event is
// cancelled first on a best-effort basis; its failure never blocks the
// delete.
func (s *ReservationService) Cancel(ctx context.Context, code string) error {
	res, err := s.byCode(ctx, code)
	if err != nil {
		return err
	}
	if s.Calendar != nil && res.EventID() != "" {
		s.Calendar.Cancel(ctx, res.EventID())
	}
	if err := s.Reservations.Delete(ctx, res.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return internal("delete reservation", err)
	}
	return nil
}

// Availability reports the fully booked hours and the open hours for a
// restaurant day.  An empty slug means the default restaurant.
func (s *ReservationService) Availability(ctx context.Context, slug, date string) (Availability, error) {
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return Availability{}, invalid("date must be YYYY-MM-DD")
	}
	if slug == "" {
		slug = s.DefaultSlug
	}
	full, err := s.Capacity.FullyBooked(ctx, slug, date)
	if err != nil {
		return Availability{}, err
	}
	open, err := s.Policy.SlotsFor(date)
	if err != nil {
		return Availability{}, invalid("date must be YYYY-MM-DD")
	}
	return Availability{Restaurant: slug, Date: date, FullyBooked: full, OpenSlots: open}, nil
}

// List returns reservations newest date first, then by time.  An empty
// slug lists every restaurant.
func (s *ReservationService) List(ctx context.Context, slug string) ([]model.Reservation, error) {
	out, err := s.Reservations.List(ctx, slug)
	if err != nil {
		return nil, internal("list reservations", err)
	}
	return out, nil
}

func (s *ReservationService) byCode(ctx context.Context, code string) (model.Reservation, error) {
	code = normalizeCode(code)
	if code == "" {
		return model.Reservation{}, invalid("missing reservation code")
	}
	if !utils.IsReservationCode(code) {
		return model.Reservation{}, invalid("malformed reservation code")
	}
	res, err := s.Reservations.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Reservation{}, ErrNotFound
		}
		return model.Reservation{}, internal("lookup reservation", err)
	}
	return res, nil
}

func (s *ReservationService) restaurant(ctx context.Context, slug string) (model.Restaurant, error) {
	rest, err := s.Restaurants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Restaurant{}, invalid("invalid restaurant selected")
		}
		return model.Restaurant{}, internal("verify restaurant", err)
	}
	return rest, nil
}

func (s *ReservationService) checkOpen(date, clock string) error {
	open, err := s.Policy.IsOpenAt(date, clock)
	if err != nil {
		return invalid("invalid date or time")
	}
	if !open {
		return ErrClosed
	}
	return nil
}
