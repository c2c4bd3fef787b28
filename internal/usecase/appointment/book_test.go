package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/medibook/clinic-scheduler/internal/dateutil"
	domain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	schedDomain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

// ======================================================
// FAKES
// ======================================================

var errNotFound = errors.New("record not found")

type fakeRepo struct {
	mu      sync.Mutex
	doctors map[uint]*models.Doctor
	appts   map[uint]*models.Appointment
	nextID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors: map[uint]*models.Doctor{},
		appts:   map[uint]*models.Appointment{},
	}
}

func (r *fakeRepo) addDoctor(d models.Doctor) *models.Doctor {
	r.doctors[d.ID] = &d
	return &d
}

func (r *fakeRepo) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetDoctorByUserID(_ context.Context, userID uint) (*models.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, errNotFound
}

// CreateAppointment mirrors the production repository: the conflict check and
// the insert happen under one lock, standing in for the transaction plus
// unique index.
func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := dateutil.DayString(ap.AppointmentDate)
	for _, other := range r.appts {
		if other.DoctorID == ap.DoctorID &&
			other.Status != string(domain.StatusCancelled) &&
			dateutil.DayString(other.AppointmentDate) == day &&
			other.Time == ap.Time {
			return httperr.ErrConflict("slot_taken", "Time slot already booked.")
		}
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appts[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap, ok := r.appts[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetAppointmentForPatient(_ context.Context, id, patientID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap, ok := r.appts[id]; ok && ap.PatientID == patientID {
		cp := *ap
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetAppointmentForDoctor(_ context.Context, id, doctorID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap, ok := r.appts[id]; ok && ap.DoctorID == doctorID {
		cp := *ap
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appts[ap.ID]
	if !ok {
		return errNotFound
	}
	stored.Status = ap.Status
	return nil
}

func (r *fakeRepo) ListForPatient(_ context.Context, patientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appts {
		if ap.PatientID == patientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListForDoctor(_ context.Context, doctorID uint, _, _ *time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appts {
		if ap.DoctorID == doctorID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListForDoctorOnDay(_ context.Context, doctorID uint, dayT time.Time) ([]models.Appointment, error) {
	day := dateutil.DayString(dayT)
	var out []models.Appointment
	for _, ap := range r.appts {
		if ap.DoctorID == doctorID &&
			ap.Status != string(domain.StatusCancelled) &&
			dateutil.DayString(ap.AppointmentDate) == day {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appts {
		out = append(out, *ap)
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeSchedStore struct {
	mu   sync.Mutex
	cfgs map[uint]schedDomain.Config
}

func newFakeSchedStore() *fakeSchedStore {
	return &fakeSchedStore{cfgs: map[uint]schedDomain.Config{}}
}

func (s *fakeSchedStore) Get(_ context.Context, ownerUserID uint) (*schedDomain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, ok := s.cfgs[ownerUserID]; ok {
		cp := cfg
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeSchedStore) Save(_ context.Context, ownerUserID uint, cfg schedDomain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfgs[ownerUserID] = cfg
	return nil
}

var _ schedDomain.Store = (*fakeSchedStore)(nil)

// ======================================================
// BOOK
// ======================================================

func bookFixture() (*Book, *fakeRepo, *fakeSchedStore) {
	repo := newFakeRepo()
	sched := newFakeSchedStore()
	repo.addDoctor(models.Doctor{ID: 1, UserID: 10, Available: true, Approved: true})
	return NewBook(repo, sched, nil), repo, sched
}

func TestBookHappyPath(t *testing.T) {
	uc, _, _ := bookFixture()

	ap, err := uc.Execute(context.Background(), BookInput{
		PatientID: 5,
		DoctorID:  1,
		Date:      "2024-06-11", // Tuesday
		Time:      "09:00",
		Reason:    "checkup",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if ap.Status != string(domain.StatusPending) {
		t.Fatalf("expected PENDING, got %s", ap.Status)
	}
	if got := dateutil.Clock(ap.AppointmentDate); got != "09:00" {
		t.Fatalf("appointment date not anchored on the slot time: %s", got)
	}
	if ap.Time != "09:00" {
		t.Fatalf("unexpected slot label: %s", ap.Time)
	}
}

func TestBookCheckOrder(t *testing.T) {
	t.Run("missing doctor", func(t *testing.T) {
		uc, _, _ := bookFixture()
		_, err := uc.Execute(context.Background(), BookInput{DoctorID: 99, Date: "2024-06-11", Time: "09:00"})
		if !httperr.IsKind(err, httperr.KindNotFound) {
			t.Fatalf("expected not_found, got %v", err)
		}
	})

	t.Run("doctor unavailable beats bad date", func(t *testing.T) {
		uc, repo, _ := bookFixture()
		repo.addDoctor(models.Doctor{ID: 2, UserID: 20, Available: false})

		// Saturday would also fail the availability rules; the doctor flag
		// must win because it is checked first.
		_, err := uc.Execute(context.Background(), BookInput{DoctorID: 2, Date: "2024-06-08", Time: "09:00"})
		f, ok := httperr.AsFault(err)
		if !ok || f.Code != "doctor_unavailable" {
			t.Fatalf("expected doctor_unavailable, got %v", err)
		}
	})

	t.Run("disabled date", func(t *testing.T) {
		uc, _, sched := bookFixture()
		cfg := schedDomain.Default()
		cfg.DisabledDates = []string{"2024-06-10"}
		sched.Save(context.Background(), 10, cfg)

		_, err := uc.Execute(context.Background(), BookInput{DoctorID: 1, Date: "2024-06-10", Time: "09:00"})
		f, ok := httperr.AsFault(err)
		if !ok || f.Code != "date_disabled" {
			t.Fatalf("expected date_disabled, got %v", err)
		}
	})

	t.Run("not a working day", func(t *testing.T) {
		uc, _, _ := bookFixture()
		_, err := uc.Execute(context.Background(), BookInput{DoctorID: 1, Date: "2024-06-08", Time: "09:00"})
		f, ok := httperr.AsFault(err)
		if !ok || f.Code != "not_working_day" {
			t.Fatalf("expected not_working_day, got %v", err)
		}
	})

	t.Run("invalid time label", func(t *testing.T) {
		uc, _, _ := bookFixture()
		_, err := uc.Execute(context.Background(), BookInput{DoctorID: 1, Date: "2024-06-11", Time: "9am"})
		if !httperr.IsKind(err, httperr.KindInvalidArgument) {
			t.Fatalf("expected invalid_argument, got %v", err)
		}
	})

	t.Run("timestamped date must match slot time", func(t *testing.T) {
		uc, _, _ := bookFixture()
		_, err := uc.Execute(context.Background(), BookInput{
			DoctorID: 1,
			Date:     "2024-06-11T10:00:00Z",
			Time:     "09:00",
		})
		f, ok := httperr.AsFault(err)
		if !ok || f.Code != "time_mismatch" {
			t.Fatalf("expected time_mismatch, got %v", err)
		}
	})
}

func TestBookSlotConflict(t *testing.T) {
	uc, _, _ := bookFixture()
	ctx := context.Background()

	in := BookInput{PatientID: 5, DoctorID: 1, Date: "2024-06-11", Time: "09:00"}
	if _, err := uc.Execute(ctx, in); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	in.PatientID = 6
	_, err := uc.Execute(ctx, in)
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// A different slot label on the same day is free.
	in.Time = "09:30"
	if _, err := uc.Execute(ctx, in); err != nil {
		t.Fatalf("different slot should book: %v", err)
	}
}

func TestBookCancelledSlotIsFree(t *testing.T) {
	uc, repo, _ := bookFixture()
	ctx := context.Background()

	ap, err := uc.Execute(ctx, BookInput{PatientID: 5, DoctorID: 1, Date: "2024-06-11", Time: "09:00"})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	ap.Status = string(domain.StatusCancelled)
	if err := repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := uc.Execute(ctx, BookInput{PatientID: 6, DoctorID: 1, Date: "2024-06-11", Time: "09:00"}); err != nil {
		t.Fatalf("cancelled slot should be bookable again: %v", err)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	uc, _, _ := bookFixture()

	const attempts = 16

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(patient uint) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), BookInput{
				PatientID: patient,
				DoctorID:  1,
				Date:      "2024-06-11",
				Time:      "10:00",
			})
			results <- err
		}(uint(i + 1))
	}

	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case httperr.IsKind(err, httperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", ok, conflicts)
	}
}

// ======================================================
// TRANSITION
// ======================================================

func transitionFixture(t *testing.T) (*Transition, *models.Appointment, *fakeRepo) {
	t.Helper()

	repo := newFakeRepo()
	sched := newFakeSchedStore()
	repo.addDoctor(models.Doctor{ID: 1, UserID: 10, Available: true})

	book := NewBook(repo, sched, nil)
	ap, err := book.Execute(context.Background(), BookInput{
		PatientID: 5, DoctorID: 1, Date: "2024-06-11", Time: "09:00",
	})
	if err != nil {
		t.Fatalf("fixture booking failed: %v", err)
	}

	return NewTransition(repo, nil), ap, repo
}

func TestTransitionDoctorThenPatient(t *testing.T) {
	uc, ap, _ := transitionFixture(t)
	ctx := context.Background()

	got, err := uc.Execute(ctx, models.RoleDoctor, 10, ap.ID, domain.StatusAccepted)
	if err != nil {
		t.Fatalf("doctor accept failed: %v", err)
	}
	if got.Status != string(domain.StatusAccepted) {
		t.Fatalf("expected ACCEPTED, got %s", got.Status)
	}

	// The patient can no longer cancel: the appointment left PENDING.
	_, err = uc.Execute(ctx, models.RolePatient, 5, ap.ID, domain.StatusCancelled)
	if !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestTransitionHidesForeignAppointments(t *testing.T) {
	uc, ap, repo := transitionFixture(t)
	ctx := context.Background()

	// A second doctor must not learn whether the appointment exists.
	repo.addDoctor(models.Doctor{ID: 2, UserID: 20, Available: true})
	_, err := uc.Execute(ctx, models.RoleDoctor, 20, ap.ID, domain.StatusAccepted)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not_found for foreign doctor, got %v", err)
	}

	// Same for a patient who does not own it.
	_, err = uc.Execute(ctx, models.RolePatient, 99, ap.ID, domain.StatusCancelled)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not_found for foreign patient, got %v", err)
	}
}

func TestTransitionAdminOverride(t *testing.T) {
	uc, ap, _ := transitionFixture(t)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, models.RoleDoctor, 10, ap.ID, domain.StatusAccepted); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	got, err := uc.Execute(ctx, models.RoleAdmin, 1, ap.ID, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("admin override failed: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", got.Status)
	}
}

func TestTransitionPatientCancelsPending(t *testing.T) {
	uc, ap, _ := transitionFixture(t)

	got, err := uc.Execute(context.Background(), models.RolePatient, 5, ap.ID, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("patient cancel failed: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected CANCELLED, got %s", got.Status)
	}
}
