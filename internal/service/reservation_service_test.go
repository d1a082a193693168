package service

import (
	"context"
	"testing"
	"time"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/pricing"
	"carrental/internal/repository"
	"carrental/internal/reservation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type reservationFixture struct {
	svc      *ReservationService
	sessions *repository.MemorySessionRepository
	vehicles *repository.MemoryVehicleRepository
	metrics  *metrics.Metrics
	clock    *testClock
}

func testFleet() []db.Vehicle {
	return []db.Vehicle{
		{ID: "1", Name: "Mercedes Classe C", Category: "Berline", DayRate: decimal.NewFromInt(150), Available: true},
		{ID: "2", Name: "BMW X5", Category: "SUV", DayRate: decimal.NewFromInt(250), Available: true},
		{ID: "3", Name: "Porsche 911", Category: "Sport", DayRate: decimal.NewFromInt(300), Available: false},
	}
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)}
	calc := pricing.NewCalculator(pricing.ModeAbsolute, time.UTC)
	controller := reservation.NewController(calc, reservation.DefaultTiming(),
		reservation.WithClock(clock.Now),
		reservation.WithReferenceGenerator(func() string { return "K7Q2M9XZA" }),
	)
	m := metrics.New(prometheus.NewRegistry())
	sessions := repository.NewMemorySessionRepository()
	vehicles := repository.NewMemoryVehicleRepository(testFleet())

	svc := NewReservationService(sessions, vehicles, controller, calc, m, logger.NewNop())
	svc.newID = func() string { return "session-1" }
	return &reservationFixture{svc: svc, sessions: sessions, vehicles: vehicles, metrics: m, clock: clock}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestReservationService_Quote(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	t.Run("priced", func(t *testing.T) {
		resp, err := f.svc.Quote(ctx, entities.QuoteRequest{
			VehicleID: "1",
			StartDate: "2024-06-01", StartTime: "09:00",
			EndDate: "2024-06-03", EndTime: "09:00",
		})
		require.NoError(t, err)
		require.True(t, resp.PriceAvailable)
		assert.Equal(t, 2, resp.Price.Days)
		assert.True(t, resp.Price.Total.Equal(decimal.NewFromInt(300)))
	})

	t.Run("incomplete range is unavailable", func(t *testing.T) {
		resp, err := f.svc.Quote(ctx, entities.QuoteRequest{VehicleID: "1", StartDate: "2024-06-01"})
		require.NoError(t, err)
		assert.False(t, resp.PriceAvailable)
		assert.Nil(t, resp.Price)
		assert.NotEmpty(t, resp.Reason)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		_, err := f.svc.Quote(ctx, entities.QuoteRequest{VehicleID: "42"})
		assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuotesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuotesTotal.WithLabelValues("unavailable")))
}

func TestReservationService_WizardFlow(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	view, err := f.svc.StartReservation(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", view.ID)
	assert.Equal(t, int(reservation.StepDates), view.Step)
	assert.False(t, view.CanAdvance)
	assert.False(t, view.PriceAvailable)

	_, err = f.svc.Next(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrIncompleteStep)

	view, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		StartDate: strPtr("2024-06-01"),
		EndDate:   strPtr("2024-06-03"),
	})
	require.NoError(t, err)
	assert.True(t, view.CanAdvance)
	require.True(t, view.PriceAvailable)
	assert.True(t, view.Price.Total.Equal(decimal.NewFromInt(300)))

	view, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepContact), view.Step)

	view, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		FirstName: strPtr("Camille"),
		LastName:  strPtr("Durand"),
		Email:     strPtr("camille@example.com"),
		Phone:     strPtr("+33600000000"),
	})
	require.NoError(t, err)

	view, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepConfirm), view.Step)

	view, err = f.svc.Next(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrTermsNotAccepted)
	require.NotNil(t, view)
	assert.True(t, view.TermsNotice)
	assert.Equal(t, int(reservation.StepConfirm), view.Step)

	f.clock.Advance(3 * time.Second)
	view, err = f.svc.GetReservation(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, view.TermsNotice)

	_, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{AcceptedTerms: boolPtr(true)})
	require.NoError(t, err)

	view, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepSubmitted), view.Step)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "K7Q2M9XZA", view.Confirmation.Reference)
	assert.Equal(t, "Mercedes Classe C", view.Confirmation.VehicleName)
	assert.Equal(t, 1, f.svc.SubmittedCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionsTotal.WithLabelValues("modal")))

	_, err = f.svc.Next(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrAlreadySubmitted)

	f.clock.Advance(9 * time.Second)
	view, err = f.svc.GetReservation(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepDates), view.Step)
	assert.Nil(t, view.Confirmation)
	assert.Empty(t, view.Draft.StartDate)
	assert.Empty(t, view.Draft.FirstName)
}

func TestReservationService_BackAndClose(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	view, err := f.svc.StartReservation(ctx, "2")
	require.NoError(t, err)

	_, err = f.svc.Back(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrNoPreviousStep)

	_, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		StartDate: strPtr("2024-06-01"),
		EndDate:   strPtr("2024-06-02"),
	})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)

	view, err = f.svc.Back(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepDates), view.Step)
	assert.Equal(t, "2024-06-01", view.Draft.StartDate)

	view, err = f.svc.Close(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, int(reservation.StepDates), view.Step)
	assert.Empty(t, view.Draft.StartDate)
	assert.Empty(t, view.Draft.EndDate)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("back", "refused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("close", "ok")))
}

func TestReservationService_SelectVehicle(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	view, err := f.svc.StartReservation(ctx, "1")
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		StartDate: strPtr("2024-06-01"),
		EndDate:   strPtr("2024-06-03"),
	})
	require.NoError(t, err)

	view, err = f.svc.SelectVehicle(ctx, view.ID, "2")
	require.NoError(t, err)
	assert.Equal(t, "BMW X5", view.Vehicle.Name)
	require.True(t, view.PriceAvailable)
	assert.True(t, view.Price.Total.Equal(decimal.NewFromInt(500)))

	_, err = f.svc.SelectVehicle(ctx, view.ID, "3")
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
}

func TestReservationService_StartErrors(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartReservation(ctx, "")
	assert.ErrorIs(t, err, reservation.ErrVehicleRequired)

	_, err = f.svc.StartReservation(ctx, "3")
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	_, err = f.svc.StartReservation(ctx, "99")
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)

	_, err = f.svc.GetReservation(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestReservationService_QuickReserve(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	req := entities.QuickReservationRequest{
		VehicleID: "1",
		QuickRequest: reservation.QuickRequest{
			StartDate: "2024-06-01",
			EndDate:   "2024-06-02",
			FirstName: "Camille",
			Email:     "camille@example.com",
			Phone:     "+33600000000",
		},
	}
	conf, err := f.svc.QuickReserve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "K7Q2M9XZA", conf.Reference)
	require.NotNil(t, conf.Price)
	assert.True(t, conf.Price.Total.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionsTotal.WithLabelValues("inline")))

	count, err := f.svc.CountOpenReservations(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	req.Phone = ""
	_, err = f.svc.QuickReserve(ctx, req)
	assert.ErrorIs(t, err, reservation.ErrIncompleteStep)
}

type countingSessions struct {
	*repository.MemorySessionRepository
	saves int
}

func (c *countingSessions) SaveSession(ctx context.Context, w *reservation.Wizard) error {
	c.saves++
	return c.MemorySessionRepository.SaveSession(ctx, w)
}

func TestReservationService_SavesOnlyChangedSessions(t *testing.T) {
	f := newReservationFixture(t)
	sessions := &countingSessions{MemorySessionRepository: f.sessions}
	f.svc.sessions = sessions
	ctx := context.Background()

	view, err := f.svc.StartReservation(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, sessions.saves)

	for i := 0; i < 3; i++ {
		_, err = f.svc.GetReservation(ctx, view.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, sessions.saves, "reads must not rewrite the session")

	_, err = f.svc.Next(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrIncompleteStep)
	_, err = f.svc.Back(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrNoPreviousStep)
	assert.Equal(t, 1, sessions.saves, "refused transitions leave the session untouched")

	_, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		StartDate: strPtr("2024-06-01"),
		EndDate:   strPtr("2024-06-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sessions.saves)

	_, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateDraft(ctx, view.ID, entities.DraftPatch{
		FirstName: strPtr("Camille"),
		LastName:  strPtr("Durand"),
		Email:     strPtr("camille@example.com"),
		Phone:     strPtr("+33600000000"),
	})
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, view.ID)
	require.NoError(t, err)
	require.Equal(t, 5, sessions.saves)

	_, err = f.svc.Next(ctx, view.ID)
	assert.ErrorIs(t, err, reservation.ErrTermsNotAccepted)
	assert.Equal(t, 6, sessions.saves, "the terms notice is persisted")

	f.clock.Advance(3 * time.Second)
	view, err = f.svc.GetReservation(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, view.TermsNotice)
	assert.Equal(t, 7, sessions.saves, "an expired notice is cleared and saved")

	stored, err := f.sessions.GetSession(ctx, view.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TermsNoticeUntil)
}
