package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingVerifier struct{ err error }

func (v failingVerifier) Verify(ctx context.Context, username, password string) (*db.Admin, error) {
	return nil, v.err
}

func newTestAuth(t *testing.T) (AdminAuthService, *metrics.Metrics) {
	t.Helper()
	repo := repository.NewStaticAdminRepository()
	require.NoError(t, repo.CreateAdmin(context.Background(), "admin", "s3cret"))
	m := metrics.New(prometheus.NewRegistry())
	return NewAdminAuthService(NewBcryptVerifier(repo), "test-secret", time.Hour, m, logger.NewNop()), m
}

func TestAdminAuthService_Login(t *testing.T) {
	auth, m := newTestAuth(t)
	ctx := context.Background()

	token, err := auth.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
	assert.Equal(t, time.Hour, auth.TokenTTL())

	for _, tc := range []struct{ user, pass string }{
		{"admin", "wrong"},
		{"nobody", "s3cret"},
		{"", ""},
	} {
		_, err := auth.Login(ctx, tc.user, tc.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%s/%s", tc.user, tc.pass)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdminLoginsTotal.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AdminLoginsTotal.WithLabelValues("rejected")))
}

func TestAdminAuthService_VerifierFailure(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	boom := errors.New("connection refused")
	auth := NewAdminAuthService(failingVerifier{err: boom}, "secret", time.Hour, m, logger.NewNop())

	_, err := auth.Login(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdminLoginsTotal.WithLabelValues("error")))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	repo := repository.NewStaticAdminRepository()
	require.NoError(t, repo.CreateAdmin(context.Background(), "ops", "admin123"))
	admin, err := NewBcryptVerifier(repo).Verify(context.Background(), "ops", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "ops", admin.Username)
}

func newAdminVehicleService(t *testing.T) (*AdminVehicleService, *reservationFixture) {
	t.Helper()
	f := newReservationFixture(t)
	svc := NewAdminVehicleService(f.vehicles, f.svc, f.metrics, logger.NewNop())
	svc.newID = func() string { return "new-vehicle" }
	return svc, f
}

func TestAdminVehicleService_CRUD(t *testing.T) {
	svc, f := newAdminVehicleService(t)
	ctx := context.Background()

	created, err := svc.CreateVehicle(ctx, entities.VehicleRequest{
		Name:     "Renault Clio",
		Category: "Citadine",
		DayRate:  "89.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-vehicle", created.ID)
	assert.Equal(t, "/default-car.jpg", created.ImageRef)
	assert.True(t, created.Available)
	assert.True(t, created.DayRate.Equal(decimal.RequireFromString("89.50")))

	got, err := f.vehicles.GetVehicle(ctx, "new-vehicle")
	require.NoError(t, err)
	assert.Equal(t, "Renault Clio", got.Name)

	updated, err := svc.UpdateVehicle(ctx, "new-vehicle", entities.VehicleRequest{
		Name:      "Renault Clio V",
		Category:  "Citadine",
		DayRate:   "95",
		ImageRef:  "/clio.jpg",
		Available: boolPtr(false),
		SeatCount: 5,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "/clio.jpg", updated.ImageRef)

	_, err = f.svc.StartReservation(ctx, "new-vehicle")
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	require.NoError(t, svc.DeleteVehicle(ctx, "new-vehicle"))
	_, err = f.vehicles.GetVehicle(ctx, "new-vehicle")
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)

	err = svc.DeleteVehicle(ctx, "new-vehicle")
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)

	for _, op := range []string{"create", "update", "delete"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.VehicleChangesTotal.WithLabelValues(op)), op)
	}
}

func TestAdminVehicleService_Validation(t *testing.T) {
	svc, _ := newAdminVehicleService(t)
	ctx := context.Background()

	cases := map[string]entities.VehicleRequest{
		"missing name":     {Category: "SUV", DayRate: "100"},
		"missing category": {Name: "BMW X5", DayRate: "100"},
		"zero rate":        {Name: "BMW X5", Category: "SUV", DayRate: "0"},
		"negative rate":    {Name: "BMW X5", Category: "SUV", DayRate: "-10"},
		"not a number":     {Name: "BMW X5", Category: "SUV", DayRate: "cheap"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateVehicle(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidVehicle)
		})
	}

	_, err := svc.UpdateVehicle(ctx, "1", entities.VehicleRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidVehicle)
}

func TestAdminVehicleService_Dashboard(t *testing.T) {
	svc, f := newAdminVehicleService(t)
	ctx := context.Background()

	_, err := f.svc.StartReservation(ctx, "1")
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalVehicles)
	assert.Equal(t, 2, dash.AvailableVehicles)
	assert.Equal(t, 1, dash.OpenReservations)
	assert.Equal(t, 0, dash.SubmittedSinceStart)
}
