package readerservice_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/repository/memstore"
	"gobiblio/internal/service/readerservice"
)

var profile = domain.ReaderProfile{
	FirstName:   "Clarice",
	LastName:    "Lispector",
	Address:     "Rua do Catete, 100",
	PhoneNumber: "+55 21 5555-0000",
}

type fixture struct {
	store   *memstore.Store
	clock   *clock.Fixed
	service *readerservice.Service
	userID  string
	staffID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New(logger.Nop())
	clk := clock.NewFixed(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))

	staff, err := store.Users().Save(ctx, domain.User{Username: "staff", Email: "staff@lib.test", Role: domain.RoleWorker})
	require.NoError(t, err)
	user, err := store.Users().Save(ctx, domain.User{Username: "clarice", Email: "clarice@lib.test", Role: domain.RoleUser})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		clock:   clk,
		service: readerservice.NewService(store, store, logger.Nop(), readerservice.WithClock(clk)),
		userID:  user.ID,
		staffID: staff.ID,
	}
}

func TestRequestRegistration_Success(t *testing.T) {
	f := newFixture(t)

	req, err := f.service.RequestRegistration(context.Background(), f.userID, domain.ReaderProfile{
		FirstName:   "  Clarice ",
		LastName:    "Lispector",
		Address:     "Rua do Catete, 100",
		PhoneNumber: "+55 21 5555-0000",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, domain.RegistrationPending, req.Status)
	assert.Equal(t, "Clarice", req.Profile.FirstName)
	assert.Equal(t, f.clock.Now(), req.CreatedAt)
}

func TestRequestRegistration_Fail_Validation(t *testing.T) {
	f := newFixture(t)
	incomplete := []domain.ReaderProfile{
		{LastName: "Lispector", Address: "a", PhoneNumber: "1"},
		{FirstName: "Clarice", Address: "a", PhoneNumber: "1"},
		{FirstName: "Clarice", LastName: "Lispector", PhoneNumber: "1"},
		{FirstName: "Clarice", LastName: "Lispector", Address: "a", PhoneNumber: "   "},
	}
	for _, p := range incomplete {
		_, err := f.service.RequestRegistration(context.Background(), f.userID, p)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
}

func TestRequestRegistration_PendingWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	// Dentro da janela de 30 dias
	f.clock.Set(f.clock.Now().Add(29 * 24 * time.Hour))
	_, err = f.service.RequestRegistration(ctx, f.userID, profile)
	require.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Equal(t, "You already have a pending registration request", err.Error())

	// Depois da janela um novo pedido é aceito
	f.clock.Set(f.clock.Now().Add(2 * 24 * time.Hour))
	_, err = f.service.RequestRegistration(ctx, f.userID, profile)
	assert.NoError(t, err)
}

func TestRequestRegistration_CustomWindow(t *testing.T) {
	f := newFixture(t)
	svc := readerservice.NewService(f.store, f.store, logger.Nop(),
		readerservice.WithClock(f.clock), readerservice.WithWindow(24*time.Hour))
	ctx := context.Background()

	_, err := svc.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	f.clock.Set(f.clock.Now().Add(25 * time.Hour))
	_, err = svc.RequestRegistration(ctx, f.userID, profile)
	assert.NoError(t, err)
}

func TestRequestRegistration_Fail_AlreadyReader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)
	_, err = f.service.Approve(ctx, req.ID, f.staffID)
	require.NoError(t, err)

	_, err = f.service.RequestRegistration(ctx, f.userID, profile)

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Equal(t, "User is already a registered reader", err.Error())
}

func TestApprove_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	reader, err := f.service.Approve(ctx, req.ID, f.staffID)

	require.NoError(t, err)
	assert.Equal(t, f.userID, reader.UserID)
	assert.Equal(t, "Clarice", reader.FirstName)
	assert.Equal(t, "clarice@lib.test", reader.Email)
	assert.True(t, strings.HasPrefix(reader.CardNumber, "RDR-"))

	status, err := f.service.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, status.IsReader)
	assert.False(t, status.HasPendingRequest)

	processed, err := f.service.ListRequests(ctx, "approved", 1)
	require.NoError(t, err)
	require.Len(t, processed.Requests, 1)
	assert.Equal(t, f.staffID, processed.Requests[0].ProcessedBy)
	assert.NotNil(t, processed.Requests[0].ProcessedAt)
	assert.Equal(t, "clarice", processed.Requests[0].Username)
}

func TestApproveAndReject_Fail_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)
	require.NoError(t, f.service.Reject(ctx, req.ID, f.staffID, "documentação incompleta"))

	_, err = f.service.Approve(ctx, req.ID, f.staffID)
	assert.IsType(t, &apperror.InvalidStateError{}, err)
	assert.Equal(t, "Request has already been processed", err.Error())

	err = f.service.Reject(ctx, req.ID, f.staffID, "")
	assert.IsType(t, &apperror.InvalidStateError{}, err)

	// A rejeição não criou leitor
	status, err := f.service.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, status.IsReader)
	assert.False(t, status.HasPendingRequest)
}

func TestApproveAndReject_Fail_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Approve(ctx, "missing", f.staffID)
	assert.IsType(t, &apperror.NotFoundError{}, err)

	err = f.service.Reject(ctx, "missing", f.staffID, "")
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestReject_KeepsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	require.NoError(t, f.service.Reject(ctx, req.ID, f.staffID, "  endereço ilegível "))

	page, err := f.service.ListRequests(ctx, "processed", 1)
	require.NoError(t, err)
	require.Len(t, page.Requests, 1)
	assert.Equal(t, domain.RegistrationRejected, page.Requests[0].Status)
	assert.Equal(t, "endereço ilegível", page.Requests[0].RejectionReason)
}

func TestStatus_Pending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.service.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, status.IsReader)
	assert.False(t, status.HasPendingRequest)

	_, err = f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	status, err = f.service.Status(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, status.HasPendingRequest)
}

func TestListRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)

	pending, err := f.service.ListRequests(ctx, "pending", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Total)
	assert.Equal(t, 1, pending.CurrentPage)

	processed, err := f.service.ListRequests(ctx, "processed", 1)
	require.NoError(t, err)
	assert.Empty(t, processed.Requests)

	_, err = f.service.ListRequests(ctx, "archived", 1)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestListReaders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.service.RequestRegistration(ctx, f.userID, profile)
	require.NoError(t, err)
	_, err = f.service.Approve(ctx, req.ID, f.staffID)
	require.NoError(t, err)

	readers, err := f.service.ListReaders(ctx)

	require.NoError(t, err)
	require.Len(t, readers, 1)
	assert.Equal(t, "Lispector", readers[0].LastName)
	assert.Equal(t, 0, readers[0].ActiveLoans)
}

func TestListUnregisteredUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bento, err := f.store.Users().Save(ctx, domain.User{Username: "bento", Email: "bento@lib.test", Role: domain.RoleUser, IsActive: true})
	require.NoError(t, err)
	carla, err := f.store.Users().Save(ctx, domain.User{Username: "carla", Email: "carla@lib.test", Role: domain.RoleUser, IsActive: true})
	require.NoError(t, err)

	users, err := f.service.ListUnregisteredUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bento", users[0].Username)
	assert.Equal(t, "carla", users[1].Username)

	req, err := f.service.RequestRegistration(ctx, carla.ID, profile)
	require.NoError(t, err)
	_, err = f.service.Approve(ctx, req.ID, f.staffID)
	require.NoError(t, err)

	// carla virou leitora; staff e contas inativas nunca aparecem
	users, err = f.service.ListUnregisteredUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bento.ID, users[0].ID)
}
