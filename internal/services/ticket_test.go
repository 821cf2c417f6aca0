package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itdesk/internal/authz"
	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

func newTestTicketService() (TicketServiceInterface, *mockTicketRepo, *fakeTxManager) {
	repo := new(mockTicketRepo)
	tx := &fakeTxManager{}
	return NewTicketService(tx, repo, authz.NewGatekeeper(), zap.NewNop()), repo, tx
}

func asAdmin(id uint64) context.Context {
	return utils.WithUserID(context.Background(), id)
}

func TestTicketService_CreateTicket_DerivesStatus(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ctx := asAdmin(1)
	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	repo.On("CreateTicket", ctx, mock.MatchedBy(func(tk entities.Ticket) bool {
		return tk.Status == constants.TicketStatusAssigned &&
			tk.AdminID == null.Uint64From(2) &&
			tk.Company == "Acme" &&
			tk.TotalTime == null.Float64From(2)
	})).Return(uint64(10), nil)
	repo.On("FindTicket", ctx, uint64(10)).Return(&entities.Ticket{ID: 10, Status: constants.TicketStatusAssigned}, nil)

	res, err := svc.CreateTicket(ctx, dto.CreateTicketDTO{
		Company:     " Acme ",
		Person:      "John",
		Issue:       "No network",
		AdminID:     null.Uint64From(2),
		StartedTime: started,
		TimeEnd:     null.TimeFrom(started.Add(2 * time.Hour)),
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(10), res.ID)
	repo.AssertExpectations(t)
}

func TestTicketService_CreateTicket_Unassigned(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ctx := asAdmin(1)

	repo.On("CreateTicket", ctx, mock.MatchedBy(func(tk entities.Ticket) bool {
		return tk.Status == constants.TicketStatusUnassigned && !tk.TotalTime.Valid
	})).Return(uint64(11), nil)
	repo.On("FindTicket", ctx, uint64(11)).Return(&entities.Ticket{ID: 11}, nil)

	_, err := svc.CreateTicket(ctx, dto.CreateTicketDTO{
		Company: "Acme", Person: "John", Issue: "No network", StartedTime: time.Now(),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTicketService_CreateTicket_Rejects(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := svc.CreateTicket(context.Background(), dto.CreateTicketDTO{Company: "A", Person: "B", Issue: "C", StartedTime: started})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.CreateTicket(asAdmin(1), dto.CreateTicketDTO{
		Company: "A", Person: "B", Issue: "C",
		StartedTime: started,
		TimeEnd:     null.TimeFrom(started.Add(-time.Hour)),
	})
	requireHTTPCode(t, err, http.StatusBadRequest)

	_, err = svc.CreateTicket(asAdmin(1), dto.CreateTicketDTO{Company: "   ", Person: "B", Issue: "C", StartedTime: started})
	requireHTTPCode(t, err, http.StatusBadRequest)

	repo.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
}

func TestTicketService_UpdateTicket_ForeignTicketForbidden(t *testing.T) {
	svc, repo, tx := newTestTicketService()
	ctx := asAdmin(1)

	stored := storedTicket()
	stored.AdminID = null.Uint64From(2)
	repo.On("FindTicketForUpdate", ctx, mock.Anything, uint64(1)).Return(&stored, nil)

	_, err := svc.UpdateTicket(ctx, 1, dto.UpdateTicketDTO{
		Issue: null.StringFrom("changed"),
		Sent:  utils.SentFields{"issue": true},
	})

	requireHTTPCode(t, err, http.StatusForbidden)
	assert.Equal(t, 1, tx.calls)
	repo.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_UpdateTicket_UnassignedTicketEditableByAnyone(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ctx := asAdmin(5)

	stored := storedTicket()
	stored.AdminID = null.Uint64{}
	stored.Status = constants.TicketStatusUnassigned
	repo.On("FindTicketForUpdate", ctx, mock.Anything, uint64(1)).Return(&stored, nil)
	repo.On("UpdateTicket", ctx, mock.Anything, mock.MatchedBy(func(tk entities.Ticket) bool {
		return tk.AdminID == null.Uint64From(5) && tk.Status == constants.TicketStatusAssigned
	})).Return(nil)
	repo.On("FindTicket", ctx, uint64(1)).Return(&entities.Ticket{ID: 1, Status: constants.TicketStatusAssigned}, nil)

	res, err := svc.UpdateTicket(ctx, 1, dto.UpdateTicketDTO{
		AdminID: null.Uint64From(5),
		Sent:    utils.SentFields{"admin_id": true},
	})

	require.NoError(t, err)
	assert.Equal(t, constants.TicketStatusAssigned, res.Status)
	repo.AssertExpectations(t)
}

func TestTicketService_UpdateTicket_NotFound(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ctx := asAdmin(1)
	repo.On("FindTicketForUpdate", ctx, mock.Anything, uint64(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateTicket(ctx, 99, dto.UpdateTicketDTO{Sent: utils.SentFields{}})
	requireHTTPCode(t, err, http.StatusNotFound)
}

func TestTicketService_DeleteTicket(t *testing.T) {
	svc, repo, _ := newTestTicketService()

	own := storedTicket()
	repo.On("FindTicketForUpdate", mock.Anything, mock.Anything, uint64(1)).Return(&own, nil)
	repo.On("DeleteTicket", mock.Anything, mock.Anything, uint64(1)).Return(nil)

	require.NoError(t, svc.DeleteTicket(asAdmin(1), 1))
	requireHTTPCode(t, svc.DeleteTicket(asAdmin(2), 1), http.StatusForbidden)
	repo.AssertNumberOfCalls(t, "DeleteTicket", 1)
}
