package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/service"
	"itdesk/pkg/types"
	"itdesk/pkg/validation"
)

type mockTicketService struct{ mock.Mock }

func (m *mockTicketService) GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error) {
	args := m.Called(ctx, filter)
	var tickets []entities.Ticket
	if v := args.Get(0); v != nil {
		tickets = v.([]entities.Ticket)
	}
	return tickets, args.Get(1).(uint64), args.Error(2)
}

func (m *mockTicketService) FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketService) CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	args := m.Called(ctx, payload)
	if v := args.Get(0); v != nil {
		return v.(*entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketService) UpdateTicket(ctx context.Context, id uint64, payload dto.UpdateTicketDTO) (*entities.Ticket, error) {
	args := m.Called(ctx, id, payload)
	if v := args.Get(0); v != nil {
		return v.(*entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketService) DeleteTicket(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockTimeLogService struct{ mock.Mock }

func (m *mockTimeLogService) GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]dto.TimeLogDTO, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]dto.TimeLogDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogService) RecordAction(ctx context.Context, action string) (*dto.TimeLogDTO, error) {
	args := m.Called(ctx, action)
	if v := args.Get(0); v != nil {
		return v.(*dto.TimeLogDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogService) CreateTimeLog(ctx context.Context, payload dto.CreateTimeLogDTO) (*dto.TimeLogDTO, error) {
	args := m.Called(ctx, payload)
	if v := args.Get(0); v != nil {
		return v.(*dto.TimeLogDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogService) UpdateTimeLog(ctx context.Context, id uint64, payload dto.UpdateTimeLogDTO) (*dto.TimeLogDTO, error) {
	args := m.Called(ctx, id, payload)
	if v := args.Get(0); v != nil {
		return v.(*dto.TimeLogDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogService) DeleteTimeLog(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTimeLogService) GetPayPeriodSummary(ctx context.Context, adminID uint64, date time.Time) (*dto.PayPeriodSummaryDTO, error) {
	args := m.Called(ctx, adminID, date)
	if v := args.Get(0); v != nil {
		return v.(*dto.PayPeriodSummaryDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogService) Location() *time.Location { return time.UTC }

type mockAssetService struct{ mock.Mock }

func (m *mockAssetService) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	args := m.Called(ctx, filter)
	var assets []entities.Asset
	if v := args.Get(0); v != nil {
		assets = v.([]entities.Asset)
	}
	return assets, args.Get(1).(uint64), args.Error(2)
}

func (m *mockAssetService) FindAsset(ctx context.Context, serial string) (*entities.Asset, error) {
	args := m.Called(ctx, serial)
	if v := args.Get(0); v != nil {
		return v.(*entities.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssetService) CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error) {
	args := m.Called(ctx, payload)
	if v := args.Get(0); v != nil {
		return v.(*entities.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, serial string, payload dto.UpdateAssetDTO) (*entities.Asset, error) {
	args := m.Called(ctx, serial, payload)
	if v := args.Get(0); v != nil {
		return v.(*entities.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, serial string) error {
	return m.Called(ctx, serial).Error(0)
}

func (m *mockAssetService) ImportAssets(ctx context.Context, r io.Reader) (*dto.AssetImportResultDTO, error) {
	args := m.Called(ctx, r)
	if v := args.Get(0); v != nil {
		return v.(*dto.AssetImportResultDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.Admin, error) {
	args := m.Called(ctx, payload)
	if v := args.Get(0); v != nil {
		return v.(*entities.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) GetAdminByID(ctx context.Context, adminID uint64) (*entities.Admin, error) {
	args := m.Called(ctx, adminID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubSessions выдаёт токен token-<id> и запоминает отозванные.
type stubSessions struct {
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, adminID uint64) (string, error) {
	return fmt.Sprintf("token-%d", adminID), nil
}

func (s *stubSessions) Resolve(context.Context, string) (*service.SessionClaims, error) {
	return nil, nil
}

func (s *stubSessions) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubSessions) TTL() time.Duration { return 8 * time.Hour }

func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
