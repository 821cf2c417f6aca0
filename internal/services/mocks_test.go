package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
)

// fakeTxManager выполняет fn без настоящей транзакции.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type mockTicketRepo struct {
	mock.Mock
}

func (m *mockTicketRepo) GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]entities.Ticket), args.Get(1).(uint64), args.Error(2)
	}
	return nil, args.Get(1).(uint64), args.Error(2)
}

func (m *mockTicketRepo) FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) FindTicketForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Ticket, error) {
	args := m.Called(ctx, tx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) FindTicketsByAsset(ctx context.Context, assetID uint64) ([]entities.Ticket, error) {
	args := m.Called(ctx, assetID)
	if v := args.Get(0); v != nil {
		return v.([]entities.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) CreateTicket(ctx context.Context, ticket entities.Ticket) (uint64, error) {
	args := m.Called(ctx, ticket)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTicketRepo) UpdateTicket(ctx context.Context, tx pgx.Tx, ticket entities.Ticket) error {
	args := m.Called(ctx, tx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepo) DeleteTicket(ctx context.Context, tx pgx.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type mockTimeLogRepo struct {
	mock.Mock
}

func (m *mockTimeLogRepo) GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]entities.TimeLog, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]entities.TimeLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogRepo) FindTimeLog(ctx context.Context, id uint64) (*entities.TimeLog, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.TimeLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogRepo) FindTimeLogForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.TimeLog, error) {
	args := m.Called(ctx, tx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.TimeLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogRepo) FindOpenLog(ctx context.Context, tx pgx.Tx, adminID uint64, date time.Time) (*entities.TimeLog, error) {
	args := m.Called(ctx, tx, adminID, date)
	if v := args.Get(0); v != nil {
		return v.(*entities.TimeLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTimeLogRepo) CreateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) (uint64, error) {
	args := m.Called(ctx, tx, log)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTimeLogRepo) UpdateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) error {
	args := m.Called(ctx, tx, log)
	return args.Error(0)
}

func (m *mockTimeLogRepo) DeleteTimeLog(ctx context.Context, tx pgx.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id uint64) (*entities.Admin, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	args := m.Called(ctx, username)
	if v := args.Get(0); v != nil {
		return v.(*entities.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) List(ctx context.Context) ([]entities.Admin, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]entities.Admin), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAdminRepo) Upsert(ctx context.Context, admin entities.Admin) (uint64, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(uint64), args.Error(1)
}

// memoryCache - кеш в памяти без учёта TTL.
type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	if v, ok := c.data[key]; ok {
		if _, err := fmt.Sscan(v, &n); err != nil {
			return 0, err
		}
	}
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

func (c *memoryCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

// fakeAssetRepo хранит активы по серийному номеру.
type fakeAssetRepo struct {
	bySerial map[string]entities.Asset
	failOn   string
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{bySerial: make(map[string]entities.Asset)}
}

func (r *fakeAssetRepo) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	out := make([]entities.Asset, 0, len(r.bySerial))
	for _, a := range r.bySerial {
		out = append(out, a)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAssetRepo) FindAssetBySerial(ctx context.Context, serial string) (*entities.Asset, error) {
	a, ok := r.bySerial[serial]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAssetRepo) CreateAsset(ctx context.Context, asset entities.Asset) (uint64, error) {
	if _, ok := r.bySerial[asset.SerialNumber]; ok {
		return 0, apperrors.NewConflictError("Актив с таким серийным номером уже существует", nil)
	}
	asset.ID = uint64(len(r.bySerial) + 1)
	r.bySerial[asset.SerialNumber] = asset
	return asset.ID, nil
}

func (r *fakeAssetRepo) UpdateAsset(ctx context.Context, asset entities.Asset) error {
	for serial, a := range r.bySerial {
		if a.ID == asset.ID {
			delete(r.bySerial, serial)
			r.bySerial[asset.SerialNumber] = asset
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeAssetRepo) DeleteAssetBySerial(ctx context.Context, serial string) error {
	if _, ok := r.bySerial[serial]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.bySerial, serial)
	return nil
}

func (r *fakeAssetRepo) UpsertAsset(ctx context.Context, asset entities.Asset) (bool, error) {
	if asset.SerialNumber == r.failOn {
		return false, fmt.Errorf("ошибка записи")
	}
	existing, ok := r.bySerial[asset.SerialNumber]
	if ok {
		asset.ID = existing.ID
	} else {
		asset.ID = uint64(len(r.bySerial) + 1)
	}
	// как в SQL: пустой статус не трогает текущий, новый актив уходит на склад
	if asset.Status == "" {
		asset.Status = constants.AssetStatusInStorage
		if ok {
			asset.Status = existing.Status
		}
	}
	r.bySerial[asset.SerialNumber] = asset
	return !ok, nil
}

// fakeClientRepo ищет клиентов по имени без учёта регистра.
type fakeClientRepo struct {
	clients []entities.Client
	lookups int
}

func (r *fakeClientRepo) GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	return r.clients, uint64(len(r.clients)), nil
}

func (r *fakeClientRepo) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	for _, c := range r.clients {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeClientRepo) FindClientByName(ctx context.Context, name string) (*entities.Client, error) {
	r.lookups++
	for _, c := range r.clients {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeClientRepo) CreateClient(ctx context.Context, client entities.Client) (uint64, error) {
	client.ID = uint64(len(r.clients) + 1)
	r.clients = append(r.clients, client)
	return client.ID, nil
}

func (r *fakeClientRepo) UpdateClient(ctx context.Context, client entities.Client) error {
	for i, c := range r.clients {
		if c.ID == client.ID {
			r.clients[i] = client
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeClientRepo) DeleteClient(ctx context.Context, id uint64) error {
	for i, c := range r.clients {
		if c.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}
