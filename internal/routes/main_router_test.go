package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"itdesk/pkg/config"
	"itdesk/pkg/database/migrations"
	"itdesk/pkg/database/postgresql"
	"itdesk/pkg/validation"
	"itdesk/seeders"
)

// Интеграционный набор: нужен живой Postgres и Redis.
// TEST_DATABASE_URL=postgres://... TEST_REDIS_ADDR=localhost:6379 go test ./internal/routes/...
type APITestSuite struct {
	suite.Suite
	Echo    *echo.Echo
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Cookie  *http.Cookie
	AdminID uint64
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Body    json.RawMessage `json:"body"`
	Message string          `json:"message"`
}

type ticketPage struct {
	List []struct {
		ID      uint64 `json:"id"`
		Company string `json:"company"`
		Status  string `json:"status"`
	} `json:"list"`
	Metadata struct {
		Total      uint64 `json:"total"`
		Page       int    `json:"page"`
		Limit      int    `json:"limit"`
		TotalPages int    `json:"total_pages"`
	} `json:"metadata"`
}

func (s *APITestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if dsn == "" || redisAddr == "" {
		s.T().Skip("TEST_DATABASE_URL и TEST_REDIS_ADDR не заданы, интеграционные тесты пропущены")
	}
	ctx := context.Background()
	t := s.T()

	// чистая схема на каждый прогон
	_ = migrations.Down(dsn)
	require.NoError(t, migrations.Up(dsn))

	db, err := postgresql.ConnectDB(ctx, dsn)
	require.NoError(t, err)
	s.DB = db

	s.Redis = redis.NewClient(&redis.Options{Addr: redisAddr, DB: 1})
	require.NoError(t, s.Redis.FlushDB(ctx).Err())

	cfg := config.New()
	cfg.Server.Location = time.UTC
	cfg.Storage.UploadDir = t.TempDir()
	cfg.Session.SecretKey = "integration-secret"
	cfg.Auth.MaxLoginAttempts = 5

	e := echo.New()
	e.Validator = validation.New()
	nop := zap.NewNop()
	InitRouter(e, db, s.Redis, &Loggers{Main: nop, Auth: nop, Ticket: nop, TimeLog: nop}, cfg)
	s.Echo = e

	ids, err := seeders.SeedAdmins(ctx, db, "password123")
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	s.AdminID = ids[0]
	require.NoError(t, seeders.SeedTickets(ctx, db, s.AdminID))

	rec := s.do(http.MethodPost, "/api/auth/login", `{"username":"tech1","password":"password123"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cfg.Session.CookieName {
			s.Cookie = c
		}
	}
	require.NotNil(t, s.Cookie, "после входа должна появиться cookie сессии")
}

func (s *APITestSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

func (s *APITestSuite) do(method, target, body string, withSession bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if withSession && s.Cookie != nil {
		req.AddCookie(&http.Cookie{Name: s.Cookie.Name, Value: s.Cookie.Value})
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	var resp apiResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(s.T(), json.Unmarshal(resp.Body, dst))
}

func (s *APITestSuite) TestSecureRoutesRequireSession() {
	rec := s.do(http.MethodGet, "/api/tickets", "", false)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/auth/me", "", false)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"body":null`)
}

func (s *APITestSuite) TestMe() {
	rec := s.do(http.MethodGet, "/api/auth/me", "", true)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var me struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	}
	s.decode(rec, &me)
	assert.Equal(s.T(), s.AdminID, me.ID)
	assert.Equal(s.T(), "tech1", me.Username)
}

func (s *APITestSuite) TestTicketPagination() {
	search := url.QueryEscape("Pagination Test")
	seen := map[uint64]bool{}

	for page, want := range map[int]int{1: 10, 2: 5} {
		rec := s.do(http.MethodGet, fmt.Sprintf("/api/tickets?search=%s&limit=10&page=%d&sortBy=id&sort=asc", search, page), "", true)
		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

		var res ticketPage
		s.decode(rec, &res)
		assert.Len(s.T(), res.List, want)
		assert.Equal(s.T(), uint64(15), res.Metadata.Total)
		assert.Equal(s.T(), 2, res.Metadata.TotalPages)
		for _, t := range res.List {
			assert.False(s.T(), seen[t.ID], "тикет %d попал на две страницы", t.ID)
			seen[t.ID] = true
		}
	}
	assert.Len(s.T(), seen, 15)
}

func (s *APITestSuite) TestTicketStatusFilter() {
	rec := s.do(http.MethodGet, "/api/tickets?status=Unassigned&limit=100", "", true)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var res ticketPage
	s.decode(rec, &res)
	assert.NotEmpty(s.T(), res.List)
	for _, t := range res.List {
		assert.Equal(s.T(), "Unassigned", t.Status)
	}

	rec = s.do(http.MethodGet, "/api/tickets?status=Whatever", "", true)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestClockFlow() {
	t := s.T()

	rec := s.do(http.MethodPost, "/api/time-logs", `{"action":"clock-in"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/time-logs", `{"action":"clock-in"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for _, action := range []string{"lunch-start", "lunch-end", "clock-out"} {
		rec = s.do(http.MethodPost, "/api/time-logs", `{"action":"`+action+`"}`, true)
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", action, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/time-logs/summary", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		AdminID uint64 `json:"admin_id"`
		Days    []struct {
			Date string            `json:"date"`
			Logs []json.RawMessage `json:"logs"`
		} `json:"days"`
	}
	s.decode(rec, &summary)
	assert.Equal(t, s.AdminID, summary.AdminID)

	today := time.Now().UTC().Format("2006-01-02")
	found := false
	for _, d := range summary.Days {
		if d.Date == today {
			found = true
			assert.Len(t, d.Logs, 1)
		}
	}
	assert.True(t, found, "сегодняшний день должен входить в текущий расчётный период")
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
