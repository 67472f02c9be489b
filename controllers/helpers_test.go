package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
	"github.com/savora-app/savora_backend/utils"
)

var errBackend = errors.New("backend unavailable")

type fakeFavorites struct {
	mu      sync.Mutex
	rows    map[string][]models.Favorite
	failAll bool
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{rows: map[string][]models.Favorite{}}
}

func (f *fakeFavorites) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBackend
	}
	return append([]models.Favorite(nil), f.rows[userID]...), nil
}

func (f *fakeFavorites) CreateFavorite(ctx context.Context, userID string, item models.MenuItemRef) (*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errBackend
	}
	fav := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		MenuItemID: item.ID,
		MenuItem:   &item,
		CreatedAt:  time.Now(),
	}
	f.rows[userID] = append(f.rows[userID], fav)
	return &fav, nil
}

func (f *fakeFavorites) DeleteFavorite(ctx context.Context, userID, favoriteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errBackend
	}
	rows := f.rows[userID][:0]
	for _, row := range f.rows[userID] {
		if row.ID.Hex() != favoriteID {
			rows = append(rows, row)
		}
	}
	f.rows[userID] = rows
	return nil
}

type fakeSettingsRemote struct {
	mu    sync.Mutex
	row   *models.RestaurantSettings
	fail  bool
	saves int
}

func (f *fakeSettingsRemote) FindRestaurantSettings(ctx context.Context) (*models.RestaurantSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBackend
	}
	return f.row, nil
}

func (f *fakeSettingsRemote) SaveRestaurantSettings(ctx context.Context, s models.RestaurantSettings) (*models.RestaurantSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBackend
	}
	f.saves++
	f.row = &s
	return &s, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (f *fakeTokens) UpdatePushToken(ctx context.Context, userID, token, platform string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = token
	return nil
}

func (f *fakeTokens) PushToken(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[userID], nil
}

type fakePusher struct {
	mu       sync.Mutex
	payloads []models.PushPayload
}

func (p *fakePusher) Send(ctx context.Context, token string, payload models.PushPayload) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return "msg", nil
}

func noTimers(time.Duration, func()) func() bool {
	return func() bool { return true }
}

type testEnv struct {
	e         *echo.Echo
	sessions  *stores.Sessions
	favorites *fakeFavorites
	remote    *fakeSettingsRemote
	settings  *stores.RestaurantSettings
	tokens    *fakeTokens
	pusher    *fakePusher
}

func newTestEnv() *testEnv {
	e := echo.New()
	e.Validator = utils.NewValidator()

	favorites := newFakeFavorites()
	remote := &fakeSettingsRemote{}
	return &testEnv{
		e:         e,
		favorites: favorites,
		remote:    remote,
		settings:  stores.NewRestaurantSettings(remote, nil, ""),
		sessions: stores.NewSessions(stores.SessionDeps{
			Favorites:     favorites,
			Notifications: stores.NotificationOptions{Schedule: noTimers},
		}),
		tokens: &fakeTokens{tokens: map[string]string{}},
		pusher: &fakePusher{},
	}
}

type call struct {
	method string
	path   string
	body   string
	userID string
	params map[string]string
}

// serve runs handler for the call the way the router would after the JWT middleware
func (env *testEnv) serve(t *testing.T, handler echo.HandlerFunc, c call) (*httptest.ResponseRecorder, models.Response) {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	ctx := env.e.NewContext(req, rec)
	if c.userID != "" {
		ctx.Set("userId", c.userID)
	}
	if len(c.params) > 0 {
		var names, values []string
		for name, value := range c.params {
			names = append(names, name)
			values = append(values, value)
		}
		ctx.SetParamNames(names...)
		ctx.SetParamValues(values...)
	}

	require.NoError(t, handler(ctx))

	var resp models.Response
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// decodeData re-decodes the response data into v
func decodeData(t *testing.T, resp models.Response, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}
