package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sherdwhite/book-trader/config"
	auction "github.com/sherdwhite/book-trader/internal/auctionService"
	auth "github.com/sherdwhite/book-trader/internal/authService"
	catalog "github.com/sherdwhite/book-trader/internal/catalogService"
	"github.com/sherdwhite/book-trader/internal/repository"
	"github.com/sherdwhite/book-trader/internal/server"
	trade "github.com/sherdwhite/book-trader/internal/tradeService"
)

// stubMailer records verification codes instead of sending them.
type stubMailer struct {
	codes []string
}

func (m *stubMailer) SendVerificationCode(to, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *stubMailer) lastCode() string {
	return m.codes[len(m.codes)-1]
}

// SetupTestRouter initializes the full router over an in-memory database.
func SetupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *stubMailer) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := repository.OpenTestDB()
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	mailer := &stubMailer{}
	identityStore := repository.NewIdentityStore(db)

	svc := server.Services{
		Catalog: catalog.NewCatalogService(repository.NewCatalogStore(db)),
		Auction: auction.NewAuctionService(repository.NewAuctionStore(db)),
		Trade:   trade.NewTradeService(repository.NewTradeStore(db), identityStore),
		Auth:    auth.NewAuthService(identityStore, mailer),
	}

	return server.SetupRouter(svc, "integration-test-secret"), db, mailer
}

// apiClient carries session cookies across requests, like a browser would.
type apiClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newAPIClient(t *testing.T, router *gin.Engine) *apiClient {
	return &apiClient{t: t, router: router}
}

// Do executes a request, retains any session cookies, and parses the JSON
// body when present.
func (c *apiClient) Do(method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	c.t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(c.t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// data unwraps the data envelope as an object.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()

	obj, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response should carry a data object, got %v", resp)
	return obj
}

// list unwraps the data envelope as an array.
func list(t *testing.T, resp map[string]any) []any {
	t.Helper()

	arr, ok := resp["data"].([]any)
	require.True(t, ok, "response should carry a data array, got %v", resp)
	return arr
}

// id extracts a numeric id from a data object.
func id(t *testing.T, obj map[string]any) uint {
	t.Helper()

	raw, ok := obj["id"].(float64)
	require.True(t, ok, "object should carry an id, got %v", obj)
	return uint(raw)
}
