package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/dto"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/invoicing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSession = "sess-1"

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func newTestApp(t *testing.T, deleteEnabled bool) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Invoice{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, mr.Set("session:"+testSession, "user-1"))

	log := zap.NewNop()
	svc := invoicing.NewInvoiceService(
		repository.NewInvoiceRepository(db),
		cache.NewRouteCache(rdb, time.Minute),
		log,
		deleteEnabled,
	)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Invoices:      svc,
		Sessions:      auth.NewSessionStore(rdb),
		SessionCookie: "session_id",
		LoginPath:     "/login",
		Log:           log,
	})
	return &testApp{router: r, db: db, redis: mr}
}

func (a *testApp) do(method, target string, form url.Values, signedIn bool) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if signedIn {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: testSession})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) onlyInvoice(t *testing.T) models.Invoice {
	t.Helper()
	var invoices []models.Invoice
	require.NoError(t, a.db.Find(&invoices).Error)
	require.Len(t, invoices, 1)
	return invoices[0]
}

func validForm() url.Values {
	return url.Values{"customerId": {"c1"}, "amount": {"45.00"}, "status": {"paid"}}
}

func TestHealthBypassesGate(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodGet, "/api/health", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodGet, "/login", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/login", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/dashboard", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestCreateInvoice_RequiresSession(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodPost, "/dashboard/invoices", validForm(), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?callbackUrl="))
	var count int64
	require.NoError(t, app.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateInvoice_RedirectsAndRefreshesListing(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodGet, "/dashboard/invoices", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"invoices":[]}`, w.Body.String())
	assert.True(t, app.redis.Exists("route:/dashboard/invoices"))

	w = app.do(http.MethodPost, "/dashboard/invoices", validForm(), true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/invoices", w.Header().Get("Location"))
	assert.False(t, app.redis.Exists("route:/dashboard/invoices"))

	inv := app.onlyInvoice(t)
	assert.Equal(t, "c1", inv.CustomerID)
	assert.Equal(t, int64(4500), inv.Amount)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), time.Time(inv.Date).Format("2006-01-02"))

	w = app.do(http.MethodGet, "/dashboard/invoices", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var body dto.ListInvoicesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Invoices, 1)
	assert.Equal(t, inv.ID.String(), body.Invoices[0].ID)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), body.Invoices[0].Date)
}

func TestCreateInvoice_ValidationErrors(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodPost, "/dashboard/invoices", url.Values{"amount": {"0"}, "status": {"foo"}}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{
		"errors": {
			"customerId": ["please select a customer"],
			"amount": ["amount should be greater than $0"],
			"status": ["please select an invoice status"]
		},
		"message": "Missing fiels, failed to create invoice."
	}`, w.Body.String())
}

func TestCreateInvoice_DatabaseError(t *testing.T) {
	app := newTestApp(t, false)
	require.NoError(t, app.db.Migrator().DropTable(&models.Invoice{}))

	w := app.do(http.MethodPost, "/dashboard/invoices", validForm(), true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"DB error: failed to create invoice"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Location"))
}

func TestUpdateInvoice(t *testing.T) {
	app := newTestApp(t, false)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/dashboard/invoices", validForm(), true).Code)
	before := app.onlyInvoice(t)

	form := url.Values{"customerId": {"c2"}, "amount": {"10.5"}, "status": {"pending"}}
	w := app.do(http.MethodPost, "/dashboard/invoices/"+before.ID.String()+"/edit", form, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/invoices", w.Header().Get("Location"))

	after := app.onlyInvoice(t)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, time.Time(before.Date).Format("2006-01-02"), time.Time(after.Date).Format("2006-01-02"))
	assert.Equal(t, "c2", after.CustomerID)
	assert.Equal(t, int64(1050), after.Amount)
	assert.Equal(t, models.InvoiceStatusPending, after.Status)

	w = app.do(http.MethodPost, "/dashboard/invoices/"+before.ID.String()+"/edit", url.Values{}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Missing fields, failed to update invoice.")
}

func TestGetInvoice(t *testing.T) {
	app := newTestApp(t, false)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/dashboard/invoices", validForm(), true).Code)
	inv := app.onlyInvoice(t)

	w := app.do(http.MethodGet, "/dashboard/invoices/"+inv.ID.String(), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inv.ID.String())

	var body dto.GetInvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, time.Time(inv.Date).Format("2006-01-02"), body.Invoice.Date)

	w = app.do(http.MethodGet, "/dashboard/invoices/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetInvoice_MalformedID(t *testing.T) {
	app := newTestApp(t, false)

	for _, id := range []string{"abc", "does-not-exist", "123"} {
		w := app.do(http.MethodGet, "/dashboard/invoices/"+id, nil, true)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.JSONEq(t, `{"error":"invoice not found"}`, w.Body.String())
	}
}

func TestUnknownPathsAreGated(t *testing.T) {
	app := newTestApp(t, false)

	w := app.do(http.MethodGet, "/nowhere", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/dashboard/nowhere", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?callbackUrl="))

	w = app.do(http.MethodGet, "/nowhere", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/nowhere", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteInvoice_Locked(t *testing.T) {
	app := newTestApp(t, false)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/dashboard/invoices", validForm(), true).Code)
	inv := app.onlyInvoice(t)

	w := app.do(http.MethodPost, "/dashboard/invoices/"+inv.ID.String()+"/delete", nil, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"unable to touch invoice"}`, w.Body.String())
	app.onlyInvoice(t)
}

func TestDeleteInvoice_Enabled(t *testing.T) {
	app := newTestApp(t, true)
	require.Equal(t, http.StatusSeeOther, app.do(http.MethodPost, "/dashboard/invoices", validForm(), true).Code)
	inv := app.onlyInvoice(t)

	w := app.do(http.MethodPost, "/dashboard/invoices/"+inv.ID.String()+"/delete", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Invoice deleted"}`, w.Body.String())
	var count int64
	require.NoError(t, app.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}
