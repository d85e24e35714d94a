package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sakmfg/backoffice/internal/interfaces/http/router"
)

func okHandler(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_MountsUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	receipts := router.NewDomainGroup("receiving", "/receipts")
	receipts.GET("", okHandler("receipt list"))

	r := router.NewRouter(engine)
	r.Register(receipts)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/receipts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "receipt list", w.Body.String())
}

func TestRouter_CustomAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	receipts := router.NewDomainGroup("receiving", "/receipts")
	receipts.GET("", okHandler("v2 list"))

	r := router.NewRouter(engine, router.WithAPIVersion("v2"))
	r.Register(receipts)
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/receipts").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/receipts").Code)
}

func TestRouter_MiddlewareAppliesToAllGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var paths []string
	audit := func(c *gin.Context) {
		paths = append(paths, c.Request.URL.Path)
		c.Next()
	}

	receipts := router.NewDomainGroup("receiving", "/receipts")
	receipts.GET("", okHandler("receipts"))
	uids := router.NewDomainGroup("traceability", "/uids")
	uids.GET("", okHandler("uids"))

	r := router.NewRouter(engine)
	r.Use(audit)
	r.Register(receipts).Register(uids)
	r.Setup()

	serve(engine, http.MethodGet, "/api/v1/receipts")
	serve(engine, http.MethodGet, "/api/v1/uids")

	assert.Equal(t, []string{"/api/v1/receipts", "/api/v1/uids"}, paths)
}

func TestDomainGroup_AllMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	notes := router.NewDomainGroup("debit-notes", "/debit-notes")
	notes.GET("", okHandler("list")).
		POST("", okHandler("create")).
		PUT("/:id", okHandler("replace")).
		PATCH("/:id/status", okHandler("status")).
		DELETE("/:id", okHandler("delete"))

	r := router.NewRouter(engine)
	r.Register(notes)
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/debit-notes").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/debit-notes").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/v1/debit-notes/dn-1").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPatch, "/api/v1/debit-notes/dn-1/status").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodDelete, "/api/v1/debit-notes/dn-1").Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	guarded := 0
	guard := func(c *gin.Context) {
		guarded++
		c.Next()
	}

	stock := router.NewDomainGroup("stock", "/stock")
	stock.Use(guard)
	stock.GET("/movements", okHandler("movements"))

	open := router.NewDomainGroup("system", "/system")
	open.GET("/ping", okHandler("pong"))

	r := router.NewRouter(engine)
	r.Register(stock).Register(open)
	r.Setup()

	serve(engine, http.MethodGet, "/api/v1/stock/movements")
	serve(engine, http.MethodGet, "/api/v1/system/ping")

	assert.Equal(t, 1, guarded)
}

func TestDomainGroup_Subgroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	system := router.NewDomainGroup("system", "/system")
	system.GET("/ping", okHandler("pong"))

	outbox := system.Group("outbox", "/outbox")
	outbox.GET("/stats", okHandler("stats"))

	r := router.NewRouter(engine)
	r.Register(system)
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/outbox/stats").Code)
}

func TestDomainGroup_Name(t *testing.T) {
	dg := router.NewDomainGroup("receiving", "/receipts")
	assert.Equal(t, "receiving", dg.Name())
}
