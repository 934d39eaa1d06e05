package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/service"
	"github.com/SmartDevNG/smartdev_api/internal/sse"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	router    *gin.Engine
	purchases *service.PurchaseService
}

func newTestServer(t *testing.T, delay time.Duration) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	cat := catalog.Default()
	purchases := service.NewPurchaseService(cat, &sse.NopNotifier{}, nil, delay)
	t.Cleanup(purchases.Shutdown)

	catalogH := NewCatalogHandler(cat)
	purchaseH := NewPurchaseHandler(purchases)
	healthH := NewHealthHandler(purchases, nil)
	streamH := NewSSEHandler(sse.NewHub())

	r := gin.New()
	r.GET("/v1/health", healthH.GetHealth)
	r.GET("/v1/catalog/services", catalogH.GetServices)
	r.GET("/v1/catalog/meter-types", catalogH.GetMeterTypes)
	r.GET("/v1/catalog/:service/providers", catalogH.GetProviders)
	r.GET("/v1/catalog/:service/providers/:providerId/products", catalogH.GetProducts)
	r.GET("/v1/catalog/:service/denominations", catalogH.GetDenominations)
	r.GET("/v1/transactions/stream", streamH.Stream)

	p := r.Group("/v1/purchases")
	p.POST("", purchaseH.CreatePurchase)
	p.GET("/:sessionId", purchaseH.GetPurchase)
	p.DELETE("/:sessionId", purchaseH.EndPurchase)
	p.PUT("/:sessionId/service", purchaseH.SetService)
	p.PUT("/:sessionId/provider", purchaseH.SetProvider)
	p.PUT("/:sessionId/product", purchaseH.SetProduct)
	p.PUT("/:sessionId/denomination", purchaseH.SelectDenomination)
	p.PUT("/:sessionId/custom-amount", purchaseH.SetCustomAmount)
	p.PUT("/:sessionId/amount", purchaseH.SetAmount)
	p.PUT("/:sessionId/recipient", purchaseH.SetRecipient)
	p.PUT("/:sessionId/meter-type", purchaseH.SetMeterType)
	p.PUT("/:sessionId/payment-method", purchaseH.SetPaymentMethod)
	p.PUT("/:sessionId/secret", purchaseH.SetSecret)
	p.POST("/:sessionId/submit", purchaseH.Submit)
	p.POST("/:sessionId/acknowledge", purchaseH.Acknowledge)

	return &testServer{router: r, purchases: purchases}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) create(t *testing.T, body interface{}) purchaseView {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/v1/purchases", body)
	require.Equal(t, http.StatusCreated, code)
	return decodeView(t, env)
}

func decodeView(t *testing.T, env envelope) purchaseView {
	t.Helper()
	var view purchaseView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}
