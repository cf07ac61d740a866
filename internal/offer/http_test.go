package offer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sambafall/teranga/internal/config"
	"github.com/stretchr/testify/require"
)

type listEnvelope struct {
	Success    bool              `json:"success"`
	Data       []json.RawMessage `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newOfferRouter(seed []Offer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := NewMemoryStore(seed)
	service := NewService(store, &fakeImageStore{}, config.SearchConfig{DefaultLimit: 12, MaxLimit: 100})

	router := gin.New()
	RegisterRoutes(router.Group("/v1"), service)
	return router
}

func TestListOffersHidesInactive(t *testing.T) {
	router := newOfferRouter([]Offer{
		{ID: fixedUUID(1), Title: "Visible", Destination: "Dakar", Category: "city", Price: 100, IsActive: true},
		{ID: fixedUUID(2), Title: "Hidden", Destination: "Dakar", Category: "city", Price: 100, IsActive: false},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offers", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	require.Equal(t, 1, envelope.Pagination.Total)
	require.Equal(t, 12, envelope.Pagination.Limit)
}

func TestListOffersRejectsBadNumericParam(t *testing.T) {
	router := newOfferRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offers?minPrice=abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestSearchOffersInvertedBoundsReturnEmptyPage(t *testing.T) {
	router := newOfferRouter([]Offer{
		{ID: fixedUUID(1), Title: "Trip", Destination: "Dakar", Category: "city", Price: 100, IsActive: true},
	})

	body := `{"minPrice": 500, "maxPrice": 100}`
	req := httptest.NewRequest(http.MethodPost, "/v1/offers/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Empty(t, envelope.Data)
	require.Equal(t, 0, envelope.Pagination.Total)
	require.Equal(t, 0, envelope.Pagination.TotalPages)
}

func TestGetOfferByID(t *testing.T) {
	id := fixedUUID(3)
	router := newOfferRouter([]Offer{
		{ID: id, Title: "Goree Island Tour", Destination: "Goree", Category: "city", Price: 60000, IsActive: true},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offers/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool  `json:"success"`
		Data    Offer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "Goree Island Tour", envelope.Data.Title)
}

func TestGetOfferUnknownID(t *testing.T) {
	router := newOfferRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offers/"+fixedUUID(9).String(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOfferMalformedID(t *testing.T) {
	router := newOfferRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/offers/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeaturedFeeds(t *testing.T) {
	discount := 30.0
	router := newOfferRouter([]Offer{
		{ID: fixedUUID(1), Title: "Promo", Price: 100, IsActive: true, IsPromotion: true, PromotionDiscount: &discount},
		{ID: fixedUUID(2), Title: "Plain", Price: 100, IsActive: true},
	})

	for _, path := range []string{"/v1/featured/promotions", "/v1/featured/popular", "/v1/featured/suggestions"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)

		var envelope listEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.True(t, envelope.Success, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/featured/promotions", nil))
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1, "only active promotions in the feed")
}
