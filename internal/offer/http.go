package offer

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/api"
)

// RegisterRoutes mounts the public offer endpoints.
//
// The featured feeds live under /featured because Gin's router does not
// allow static children next to the :offerID parameter.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}

	offers := router.Group("/offers")
	{
		offers.GET("", handler.list)
		offers.POST("/search", handler.search)
		offers.GET("/:offerID", handler.get)
	}

	featured := router.Group("/featured")
	{
		featured.GET("/promotions", handler.promotions)
		featured.GET("/popular", handler.popular)
		featured.GET("/suggestions", handler.suggestions)
	}
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) list(c *gin.Context) {
	params, err := paramsFromQuery(c)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	activeOnly := true
	params.ActiveOnly = &activeOnly

	page, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to list offers")
		return
	}

	api.Paginated(c, Summaries(page.Data), api.Pagination{
		Page: page.Page, Limit: page.Limit, Total: page.Total, TotalPages: page.TotalPages,
	})
}

// searchRequest is the advanced-search body; every field is optional.
type searchRequest struct {
	Search        string   `json:"search"`
	Destination   string   `json:"destination"`
	Category      string   `json:"category"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
	MinDuration   *int     `json:"minDuration"`
	MaxDuration   *int     `json:"maxDuration"`
	Durations     []string `json:"durations"`
	MinRating     *float64 `json:"minRating"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate"`
	Travelers     *int     `json:"travelers"`
	IsPromotion   *bool    `json:"isPromotion"`
	SortBy        string   `json:"sortBy"`
	SortOrder     string   `json:"sortOrder"`
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
}

func (h *httpHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	departure, err := parseDate(req.DepartureDate)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid departureDate")
		return
	}
	returnBy, err := parseDate(req.ReturnDate)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid returnDate")
		return
	}

	activeOnly := true
	params := Params{
		Filters: Filters{
			Search:          req.Search,
			Destination:     req.Destination,
			Category:        req.Category,
			MinPrice:        req.MinPrice,
			MaxPrice:        req.MaxPrice,
			MinDuration:     req.MinDuration,
			MaxDuration:     req.MaxDuration,
			DurationBuckets: req.Durations,
			MinRating:       req.MinRating,
			Difficulty:      Difficulty(req.Difficulty),
			Tags:            req.Tags,
			DepartureFrom:   departure,
			ReturnBy:        returnBy,
			Travelers:       req.Travelers,
			PromotionOnly:   req.IsPromotion != nil && *req.IsPromotion,
			ActiveOnly:      &activeOnly,
		},
		Page:      req.Page,
		Limit:     req.Limit,
		SortBy:    SortKey(req.SortBy),
		SortOrder: SortOrder(req.SortOrder),
	}

	page, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "search failed")
		return
	}

	api.Paginated(c, Summaries(page.Data), api.Pagination{
		Page: page.Page, Limit: page.Limit, Total: page.Total, TotalPages: page.TotalPages,
	})
}

func (h *httpHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("offerID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidInput, "invalid offer id")
		return
	}

	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "offer not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to fetch offer")
		return
	}

	api.OK(c, o)
}

func (h *httpHandler) promotions(c *gin.Context) {
	h.feed(c, h.service.Promotional)
}

func (h *httpHandler) popular(c *gin.Context) {
	h.feed(c, h.service.Popular)
}

func (h *httpHandler) suggestions(c *gin.Context) {
	h.feed(c, h.service.Suggested)
}

func (h *httpHandler) feed(c *gin.Context, fetch func(ctx context.Context) ([]Offer, error)) {
	offers, err := fetch(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to fetch offers")
		return
	}
	api.OK(c, Summaries(offers))
}

func paramsFromQuery(c *gin.Context) (Params, error) {
	var (
		params Params
		err    error
	)

	params.Search = c.Query("search")
	params.Destination = c.Query("destination")
	params.Category = c.Query("category")
	params.Difficulty = Difficulty(c.Query("difficulty"))
	params.Tags = c.QueryArray("tags")
	params.DurationBuckets = c.QueryArray("durations")
	params.SortBy = SortKey(c.Query("sortBy"))
	params.SortOrder = SortOrder(c.Query("sortOrder"))

	if params.Page, err = queryInt(c, "page"); err != nil {
		return Params{}, err
	}
	if params.Limit, err = queryInt(c, "limit"); err != nil {
		return Params{}, err
	}
	if params.MinPrice, err = queryFloatPtr(c, "minPrice"); err != nil {
		return Params{}, err
	}
	if params.MaxPrice, err = queryFloatPtr(c, "maxPrice"); err != nil {
		return Params{}, err
	}
	if params.MinDuration, err = queryIntPtr(c, "minDuration"); err != nil {
		return Params{}, err
	}
	if params.MaxDuration, err = queryIntPtr(c, "maxDuration"); err != nil {
		return Params{}, err
	}
	if params.MinRating, err = queryFloatPtr(c, "minRating"); err != nil {
		return Params{}, err
	}
	if params.Travelers, err = queryIntPtr(c, "travelers"); err != nil {
		return Params{}, err
	}
	if params.DepartureFrom, err = queryDatePtr(c, "departureDate"); err != nil {
		return Params{}, err
	}
	if params.ReturnBy, err = queryDatePtr(c, "returnDate"); err != nil {
		return Params{}, err
	}
	if raw := c.Query("isPromotion"); raw != "" {
		promo, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return Params{}, errors.New("invalid isPromotion")
		}
		params.PromotionOnly = promo
	}

	return params, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func queryIntPtr(c *gin.Context, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &n, nil
}

func queryFloatPtr(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &f, nil
}

func queryDatePtr(c *gin.Context, key string) (*time.Time, error) {
	t, err := parseDate(c.Query(key))
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return t, nil
}

// parseDate accepts RFC 3339 or a plain calendar date.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
