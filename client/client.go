package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// Role identifies which side of the API a session belongs to.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// User is the account identity returned by the API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItineraryDay is a single day of an offer's itinerary.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Offer is a bookable travel package as served by the API.
type Offer struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Slug              string         `json:"slug"`
	Destination       string         `json:"destination"`
	Category          string         `json:"category"`
	Price             float64        `json:"price"`
	Currency          string         `json:"currency"`
	Duration          int            `json:"duration"`
	Description       string         `json:"description"`
	Images            []string       `json:"images"`
	Itinerary         []ItineraryDay `json:"itinerary"`
	Included          []string       `json:"included"`
	Excluded          []string       `json:"excluded"`
	IsActive          bool           `json:"is_active"`
	IsPromotion       bool           `json:"is_promotion"`
	PromotionDiscount *float64       `json:"promotion_discount"`
	PromotionEndsAt   *time.Time     `json:"promotion_ends_at"`
	Rating            float64        `json:"rating"`
	ReviewsCount      int            `json:"reviews_count"`
	BookingsCount     int            `json:"bookings_count"`
	ViewsCount        int            `json:"views_count"`
	MaxCapacity       int            `json:"max_capacity"`
	AvailableSeats    int            `json:"available_seats"`
	DepartureDate     *time.Time     `json:"departure_date"`
	ReturnDate        *time.Time     `json:"return_date"`
	Tags              []string       `json:"tags"`
	Difficulty        string         `json:"difficulty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Category groups offers for navigation.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// Pagination describes the window of a paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DefaultPagination is used when a listing response carries no pagination
// block.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, Limit: 12}
}

// OfferPage is one page of offer search results.
type OfferPage struct {
	Offers     []Offer
	Pagination Pagination
}

// SearchParams mirrors the query parameters of the offer listing
// endpoint. Zero values are omitted from the query string.
type SearchParams struct {
	Search        string     `url:"search,omitempty"`
	Destination   string     `url:"destination,omitempty"`
	Category      string     `url:"category,omitempty"`
	MinPrice      *float64   `url:"minPrice,omitempty"`
	MaxPrice      *float64   `url:"maxPrice,omitempty"`
	MinDuration   *int       `url:"minDuration,omitempty"`
	MaxDuration   *int       `url:"maxDuration,omitempty"`
	Durations     []string   `url:"durations,omitempty"`
	MinRating     *float64   `url:"minRating,omitempty"`
	Difficulty    string     `url:"difficulty,omitempty"`
	Tags          []string   `url:"tags,omitempty"`
	DepartureDate *time.Time `url:"departureDate,omitempty" layout:"2006-01-02"`
	ReturnDate    *time.Time `url:"returnDate,omitempty" layout:"2006-01-02"`
	Travelers     *int       `url:"travelers,omitempty"`
	IsPromotion   *bool      `url:"isPromotion,omitempty"`
	Page          int        `url:"page,omitempty"`
	Limit         int        `url:"limit,omitempty"`
	SortBy        string     `url:"sortBy,omitempty"`
	SortOrder     string     `url:"sortOrder,omitempty"`
}

// AuthResponse is the payload returned by login, register and refresh.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// APIError is a structured error response from the API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client is a typed HTTP client for the Teranga API.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	session *Session
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	store            TokenStore
	httpClient       *http.Client
	onSessionExpired func()
}

// WithTokenStore sets the store used to persist the token pair.
func WithTokenStore(store TokenStore) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient sets the underlying HTTP client. Its Transport is used
// as the base for the refreshing transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithOnSessionExpired registers a hook invoked when the session cannot
// be recovered by a token refresh.
func WithOnSessionExpired(hook func()) Option {
	return func(o *options) { o.onSessionExpired = hook }
}

// New constructs a Client for the API at baseURL, which should include
// the version prefix, e.g. "https://api.example.sn/v1".
func New(baseURL string, opts ...Option) *Client {
	o := options{
		store:      NewMemoryTokenStore(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	session := newSession()
	expired := func() {
		session.clear()
		if o.onSessionExpired != nil {
			o.onSessionExpired()
		}
	}

	transport := &Transport{
		Base:             o.httpClient.Transport,
		Store:            o.store,
		RefreshURL:       baseURL + "/auth/refresh",
		OnSessionExpired: expired,
	}

	httpClient := *o.httpClient
	httpClient.Transport = transport

	return &Client{
		baseURL: baseURL,
		http:    &httpClient,
		store:   o.store,
		session: session,
	}
}

// Session exposes the authentication state tracked by this client.
func (c *Client) Session() *Session {
	return c.session
}

// LoginAdmin authenticates an administrator and stores the issued tokens.
func (c *Client) LoginAdmin(ctx context.Context, email, password string) (AuthResponse, error) {
	return c.login(ctx, "/auth/admin/login", email, password)
}

// LoginClient authenticates a client account and stores the issued tokens.
func (c *Client) LoginClient(ctx context.Context, email, password string) (AuthResponse, error) {
	return c.login(ctx, "/auth/client/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (AuthResponse, error) {
	var auth AuthResponse
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, path, nil, body, &auth); err != nil {
		return AuthResponse{}, err
	}
	if err := c.adoptSession(auth); err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
}

// RegisterAdmin creates an administrator account and stores the issued
// tokens.
func (c *Client) RegisterAdmin(ctx context.Context, input RegisterInput) (AuthResponse, error) {
	return c.register(ctx, "/auth/admin/register", input)
}

// RegisterClient creates a client account and stores the issued tokens.
func (c *Client) RegisterClient(ctx context.Context, input RegisterInput) (AuthResponse, error) {
	return c.register(ctx, "/auth/client/register", input)
}

func (c *Client) register(ctx context.Context, path string, input RegisterInput) (AuthResponse, error) {
	var auth AuthResponse
	if _, err := c.do(ctx, http.MethodPost, path, nil, input, &auth); err != nil {
		return AuthResponse{}, err
	}
	if err := c.adoptSession(auth); err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

// Logout revokes the refresh token server-side and clears local state.
// Local state is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	pair, _ := c.store.Load()

	var serverErr error
	if pair.Valid() {
		body := map[string]string{"refreshToken": pair.RefreshToken}
		_, serverErr = c.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil)
	}

	if err := c.store.Clear(); err != nil {
		return err
	}
	c.session.clear()
	return serverErr
}

// Profile fetches the authenticated account, role included, and updates
// the session state.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &user); err != nil {
		return User{}, err
	}
	c.session.setUser(user)
	return user, nil
}

// Offers lists active offers matching the given filters.
func (c *Client) Offers(ctx context.Context, params SearchParams) (OfferPage, error) {
	values, err := query.Values(params)
	if err != nil {
		return OfferPage{}, fmt.Errorf("encode search params: %w", err)
	}

	path := "/offers"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var offers []Offer
	pagination, err := c.do(ctx, http.MethodGet, path, nil, nil, &offers)
	if err != nil {
		return OfferPage{}, err
	}
	return OfferPage{Offers: offers, Pagination: pagination}, nil
}

// SearchRequest is the JSON body accepted by the advanced search
// endpoint. Dates use the 2006-01-02 layout.
type SearchRequest struct {
	Search        string   `json:"search,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	Category      string   `json:"category,omitempty"`
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	MinDuration   *int     `json:"minDuration,omitempty"`
	MaxDuration   *int     `json:"maxDuration,omitempty"`
	Durations     []string `json:"durations,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	DepartureDate string   `json:"departureDate,omitempty"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	Travelers     *int     `json:"travelers,omitempty"`
	IsPromotion   *bool    `json:"isPromotion,omitempty"`
	SortBy        string   `json:"sortBy,omitempty"`
	SortOrder     string   `json:"sortOrder,omitempty"`
	Page          int      `json:"page,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// SearchOffers runs an advanced search with filters in the request body.
func (c *Client) SearchOffers(ctx context.Context, req SearchRequest) (OfferPage, error) {
	var offers []Offer
	pagination, err := c.do(ctx, http.MethodPost, "/offers/search", nil, req, &offers)
	if err != nil {
		return OfferPage{}, err
	}
	return OfferPage{Offers: offers, Pagination: pagination}, nil
}

// Offer fetches a single offer by id.
func (c *Client) Offer(ctx context.Context, id string) (Offer, error) {
	var offer Offer
	if _, err := c.do(ctx, http.MethodGet, "/offers/"+id, nil, nil, &offer); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// Promotions lists offers with an active promotion.
func (c *Client) Promotions(ctx context.Context) ([]Offer, error) {
	return c.feed(ctx, "/featured/promotions")
}

// Popular lists the most-booked offers.
func (c *Client) Popular(ctx context.Context) ([]Offer, error) {
	return c.feed(ctx, "/featured/popular")
}

// Suggestions lists the highest-rated offers.
func (c *Client) Suggestions(ctx context.Context) ([]Offer, error) {
	return c.feed(ctx, "/featured/suggestions")
}

func (c *Client) feed(ctx context.Context, path string) ([]Offer, error) {
	var offers []Offer
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// Categories lists the active offer categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if _, err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SiteSettings is the public configuration of the agency site.
type SiteSettings struct {
	Company struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Whatsapp    string `json:"whatsappNumber"`
		Address     string `json:"address"`
		Description string `json:"description"`
	} `json:"company"`
	WhatsApp struct {
		Enabled         bool   `json:"enabled"`
		PhoneNumber     string `json:"phoneNumber"`
		MessageTemplate string `json:"messageTemplate"`
	} `json:"whatsapp"`
	General struct {
		Currency string `json:"currency"`
		Timezone string `json:"timezone"`
		Language string `json:"language"`
	} `json:"general"`
}

// Settings fetches the public site settings.
func (c *Client) Settings(ctx context.Context) (SiteSettings, error) {
	var settings SiteSettings
	if _, err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &settings); err != nil {
		return SiteSettings{}, err
	}
	return settings, nil
}

// WhatsAppLinkInput describes a booking link request.
type WhatsAppLinkInput struct {
	OfferID       string `json:"offerId"`
	Phone         string `json:"phone,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomMessage string `json:"customMessage,omitempty"`
}

// GenerateWhatsAppLink asks the API for a wa.me booking link. Requires an
// authenticated session.
func (c *Client) GenerateWhatsAppLink(ctx context.Context, input WhatsAppLinkInput) (string, error) {
	var payload struct {
		Link string `json:"link"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/whatsapp/generate-link", nil, input, &payload); err != nil {
		return "", err
	}
	return payload.Link, nil
}

// adoptSession saves the token pair and records the authenticated user.
func (c *Client) adoptSession(auth AuthResponse) error {
	pair := TokenPair{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken}
	if err := c.store.Save(pair); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	c.session.setUser(auth.User)
	return nil
}

// do executes a request and decodes the envelope. Non-2xx responses are
// returned as *APIError. The returned pagination has sane defaults when
// the response carries none.
func (c *Client) do(ctx context.Context, method, path string, headers http.Header, body, out any) (Pagination, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return Pagination{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Pagination{}, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Pagination{}, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success    bool            `json:"success"`
		Data       json.RawMessage `json:"data"`
		Message    string          `json:"message"`
		Error      *APIError       `json:"error"`
		Pagination *Pagination     `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// Proxies and load balancers answer with HTML or empty bodies.
		// An error status still surfaces as APIError, not a decode error.
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Pagination{}, &APIError{
				Status:  resp.StatusCode,
				Code:    "UNKNOWN",
				Message: http.StatusText(resp.StatusCode),
			}
		}
		return Pagination{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		apiErr := envelope.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "UNKNOWN", Message: envelope.Message}
		}
		apiErr.Status = resp.StatusCode
		return Pagination{}, apiErr
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return Pagination{}, fmt.Errorf("decode response data: %w", err)
		}
	}

	if envelope.Pagination != nil {
		return *envelope.Pagination, nil
	}
	return DefaultPagination(), nil
}
