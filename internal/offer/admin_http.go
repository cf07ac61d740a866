package offer

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/api"
)

// RegisterAdminRoutes mounts offer management endpoints. The router group
// is expected to enforce admin authentication.
func RegisterAdminRoutes(router *gin.RouterGroup, service *Service) {
	handler := &adminHandler{service: service}

	offers := router.Group("/offers")
	{
		offers.GET("", handler.list)
		offers.POST("", handler.create)
		offers.PATCH("/:offerID", handler.update)
		offers.PATCH("/:offerID/toggle-status", handler.toggleStatus)
		offers.POST("/:offerID/duplicate", handler.duplicate)
		offers.DELETE("/:offerID", handler.delete)
	}
}

type adminHandler struct {
	service *Service
}

func (h *adminHandler) list(c *gin.Context) {
	params, err := paramsFromQuery(c)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	if raw := c.Query("isActive"); raw != "" {
		active, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid isActive")
			return
		}
		params.ActiveOnly = &active
	}

	page, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to list offers")
		return
	}

	api.Paginated(c, page.Data, api.Pagination{
		Page: page.Page, Limit: page.Limit, Total: page.Total, TotalPages: page.TotalPages,
	})
}

func (h *adminHandler) create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "multipart form required")
		return
	}

	input, err := createInputFromForm(form)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), input, form.File["images"])
	if err != nil {
		writeAdminError(c, err, "failed to create offer")
		return
	}

	api.Created(c, created)
}

func (h *adminHandler) update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("offerID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidInput, "invalid offer id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "multipart form required")
		return
	}

	input, err := updateInputFromForm(form)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, input, form.File["images"], formValue(form, "images_action"))
	if err != nil {
		writeAdminError(c, err, "failed to update offer")
		return
	}

	api.OK(c, updated)
}

func (h *adminHandler) toggleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("offerID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidInput, "invalid offer id")
		return
	}

	active, err := h.service.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		writeAdminError(c, err, "failed to toggle offer status")
		return
	}

	api.OK(c, gin.H{"id": id.String(), "isActive": active})
}

func (h *adminHandler) duplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("offerID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidInput, "invalid offer id")
		return
	}

	copied, err := h.service.Duplicate(c.Request.Context(), id)
	if err != nil {
		writeAdminError(c, err, "failed to duplicate offer")
		return
	}

	api.Created(c, copied)
}

func (h *adminHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("offerID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidInput, "invalid offer id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeAdminError(c, err, "failed to delete offer")
		return
	}

	api.Message(c, "offer deleted")
}

func writeAdminError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrOfferNotFound):
		api.Error(c, http.StatusNotFound, api.CodeNotFound, "offer not found")
	case errors.Is(err, ErrInvalidInput):
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
	case errors.Is(err, ErrImageTooLarge):
		api.Error(c, http.StatusBadRequest, api.CodeFileTooLarge, "image too large")
	default:
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, fallback)
	}
}

func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func createInputFromForm(form *multipart.Form) (CreateInput, error) {
	in := CreateInput{
		Title:       formValue(form, "title"),
		Destination: formValue(form, "destination"),
		Category:    formValue(form, "category"),
		Currency:    formValue(form, "currency"),
		Description: formValue(form, "description"),
		Difficulty:  Difficulty(formValue(form, "difficulty")),
	}

	var err error
	if in.Price, err = formFloat(form, "price"); err != nil {
		return CreateInput{}, err
	}
	if in.Duration, err = formInt(form, "duration"); err != nil {
		return CreateInput{}, err
	}
	if in.MaxCapacity, err = formInt(form, "max_capacity"); err != nil {
		return CreateInput{}, err
	}
	if in.AvailableSeats, err = formInt(form, "available_seats"); err != nil {
		return CreateInput{}, err
	}
	if in.IsActive, err = formBoolPtr(form, "is_active"); err != nil {
		return CreateInput{}, err
	}

	promo, err := formBoolPtr(form, "is_promotion")
	if err != nil {
		return CreateInput{}, err
	}
	in.IsPromotion = promo != nil && *promo

	if in.PromotionDiscount, err = formFloatPtr(form, "promotion_discount"); err != nil {
		return CreateInput{}, err
	}
	if in.PromotionEndsAt, err = formDatePtr(form, "promotion_ends_at"); err != nil {
		return CreateInput{}, err
	}
	if in.DepartureDate, err = formDatePtr(form, "departure_date"); err != nil {
		return CreateInput{}, err
	}
	if in.ReturnDate, err = formDatePtr(form, "return_date"); err != nil {
		return CreateInput{}, err
	}
	if in.Itinerary, err = parseItinerary(formValue(form, "itinerary")); err != nil {
		return CreateInput{}, err
	}

	in.Included = parseStringList(formValue(form, "included"))
	in.Excluded = parseStringList(formValue(form, "excluded"))
	in.Tags = parseStringList(formValue(form, "tags"))

	return in, nil
}

func updateInputFromForm(form *multipart.Form) (UpdateInput, error) {
	var in UpdateInput

	strPtr := func(key string) *string {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}

	in.Title = strPtr("title")
	in.Destination = strPtr("destination")
	in.Category = strPtr("category")
	in.Currency = strPtr("currency")
	in.Description = strPtr("description")
	if raw := strPtr("difficulty"); raw != nil {
		d := Difficulty(*raw)
		in.Difficulty = &d
	}

	var err error
	if in.Price, err = formFloatPtr(form, "price"); err != nil {
		return UpdateInput{}, err
	}
	if in.Duration, err = formIntPtr(form, "duration"); err != nil {
		return UpdateInput{}, err
	}
	if in.MaxCapacity, err = formIntPtr(form, "max_capacity"); err != nil {
		return UpdateInput{}, err
	}
	if in.AvailableSeats, err = formIntPtr(form, "available_seats"); err != nil {
		return UpdateInput{}, err
	}
	if in.IsActive, err = formBoolPtr(form, "is_active"); err != nil {
		return UpdateInput{}, err
	}
	if in.IsPromotion, err = formBoolPtr(form, "is_promotion"); err != nil {
		return UpdateInput{}, err
	}
	if in.PromotionDiscount, err = formFloatPtr(form, "promotion_discount"); err != nil {
		return UpdateInput{}, err
	}
	if in.PromotionEndsAt, err = formDatePtr(form, "promotion_ends_at"); err != nil {
		return UpdateInput{}, err
	}
	if in.DepartureDate, err = formDatePtr(form, "departure_date"); err != nil {
		return UpdateInput{}, err
	}
	if in.ReturnDate, err = formDatePtr(form, "return_date"); err != nil {
		return UpdateInput{}, err
	}
	if raw := formValue(form, "itinerary"); raw != "" {
		if in.Itinerary, err = parseItinerary(raw); err != nil {
			return UpdateInput{}, err
		}
	}
	if raw := formValue(form, "included"); raw != "" {
		in.Included = parseStringList(raw)
	}
	if raw := formValue(form, "excluded"); raw != "" {
		in.Excluded = parseStringList(raw)
	}
	if raw := formValue(form, "tags"); raw != "" {
		in.Tags = parseStringList(raw)
	}

	return in, nil
}

func formFloat(form *multipart.Form, key string) (float64, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}

func formInt(form *multipart.Form, key string) (int, error) {
	raw := formValue(form, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func formIntPtr(form *multipart.Form, key string) (*int, error) {
	raw := formValue(form, key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &n, nil
}

func formFloatPtr(form *multipart.Form, key string) (*float64, error) {
	raw := formValue(form, key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &f, nil
}

func formBoolPtr(form *multipart.Form, key string) (*bool, error) {
	raw := formValue(form, key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &b, nil
}

func formDatePtr(form *multipart.Form, key string) (*time.Time, error) {
	t, err := parseDate(formValue(form, key))
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return t, nil
}

// parseItinerary decodes a JSON itinerary array submitted as a form field.
func parseItinerary(raw string) ([]ItineraryDay, error) {
	if raw == "" {
		return nil, nil
	}
	var days []ItineraryDay
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, errors.New("invalid itinerary")
	}
	return days, nil
}

// parseStringList accepts either a JSON string array or a comma-separated
// list, matching what the admin form submits.
func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items
		}
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
