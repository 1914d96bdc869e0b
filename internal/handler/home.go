package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/middleware"
	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/queue"
	"github.com/iliyamo/realestate-listing/internal/repository"
	"github.com/iliyamo/realestate-listing/internal/service"
)

// HomeStore is the listing persistence used by HomeHandler.
type HomeStore interface {
	List(ctx context.Context, f repository.HomeFilter) ([]repository.HomeListItem, error)
	GetByID(ctx context.Context, id uint64) (model.Home, error)
	Images(ctx context.Context, homeID uint64) ([]model.Image, error)
	Create(ctx context.Context, h *model.Home, imageURLs []string) error
	Update(ctx context.Context, id uint64, u repository.HomeUpdate) error
	Delete(ctx context.Context, id uint64) error
	FindOwner(ctx context.Context, homeID uint64) (uint64, error)
}

// MessageStore persists buyer inquiries.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	ListByHome(ctx context.Context, homeID uint64) ([]model.MessageWithBuyer, error)
}

// InquiryPublisher announces new inquiries.  *queue.Publisher satisfies it.
type InquiryPublisher interface {
	PublishInquiryCreated(ctx context.Context, ev queue.InquiryCreatedEvent) error
}

// HomeHandler serves the listing and inquiry endpoints.
type HomeHandler struct {
	Homes     HomeStore
	Messages  MessageStore
	Publisher InquiryPublisher // may be nil
	Log       zerolog.Logger
}

func NewHomeHandler(homes HomeStore, messages MessageStore, pub InquiryPublisher, log zerolog.Logger) *HomeHandler {
	if homes == nil || messages == nil {
		panic("nil store passed to NewHomeHandler")
	}
	return &HomeHandler{Homes: homes, Messages: messages, Publisher: pub, Log: log}
}

// ----- DTOs -----

type imageReq struct {
	URL string `json:"url"`
}

type createHomeReq struct {
	Address           string     `json:"address"`
	NumberOfBedrooms  int        `json:"numberOfBedrooms"`
	NumberOfBathrooms float64    `json:"numberOfBathrooms"`
	City              string     `json:"city"`
	Price             float64    `json:"price"`
	LandSize          float64    `json:"landSize"`
	PropertyType      string     `json:"propertyType"`
	Images            []imageReq `json:"images"`
}

type updateHomeReq struct {
	Address           *string  `json:"address"`
	NumberOfBedrooms  *int     `json:"numberOfBedrooms"`
	NumberOfBathrooms *float64 `json:"numberOfBathrooms"`
	City              *string  `json:"city"`
	Price             *float64 `json:"price"`
	LandSize          *float64 `json:"landSize"`
	PropertyType      *string  `json:"propertyType"`
}

type inquireReq struct {
	Message string `json:"message"`
}

type homeResp struct {
	ID                uint64             `json:"id"`
	Address           string             `json:"address"`
	NumberOfBedrooms  int                `json:"numberOfBedrooms"`
	NumberOfBathrooms float64            `json:"numberOfBathrooms"`
	City              string             `json:"city"`
	ListedDate        time.Time          `json:"listedDate"`
	Price             float64            `json:"price"`
	LandSize          float64            `json:"landSize"`
	PropertyType      model.PropertyType `json:"propertyType"`
	RealtorID         uint64             `json:"realtorId"`
	Image             string             `json:"image,omitempty"`
	Images            []string           `json:"images,omitempty"`
}

type buyerResp struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type messageResp struct {
	Message string    `json:"message"`
	Buyer   buyerResp `json:"buyer"`
}

func toHomeResp(h model.Home) homeResp {
	return homeResp{
		ID:                h.ID,
		Address:           h.Address,
		NumberOfBedrooms:  h.NumberOfBedrooms,
		NumberOfBathrooms: h.NumberOfBathrooms,
		City:              h.City,
		ListedDate:        h.ListedDate,
		Price:             h.Price,
		LandSize:          h.LandSize,
		PropertyType:      h.PropertyType,
		RealtorID:         h.RealtorID,
	}
}

func (r *createHomeReq) validate() (model.PropertyType, string) {
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	pt, ok := model.ParsePropertyType(r.PropertyType)
	switch {
	case r.Address == "":
		return "", "address must not be empty"
	case r.City == "":
		return "", "city must not be empty"
	case r.NumberOfBedrooms <= 0 || r.NumberOfBathrooms <= 0:
		return "", "bedrooms and bathrooms must be positive"
	case r.Price <= 0 || r.LandSize <= 0:
		return "", "price and landSize must be positive"
	case !ok:
		return "", "propertyType must be RESIDENTIAL or CONDO"
	}
	for _, img := range r.Images {
		if strings.TrimSpace(img.URL) == "" {
			return "", "image url must not be empty"
		}
	}
	return pt, ""
}

func (r *updateHomeReq) toUpdate() (repository.HomeUpdate, string) {
	u := repository.HomeUpdate{
		NumberOfBedrooms:  r.NumberOfBedrooms,
		NumberOfBathrooms: r.NumberOfBathrooms,
		Price:             r.Price,
		LandSize:          r.LandSize,
	}
	if r.Address != nil {
		s := strings.TrimSpace(*r.Address)
		if s == "" {
			return u, "address must not be empty"
		}
		u.Address = &s
	}
	if r.City != nil {
		s := strings.TrimSpace(*r.City)
		if s == "" {
			return u, "city must not be empty"
		}
		u.City = &s
	}
	if r.NumberOfBedrooms != nil && *r.NumberOfBedrooms <= 0 {
		return u, "numberOfBedrooms must be positive"
	}
	for _, f := range []*float64{r.NumberOfBathrooms, r.Price, r.LandSize} {
		if f != nil && *f <= 0 {
			return u, "numeric fields must be positive"
		}
	}
	if r.PropertyType != nil {
		pt, ok := model.ParsePropertyType(*r.PropertyType)
		if !ok {
			return u, "propertyType must be RESIDENTIAL or CONDO"
		}
		u.PropertyType = &pt
	}
	if u.Empty() {
		return u, "no fields to update"
	}
	return u, ""
}

// List handles GET /v1/homes.
func (h *HomeHandler) List(c echo.Context) error {
	f := repository.HomeFilter{City: strings.TrimSpace(c.QueryParam("city"))}
	var ok bool
	if f.MinPrice, ok = parseFloatQuery(c, "minPrice"); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid minPrice"})
	}
	if f.MaxPrice, ok = parseFloatQuery(c, "maxPrice"); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid maxPrice"})
	}
	if raw := c.QueryParam("propertyType"); raw != "" {
		if f.PropertyType, ok = model.ParsePropertyType(raw); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid propertyType"})
		}
	}

	items, err := h.Homes.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error().Err(err).Msg("list homes failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if len(items) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no homes found"})
	}
	out := make([]homeResp, 0, len(items))
	for _, it := range items {
		r := toHomeResp(it.Home)
		r.Image = it.Image
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/homes/:id.
func (h *HomeHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	home, err := h.Homes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
		}
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("get home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	images, err := h.Homes.Images(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("load images failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	resp := toHomeResp(home)
	for _, img := range images {
		resp.Images = append(resp.Images, img.URL)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/homes.  The requester becomes the realtor.
func (h *HomeHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req createHomeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	pt, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	home := model.Home{
		Address:           req.Address,
		NumberOfBedrooms:  req.NumberOfBedrooms,
		NumberOfBathrooms: req.NumberOfBathrooms,
		City:              req.City,
		Price:             req.Price,
		LandSize:          req.LandSize,
		PropertyType:      pt,
		RealtorID:         user.ID,
	}
	urls := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		urls = append(urls, strings.TrimSpace(img.URL))
	}
	if err := h.Homes.Create(c.Request().Context(), &home, urls); err != nil {
		h.Log.Error().Err(err).Uint64("realtor_id", user.ID).Msg("create home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create home"})
	}
	resp := toHomeResp(home)
	resp.Images = urls
	return c.JSON(http.StatusCreated, resp)
}

// Update handles PUT /v1/homes/:id.  Only the owning realtor may update.
func (h *HomeHandler) Update(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if done, resp := ownershipStatus(c, h.Log, service.CheckOwnership(ctx, h.Homes, id, user)); done {
		return resp
	}

	var req updateHomeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	upd, msg := req.toUpdate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Homes.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
		}
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("update home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update home"})
	}
	home, err := h.Homes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
		}
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("reload home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, toHomeResp(home))
}

// Delete handles DELETE /v1/homes/:id.  Only the owning realtor may delete.
func (h *HomeHandler) Delete(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if done, resp := ownershipStatus(c, h.Log, service.CheckOwnership(ctx, h.Homes, id, user)); done {
		return resp
	}
	if err := h.Homes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
		}
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("delete home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete home"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Inquire handles POST /v1/homes/:id/inquire.  The message is stored first;
// publishing the event is best effort.
func (h *HomeHandler) Inquire(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req inquireReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must not be empty"})
	}

	ctx := c.Request().Context()
	home, err := h.Homes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
		}
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("get home failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	msg := model.Message{Message: req.Message, HomeID: home.ID, RealtorID: home.RealtorID, BuyerID: user.ID}
	if err := h.Messages.Create(ctx, &msg); err != nil {
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("store inquiry failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	if h.Publisher != nil {
		ev := queue.InquiryCreatedEvent{
			MessageID:  msg.ID,
			HomeID:     home.ID,
			Address:    home.Address,
			RealtorID:  home.RealtorID,
			BuyerID:    user.ID,
			BuyerName:  user.Name,
			BuyerEmail: user.Email,
			Message:    msg.Message,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publisher.PublishInquiryCreated(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Uint64("message_id", msg.ID).Msg("publish inquiry.created failed")
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": msg.ID, "message": msg.Message})
}

// ListMessages handles GET /v1/homes/:id/messages for the owning realtor.
func (h *HomeHandler) ListMessages(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if done, resp := ownershipStatus(c, h.Log, service.CheckOwnership(ctx, h.Homes, id, user)); done {
		return resp
	}
	rows, err := h.Messages.ListByHome(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Uint64("home_id", id).Msg("list messages failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]messageResp, 0, len(rows))
	for _, m := range rows {
		out = append(out, messageResp{
			Message: m.Message.Message,
			Buyer:   buyerResp{Name: m.BuyerName, Email: m.BuyerEmail, Phone: m.BuyerPhone},
		})
	}
	return c.JSON(http.StatusOK, out)
}
