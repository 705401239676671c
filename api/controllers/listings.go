package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
)

const (
	browseDefaultLimit = 20
	browseMaxLimit     = 100
	searchMaxLimit     = 200
)

// SellerSubmitRequest records a seller's request to list a property.
func SellerSubmitRequest(svc listings.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		var input listings.SubmitRequestInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var err error
		if input.Notes, err = validators.BoundedString("notes", input.Notes, 2000); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := svc.SubmitRequest(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Your request has been submitted")
		responses.WriteSuccessStatus(w, http.StatusCreated, req)
	}
}

// ListSellerRequests shows sellers their own requests and staff every request.
func ListSellerRequests(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		reqs, err := svc.ListRequests(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reqs)
	}
}

func SellerProperties(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		props, err := svc.ListBySeller(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, props)
	}
}

func SellerDashboard(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		dash, err := svc.SellerDashboard(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}

// AgentAcceptRequest turns a seller request into a pending property.
func AgentAcceptRequest(svc listings.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		requestID, err := uuidParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prop, err := svc.AcceptRequest(r.Context(), middleware.ActorFromContext(r.Context()), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Request accepted")
		responses.WriteSuccessStatus(w, http.StatusCreated, prop)
	}
}

// AgentCompleteListing fills in the listing details and enlists the property.
func AgentCompleteListing(svc listings.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		propertyID, err := uuidParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input listings.CompleteListingInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Title, err = validators.BoundedString("title", input.Title, 200); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prop, err := svc.Complete(r.Context(), middleware.ActorFromContext(r.Context()), propertyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Property listed")
		responses.WriteSuccess(w, prop)
	}
}

type addPhotoRequest struct {
	FileName string `json:"file_name" validate:"required"`
	Primary  bool   `json:"primary"`
}

// AgentAddPhoto attaches an image already present in the static directory.
func AgentAddPhoto(svc listings.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		propertyID, err := uuidParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body addPhotoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		photo, err := svc.AddPhoto(r.Context(), middleware.ActorFromContext(r.Context()), propertyID, body.FileName, body.Primary)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Photo added")
		responses.WriteSuccessStatus(w, http.StatusCreated, photo)
	}
}

func PropertyPhotos(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		propertyID, err := uuidParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		photos, err := svc.ListPhotos(r.Context(), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, photos)
	}
}

func AgentProperties(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		props, err := svc.ListByEmployee(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, props)
	}
}

// BrowseProperties lists the newest available properties.
func BrowseProperties(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", browseDefaultLimit, 1, browseMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		props, err := svc.Browse(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, props)
	}
}

// SearchProperties filters available properties by city, price band and rooms.
func SearchProperties(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		filters, err := parseSearchFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		props, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, props)
	}
}

func parseSearchFilters(r *http.Request) (listings.SearchFilters, error) {
	var filters listings.SearchFilters
	q := r.URL.Query()
	filters.City = validators.SanitizeString(q.Get("city"), 100)

	var err error
	if filters.MinPrice, err = queryDecimal(r, "min_price"); err != nil {
		return filters, err
	}
	if filters.MaxPrice, err = queryDecimal(r, "max_price"); err != nil {
		return filters, err
	}
	if filters.MinRooms, err = validators.ParseQueryInt(r, "min_rooms", 0, 0, 100); err != nil {
		return filters, err
	}
	if filters.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, searchMaxLimit); err != nil {
		return filters, err
	}
	return filters, nil
}

func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a decimal").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// PropertyDetail shows one property. Anonymous callers are allowed; removed
// listings are only visible to staff and their seller.
func PropertyDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "listings")
			return
		}
		propertyID, err := uuidParam(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetDetail(r.Context(), middleware.ActorFromContext(r.Context()), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
