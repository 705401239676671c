package controllers

import (
	"net/http"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/api/validators"
	"github.com/homescout/homescout-backend/internal/enquiries"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	"github.com/homescout/homescout-backend/pkg/logger"
)

const maxNoteLength = 4000

// BuyerCreateEnquiry opens an enquiry and assigns it to an agent.
func BuyerCreateEnquiry(svc enquiries.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "enquiries")
			return
		}
		var input enquiries.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var err error
		if input.Notes, err = validators.BoundedString("notes", input.Notes, maxNoteLength); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiry, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Enquiry sent. An agent will contact you soon")
		responses.WriteSuccessStatus(w, http.StatusCreated, enquiry)
	}
}

func BuyerEnquiries(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "enquiries")
			return
		}
		list, err := svc.ListForBuyer(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AgentEnquiries(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "enquiries")
			return
		}
		list, err := svc.ListForEmployee(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AgentUpdateEnquiry changes status and appends a note.
func AgentUpdateEnquiry(svc enquiries.Service, flashes flashPusher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(r.Context(), logg, w, "enquiries")
			return
		}
		enquiryID, err := uuidParam(r, "enquiryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input enquiries.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Note, err = validators.BoundedString("note", input.Note, maxNoteLength); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enquiry, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), enquiryID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flash(r, logg, flashes, session.FlashSuccess, "Enquiry updated")
		responses.WriteSuccess(w, enquiry)
	}
}
