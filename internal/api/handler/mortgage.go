// internal/api/handler/mortgage.go
package handler

import (
	"net/http"
	"strconv"

	"homefinder/internal/domain/mortgage"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

type MortgageHandler struct {
	responder
}

func NewMortgageHandler(logger *utils.Logger) *MortgageHandler {
	return &MortgageHandler{responder: responder{logger: logger}}
}

// Quote reads price, and optionally down_payment and term_years, from the
// query string.
func (h *MortgageHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, err := strconv.ParseFloat(q.Get("price"), 64)
	if err != nil {
		h.writeError(w, r, errors.NewFieldError("price", "must be a number"), "")
		return
	}

	req := mortgage.NewRequest(price)
	if raw := q.Get("down_payment"); raw != "" {
		if req.DownPayment, err = strconv.ParseFloat(raw, 64); err != nil {
			h.writeError(w, r, errors.NewFieldError("down_payment", "must be a number"), "")
			return
		}
	}
	if raw := q.Get("term_years"); raw != "" {
		if req.TermYears, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, r, errors.NewFieldError("term_years", "must be a whole number"), "")
			return
		}
	}

	quote, err := mortgage.Calculate(req)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	WriteJSON(w, r, quote, http.StatusOK)
}
