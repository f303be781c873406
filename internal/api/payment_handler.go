package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/paesprep/backend/internal/domain/subscription"
)

type CreatePaymentRequest struct {
	Plan string `json:"plan" example:"monthly"`
}

func (r *CreatePaymentRequest) Validate() error {
	if strings.TrimSpace(r.Plan) == "" {
		return errors.New("plan is required")
	}
	return nil
}

type CreatePaymentResponse struct {
	Token string `json:"token"`
	URL   string `json:"url" example:"https://webpay3gint.transbank.cl/webpayserver/initTransaction"`
}

// createPayment starts a premium purchase. The client posts token_ws to
// the returned URL.
// @Summary      Buy premium
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePaymentRequest  true  "Plan"
// @Success      201   {object}  CreatePaymentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	redirect, err := h.svc.Payments.CreateOrder(r.Context(), userID, req.Plan)
	if h.handleError(w, err, "plan") {
		return
	}
	respondJSON(w, http.StatusCreated, CreatePaymentResponse{Token: redirect.Token, URL: redirect.URL})
}

// confirmPayment is the gateway's return URL. It commits the transaction
// and sends the buyer back to the profile page.
// @Summary      Payment return URL
// @Tags         Payments
// @Param        token_ws   query  string  false  "Transaction token"
// @Param        TBK_TOKEN  query  string  false  "Token of an aborted payment"
// @Success      303
// @Router       /payments/confirm [get]
// @Router       /payments/confirm [post]
func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token_ws")
	if token == "" {
		// Buyer aborted on the gateway form; nothing to commit.
		h.redirectToProfile(w, r, "cancelled")
		return
	}

	sub, err := h.svc.Payments.Confirm(r.Context(), token)
	if err != nil {
		h.logger.Error("payment confirmation failed", "error", err)
		h.redirectToProfile(w, r, "failed")
		return
	}
	if sub.Status == subscription.StatusActive {
		h.redirectToProfile(w, r, "success")
		return
	}
	h.redirectToProfile(w, r, "failed")
}

func (h *Handler) redirectToProfile(w http.ResponseWriter, r *http.Request, outcome string) {
	http.Redirect(w, r, strings.TrimRight(h.appURL, "/")+"/protected/perfil?payment="+outcome, http.StatusSeeOther)
}
