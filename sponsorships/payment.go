package sponsorships

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/mq"
	"acmex/payments"
	"acmex/sysparams"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreatePaymentSession starts payment of the flat-rate banner fee for an
// unpaid sponsorship owned by the caller.
func CreatePaymentSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)
	spID := ps.ByName("sponsorshipid")

	var input struct {
		SuccessURL string `json:"successURL"`
		CancelURL  string `json:"cancelURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		!utils.IsValidURL(input.SuccessURL) || !utils.IsValidURL(input.CancelURL) {
		utils.RespondWithError(w, http.StatusBadRequest, "successURL and cancelURL are required")
		return
	}

	var sp models.Sponsorship
	err := db.SponsorshipsCollection.FindOne(r.Context(),
		bson.M{"sponsorshipid": spID, "sponsorid": sponsorID}).Decode(&sp)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Sponsorship not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if sp.IsPaid {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Sponsorship already paid")
		return
	}

	fee := sysparams.FlatRate(r.Context())
	items := []payments.Item{{
		Name:     "Banner placement fee",
		Quantity: 1,
		Price:    fee,
		Currency: "EUR",
	}}
	desc := fmt.Sprintf("Sponsorship %s banner fee", sp.SponsorshipID)

	approvalURL, err := payments.Initiate(r.Context(), input.SuccessURL, input.CancelURL, items, fee, desc)
	if err != nil {
		log.Printf("sponsorship payment session: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"approvalURL": approvalURL, "amount": fee})
}

// ConfirmPayment settles the fee and flips isPaid with a conditional
// update, recording the settled payment id.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)
	spID := ps.ByName("sponsorshipid")

	var input struct {
		PayerID   string `json:"payerID"`
		PaymentID string `json:"paymentID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.PayerID == "" || input.PaymentID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "payerID and paymentID are required")
		return
	}

	var sp models.Sponsorship
	err := db.SponsorshipsCollection.FindOne(r.Context(),
		bson.M{"sponsorshipid": spID, "sponsorid": sponsorID}).Decode(&sp)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Sponsorship not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if sp.IsPaid {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Sponsorship already paid")
		return
	}

	fee := sysparams.FlatRate(r.Context())
	settlement, err := payments.Settle(r.Context(), input.PayerID, input.PaymentID, fee)
	if err != nil {
		log.Printf("sponsorship confirm: settle failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment error")
		return
	}

	res, err := db.SponsorshipsCollection.UpdateOne(r.Context(),
		bson.M{"sponsorshipid": spID, "isPaid": false},
		bson.M{"$set": bson.M{
			"isPaid":     true,
			"paymentid":  settlement.PaymentID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Sponsorship already paid")
		return
	}

	mq.Emit(r.Context(), "sponsorship-paid", spID, sponsorID, "")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sponsorshipid": spID,
		"isPaid":        true,
		"paymentid":     settlement.PaymentID,
	})
}
