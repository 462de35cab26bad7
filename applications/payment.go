package applications

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

// amountDue is the trip price plus the admin-configured flat-rate fee.
func amountDue(tripPrice, flatRatePercent float64) float64 {
	return tripPrice * (1 + flatRatePercent/100)
}

// CreatePaymentSession starts the payment for a DUE application owned by
// the caller and returns the provider approval URL.
func CreatePaymentSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)
	appID := ps.ByName("applicationid")

	var input struct {
		SuccessURL string `json:"successURL"`
		CancelURL  string `json:"cancelURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		!utils.IsValidURL(input.SuccessURL) || !utils.IsValidURL(input.CancelURL) {
		utils.RespondWithError(w, http.StatusBadRequest, "successURL and cancelURL are required")
		return
	}

	var app models.Application
	err := db.ApplicationsCollection.FindOne(r.Context(),
		bson.M{"applicationid": appID, "explorerid": explorerID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if app.Status != models.StatusDue {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application is not due")
		return
	}

	var trip models.Trip
	if err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": app.TripID}).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	total := amountDue(trip.Price, sysparams.FlatRate(r.Context()))
	items := []payments.Item{{
		Name:     trip.Title,
		Quantity: 1,
		Price:    total,
		Currency: "EUR",
	}}
	desc := fmt.Sprintf("Trip %s application %s", trip.Ticker, app.ApplicationID)

	approvalURL, err := payments.Initiate(r.Context(), input.SuccessURL, input.CancelURL, items, total, desc)
	if err != nil {
		log.Printf("CreatePaymentSession: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"approvalURL": approvalURL,
		"amount":      total,
	})
}

// ConfirmPayment settles an approved payment and moves the application
// DUE -> ACCEPTED with a conditional update so the transition cannot race.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)
	appID := ps.ByName("applicationid")

	var input struct {
		PayerID   string `json:"payerID"`
		PaymentID string `json:"paymentID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.PayerID == "" || input.PaymentID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "payerID and paymentID are required")
		return
	}

	var app models.Application
	err := db.ApplicationsCollection.FindOne(r.Context(),
		bson.M{"applicationid": appID, "explorerid": explorerID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !CanTransition(byPayment, app.Status, models.StatusAccepted) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application can't be updated")
		return
	}

	var trip models.Trip
	if err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": app.TripID}).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	total := amountDue(trip.Price, sysparams.FlatRate(r.Context()))

	settlement, err := payments.Settle(r.Context(), input.PayerID, input.PaymentID, total)
	if err != nil {
		log.Printf("ConfirmPayment: settle failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment error")
		return
	}

	res, err := db.ApplicationsCollection.UpdateOne(r.Context(),
		bson.M{"applicationid": appID, "status": models.StatusDue},
		bson.M{"$set": bson.M{
			"status":     models.StatusAccepted,
			"paymentid":  settlement.PaymentID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		// payment settled but status moved underneath us; surface the conflict
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application can't be updated")
		return
	}

	mq.Emit(r.Context(), "application-status", appID, explorerID, models.StatusAccepted)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"applicationid": appID,
		"status":        models.StatusAccepted,
		"paymentid":     settlement.PaymentID,
	})
}
