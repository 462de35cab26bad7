package trips

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/mq"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const tickerRetries = 5

type tripInput struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	StartDate    time.Time      `json:"startDate"`
	EndDate      time.Time      `json:"endDate"`
	Stages       []models.Stage `json:"stages"`
}

// validate applies the field checks shared by create and update: required
// fields, strictly-future start, end after start, non-negative stage prices.
func (in *tripInput) validate(now time.Time) string {
	if in.Title == "" || in.Description == "" {
		return "Title and description are required"
	}
	if len(in.Stages) == 0 {
		return "At least one stage is required"
	}
	if !in.StartDate.After(now) {
		return "Start date must be in the future"
	}
	if !in.EndDate.After(in.StartDate) {
		return "End date must be after start date"
	}
	for _, s := range in.Stages {
		if s.Title == "" {
			return "Stage title is required"
		}
		if s.Price < 0 {
			return "Stage price must be >= 0"
		}
	}
	return ""
}

// CreateTrip inserts an unpublished trip owned by the calling manager.
// Client-supplied price, flags and ownership are ignored; the ticker is
// generated server-side and retried on collision.
func CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)

	var input tripInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(time.Now()); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	trip := models.Trip{
		TripID:       utils.GetUUID(),
		ManagerID:    managerID,
		Title:        input.Title,
		Description:  input.Description,
		Requirements: input.Requirements,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Stages:       input.Stages,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	trip.Price = trip.TotalPrice()

	var err error
	for i := 0; i < tickerRetries; i++ {
		trip.Ticker = utils.GenerateTicker(time.Now())
		_, err = db.TripsCollection.InsertOne(r.Context(), trip)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		log.Printf("CreateTrip: insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, trip)
}

func GetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": ps.ByName("tripid")}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

// ListTrips returns published, non-cancelled trips.
func ListTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.TripsCollection.Find(r.Context(), bson.M{"isPublished": true, "isCancelled": false})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	trips := []models.Trip{}
	if err := cur.All(r.Context(), &trips); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// ListMyTrips returns all trips owned by the calling manager, drafts included.
func ListMyTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	cur, err := db.TripsCollection.Find(r.Context(), bson.M{"managerid": managerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	trips := []models.Trip{}
	if err := cur.All(r.Context(), &trips); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// UpdateTrip edits an unpublished trip owned by the caller. Ticker,
// ownership and flags are never client-writable; price is recomputed.
func UpdateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	var input tripInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(time.Now()); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	price := 0.0
	for _, s := range input.Stages {
		price += s.Price
	}

	// conditional update: only an owned, unpublished trip matches
	filter := bson.M{"tripid": tripID, "managerid": managerID, "isPublished": false}
	update := bson.M{"$set": bson.M{
		"title":        input.Title,
		"description":  input.Description,
		"requirements": input.Requirements,
		"startDate":    input.StartDate,
		"endDate":      input.EndDate,
		"stages":       input.Stages,
		"price":        price,
		"updated_at":   time.Now(),
	}}
	res, err := db.TripsCollection.UpdateOne(r.Context(), filter, update)
	if err != nil {
		log.Printf("UpdateTrip: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		explainTripRejection(w, r, tripID, managerID)
		return
	}

	var trip models.Trip
	if err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": tripID}).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

// explainTripRejection distinguishes 404 (missing/not owned) from 422
// (owned but published) after a conditional write matched nothing.
func explainTripRejection(w http.ResponseWriter, r *http.Request, tripID, managerID string) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": tripID, "managerid": managerID}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip already published")
}

// PublishTrip is a one-way transition; there is no unpublish.
func PublishTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	res, err := db.TripsCollection.UpdateOne(r.Context(),
		bson.M{"tripid": tripID, "managerid": managerID},
		bson.M{"$set": bson.M{"isPublished": true, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}

	mq.Emit(r.Context(), "trip-published", tripID, managerID, "")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tripid": tripID, "isPublished": true})
}

// CancelTrip needs a reason and passes three preconditions: not published,
// not started, and no applications attached.
func CancelTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	var input struct {
		CancelReason string `json:"cancelReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CancelReason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "cancelReason is required")
		return
	}

	var trip models.Trip
	err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": tripID, "managerid": managerID}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if trip.IsPublished {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip already published")
		return
	}
	if !trip.StartDate.After(time.Now()) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip already started")
		return
	}
	count, err := db.ApplicationsCollection.CountDocuments(r.Context(), bson.M{"tripid": tripID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip has applications attached")
		return
	}

	_, err = db.TripsCollection.UpdateOne(r.Context(),
		bson.M{"tripid": tripID},
		bson.M{"$set": bson.M{"isCancelled": true, "cancelReason": input.CancelReason, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tripid": tripID, "isCancelled": true})
}

// DeleteTrip removes an unpublished, owned trip.
func DeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	res, err := db.TripsCollection.DeleteOne(r.Context(),
		bson.M{"tripid": tripID, "managerid": managerID, "isPublished": false})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		explainTripRejection(w, r, tripID, managerID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
