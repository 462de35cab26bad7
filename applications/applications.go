package applications

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

// CreateApplication applies the calling explorer to a trip. The trip must
// exist, be published and not yet started.
func CreateApplication(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	var input struct {
		TripID   string   `json:"tripid"`
		Comments []string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.TripID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tripid is required")
		return
	}

	var trip models.Trip
	err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": input.TripID}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !trip.IsPublished {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip not published")
		return
	}
	if !trip.StartDate.After(time.Now()) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Trip already started")
		return
	}

	app := models.Application{
		ApplicationID: utils.GetUUID(),
		ExplorerID:    explorerID,
		TripID:        input.TripID,
		Status:        models.StatusPending,
		Comments:      input.Comments,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if _, err := db.ApplicationsCollection.InsertOne(r.Context(), app); err != nil {
		log.Printf("CreateApplication: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, app)
}

func GetApplication(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var app models.Application
	err := db.ApplicationsCollection.FindOne(r.Context(),
		bson.M{"applicationid": ps.ByName("applicationid")}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, app)
}

// ListMyApplications returns the calling explorer's applications.
func ListMyApplications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)
	cur, err := db.ApplicationsCollection.Find(r.Context(), bson.M{"explorerid": explorerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	apps := []models.Application{}
	if err := cur.All(r.Context(), &apps); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apps)
}

// ListTripApplications returns the applications for a trip owned by the
// calling manager.
func ListTripApplications(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	count, err := db.TripsCollection.CountDocuments(r.Context(), bson.M{"tripid": tripID, "managerid": managerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}

	cur, err := db.ApplicationsCollection.Find(r.Context(), bson.M{"tripid": tripID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	apps := []models.Application{}
	if err := cur.All(r.Context(), &apps); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apps)
}

// ManagerUpdate moves a PENDING application to DUE or REJECTED on a trip
// the caller owns. The status match is part of the update filter so a
// concurrent transition cannot slip through.
func ManagerUpdate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	appID := ps.ByName("applicationid")

	var input struct {
		Status       string   `json:"status"`
		RejectReason string   `json:"rejectReason"`
		Comments     []string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !CanTransition(byManager, models.StatusPending, input.Status) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application can't be updated")
		return
	}
	if input.Status == models.StatusRejected && input.RejectReason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "rejectReason is required")
		return
	}

	var app models.Application
	err := db.ApplicationsCollection.FindOne(r.Context(), bson.M{"applicationid": appID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := db.TripsCollection.CountDocuments(r.Context(), bson.M{"tripid": app.TripID, "managerid": managerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}

	set := bson.M{"status": input.Status, "updated_at": time.Now()}
	if input.RejectReason != "" {
		set["rejectReason"] = input.RejectReason
	}
	update := bson.M{"$set": set}
	if len(input.Comments) > 0 {
		update["$push"] = bson.M{"comments": bson.M{"$each": input.Comments}}
	}

	res, err := db.ApplicationsCollection.UpdateOne(r.Context(),
		bson.M{"applicationid": appID, "status": models.StatusPending}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application can't be updated")
		return
	}

	mq.Emit(r.Context(), "application-status", appID, managerID, input.Status)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"applicationid": appID, "status": input.Status})
}

// CancelApplication lets the owning explorer cancel from PENDING or
// ACCEPTED only; the permitted statuses sit in the update filter.
func CancelApplication(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)
	appID := ps.ByName("applicationid")

	res, err := db.ApplicationsCollection.UpdateOne(r.Context(),
		bson.M{
			"applicationid": appID,
			"explorerid":    explorerID,
			"status":        bson.M{"$in": []string{models.StatusPending, models.StatusAccepted}},
		},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		count, err := db.ApplicationsCollection.CountDocuments(r.Context(),
			bson.M{"applicationid": appID, "explorerid": explorerID})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if count == 0 {
			utils.RespondWithError(w, http.StatusNotFound, "Application not found")
			return
		}
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application can't be updated")
		return
	}

	mq.Emit(r.Context(), "application-status", appID, explorerID, models.StatusCancelled)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"applicationid": appID, "status": models.StatusCancelled})
}
