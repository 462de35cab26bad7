package pois

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type poiInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Type        string  `json:"type"`
}

func (in *poiInput) validate() string {
	if in.Title == "" {
		return "title is required"
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return "latitude out of range"
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return "longitude out of range"
	}
	return ""
}

func CreatePOI(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input poiInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	poi := models.POI{
		POIID:       utils.GetUUID(),
		Title:       input.Title,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Type:        input.Type,
		CreatedAt:   time.Now(),
	}
	if _, err := db.POIsCollection.InsertOne(r.Context(), poi); err != nil {
		log.Printf("CreatePOI: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, poi)
}

func GetPOI(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var poi models.POI
	err := db.POIsCollection.FindOne(r.Context(), bson.M{"poiid": ps.ByName("poiid")}).Decode(&poi)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, poi)
}

func ListPOIs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.POIsCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	pois := []models.POI{}
	if err := cur.All(r.Context(), &pois); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pois)
}

func UpdatePOI(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input poiInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := db.POIsCollection.UpdateOne(r.Context(),
		bson.M{"poiid": ps.ByName("poiid")},
		bson.M{"$set": bson.M{
			"title":       input.Title,
			"description": input.Description,
			"latitude":    input.Latitude,
			"longitude":   input.Longitude,
			"type":        input.Type,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "POI not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"poiid": ps.ByName("poiid")})
}

func DeletePOI(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.POIsCollection.DeleteOne(r.Context(), bson.M{"poiid": ps.ByName("poiid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "POI not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignToStage attaches a POI to one stage of a trip the calling manager
// owns. Stages are addressed by index.
func AssignToStage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	managerID := utils.GetUserIDFromRequest(r)
	poiID := ps.ByName("poiid")

	var input struct {
		TripID     string `json:"tripid"`
		StageIndex int    `json:"stageIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.TripID == "" || input.StageIndex < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "tripid and stageIndex are required")
		return
	}

	count, err := db.POIsCollection.CountDocuments(r.Context(), bson.M{"poiid": poiID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "POI not found")
		return
	}

	var trip models.Trip
	err = db.TripsCollection.FindOne(r.Context(),
		bson.M{"tripid": input.TripID, "managerid": managerID}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if input.StageIndex >= len(trip.Stages) {
		utils.RespondWithError(w, http.StatusBadRequest, "stageIndex out of range")
		return
	}

	field := bson.M{"stages." + strconv.Itoa(input.StageIndex) + ".poiid": poiID}
	_, err = db.TripsCollection.UpdateOne(r.Context(),
		bson.M{"tripid": input.TripID},
		bson.M{"$set": field})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"tripid":     input.TripID,
		"stageIndex": input.StageIndex,
		"poiid":      poiID,
	})
}
