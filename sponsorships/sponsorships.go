package sponsorships

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type sponsorshipInput struct {
	TripID         string `json:"tripid"`
	BannerURL      string `json:"bannerURL"`
	LandingPageURL string `json:"landingPageURL"`
}

func (in *sponsorshipInput) validate() string {
	if in.TripID == "" {
		return "tripid is required"
	}
	if !utils.IsValidURL(in.BannerURL) {
		return "bannerURL must be a valid URL"
	}
	if !utils.IsValidURL(in.LandingPageURL) {
		return "landingPageURL must be a valid URL"
	}
	return ""
}

// CreateSponsorship inserts an unpaid sponsorship owned by the calling
// sponsor. isPaid, paymentid and ownership never come from the payload.
func CreateSponsorship(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)

	var input sponsorshipInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	count, err := db.TripsCollection.CountDocuments(r.Context(), bson.M{"tripid": input.TripID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Trip not found")
		return
	}

	sp := models.Sponsorship{
		SponsorshipID:  utils.GetUUID(),
		SponsorID:      sponsorID,
		TripID:         input.TripID,
		BannerURL:      input.BannerURL,
		LandingPageURL: input.LandingPageURL,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if _, err := db.SponsorshipsCollection.InsertOne(r.Context(), sp); err != nil {
		log.Printf("CreateSponsorship: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, sp)
}

func GetSponsorship(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var sp models.Sponsorship
	err := db.SponsorshipsCollection.FindOne(r.Context(),
		bson.M{"sponsorshipid": ps.ByName("sponsorshipid")}).Decode(&sp)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Sponsorship not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sp)
}

// ListMySponsorships returns the calling sponsor's sponsorships.
func ListMySponsorships(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)
	cur, err := db.SponsorshipsCollection.Find(r.Context(), bson.M{"sponsorid": sponsorID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	sps := []models.Sponsorship{}
	if err := cur.All(r.Context(), &sps); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sps)
}

// UpdateSponsorship edits banner and landing page of an owned sponsorship.
// isPaid, paymentid, sponsorid and tripid are immutable on this path.
func UpdateSponsorship(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)
	spID := ps.ByName("sponsorshipid")

	var input struct {
		BannerURL      string `json:"bannerURL"`
		LandingPageURL string `json:"landingPageURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !utils.IsValidURL(input.BannerURL) || !utils.IsValidURL(input.LandingPageURL) {
		utils.RespondWithError(w, http.StatusBadRequest, "bannerURL and landingPageURL must be valid URLs")
		return
	}

	res, err := db.SponsorshipsCollection.UpdateOne(r.Context(),
		bson.M{"sponsorshipid": spID, "sponsorid": sponsorID},
		bson.M{"$set": bson.M{
			"bannerURL":      input.BannerURL,
			"landingPageURL": input.LandingPageURL,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Sponsorship not found")
		return
	}

	var sp models.Sponsorship
	if err := db.SponsorshipsCollection.FindOne(r.Context(), bson.M{"sponsorshipid": spID}).Decode(&sp); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sp)
}

func DeleteSponsorship(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sponsorID := utils.GetUserIDFromRequest(r)

	res, err := db.SponsorshipsCollection.DeleteOne(r.Context(),
		bson.M{"sponsorshipid": ps.ByName("sponsorshipid"), "sponsorid": sponsorID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Sponsorship not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// randomPaidPipeline samples one sponsorship uniformly from the paid
// sponsorships of a trip; unpaid ones never reach the sample stage.
func randomPaidPipeline(tripID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"tripid": tripID, "isPaid": true}}},
		bson.D{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
}

// RandomPaidSponsorship picks uniformly at random among the paid
// sponsorships of a trip; 404 when none are paid.
func RandomPaidSponsorship(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tripID := ps.ByName("tripid")

	cur, err := db.SponsorshipsCollection.Aggregate(r.Context(), randomPaidPipeline(tripID))
	if err != nil {
		log.Printf("RandomPaidSponsorship: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	var sps []models.Sponsorship
	if err := cur.All(r.Context(), &sps); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(sps) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "No paid sponsorships for trip")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sps[0])
}
