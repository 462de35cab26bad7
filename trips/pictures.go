package trips

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"acmex/db"
	"acmex/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var tripPicDir = "./static/trippic"

// UploadTripPicture stores a picture for an owned trip, saving the original
// plus a 300px-wide thumbnail, and appends the public path to the trip.
func UploadTripPicture(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, _, err := r.FormFile("picture")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Picture file missing")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image")
		return
	}

	uniqueID := utils.GetUUID()
	thumbDir := filepath.Join(tripPicDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save picture")
		return
	}

	origPath := filepath.Join(tripPicDir, uniqueID+".jpg")
	if err := imaging.Save(img, origPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save picture")
		return
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, uniqueID+".jpg")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	publicPath := fmt.Sprintf("/static/trippic/%s.jpg", uniqueID)
	_, err = db.TripsCollection.UpdateOne(r.Context(),
		bson.M{"tripid": tripID},
		bson.M{"$push": bson.M{"pictures": publicPath}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"picture": publicPath})
}
