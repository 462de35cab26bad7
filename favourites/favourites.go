package favourites

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

// ShouldOverwrite implements last-writer-wins: the first sync always wins,
// a later sync only when its client timestamp is strictly newer.
func ShouldOverwrite(existing *time.Time, incoming time.Time) bool {
	if existing == nil {
		return true
	}
	return incoming.After(*existing)
}

// ListFavouriteLists returns the caller's lists.
func ListFavouriteLists(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	cur, err := db.FavouriteListsCollection.Find(r.Context(), bson.M{"explorerid": explorerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	lists := []models.FavouriteList{}
	if err := cur.All(r.Context(), &lists); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lists)
}

// SyncFavouriteList reconciles a named list from a client device. The
// client supplies its local modification timestamp; an older copy never
// clobbers a newer one.
func SyncFavouriteList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	var input struct {
		Name     string    `json:"name"`
		TripIDs  []string  `json:"tripids"`
		SyncedAt time.Time `json:"syncedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if input.SyncedAt.IsZero() {
		utils.RespondWithError(w, http.StatusBadRequest, "syncedAt is required")
		return
	}

	filter := bson.M{"explorerid": explorerID, "name": input.Name}

	var existing models.FavouriteList
	err := db.FavouriteListsCollection.FindOne(r.Context(), filter).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err == nil && !ShouldOverwrite(&existing.SyncedAt, input.SyncedAt) {
		// stale sync; current copy stands
		utils.RespondWithJSON(w, http.StatusOK, existing)
		return
	}

	list := models.FavouriteList{
		ListID:     utils.GetUUID(),
		ExplorerID: explorerID,
		Name:       input.Name,
		TripIDs:    input.TripIDs,
		SyncedAt:   input.SyncedAt,
		UpdatedAt:  time.Now(),
	}
	if err == nil {
		list.ListID = existing.ListID
	}

	// conditional replace so a concurrent newer sync is not overwritten
	cond := bson.M{"explorerid": explorerID, "name": input.Name,
		"syncedAt": bson.M{"$lt": input.SyncedAt}}
	if err == mongo.ErrNoDocuments {
		if _, insErr := db.FavouriteListsCollection.InsertOne(r.Context(), list); insErr != nil {
			log.Printf("SyncFavouriteList: insert failed: %v", insErr)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
	} else {
		res, updErr := db.FavouriteListsCollection.ReplaceOne(r.Context(), cond, list)
		if updErr != nil {
			log.Printf("SyncFavouriteList: replace failed: %v", updErr)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if res.MatchedCount == 0 {
			// a newer sync won the race; return what actually stands
			var current models.FavouriteList
			if err := db.FavouriteListsCollection.FindOne(r.Context(), filter).Decode(&current); err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
				return
			}
			utils.RespondWithJSON(w, http.StatusOK, current)
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func DeleteFavouriteList(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	res, err := db.FavouriteListsCollection.DeleteOne(r.Context(),
		bson.M{"explorerid": explorerID, "listid": ps.ByName("listid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Favourite list not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
