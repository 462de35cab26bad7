package finders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/sysparams"
	"acmex/trips"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type finderInput struct {
	Keyword   string     `json:"keyword"`
	MinPrice  *float64   `json:"minPrice"`
	MaxPrice  *float64   `json:"maxPrice"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func (in *finderInput) validate() string {
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return "minPrice must be >= 0"
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MaxPrice < *in.MinPrice {
		return "maxPrice must be >= minPrice"
	}
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		return "endDate must be after startDate"
	}
	return ""
}

func (in *finderInput) criteria() trips.SearchCriteria {
	return trips.SearchCriteria{
		Keyword:   in.Keyword,
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
}

func compute(ctx context.Context, c trips.SearchCriteria) ([]models.Trip, error) {
	limit := sysparams.FinderMaxResults(ctx)
	return trips.Search(ctx, c, limit)
}

// UpsertFinder saves the calling explorer's single finder (creating or
// replacing it) and computes its cached result set. The TTL index on
// computedAt expires the whole document, which is how cached results age
// out.
func UpsertFinder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	var input finderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	results, err := compute(r.Context(), input.criteria())
	if err != nil {
		log.Printf("UpsertFinder: search failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	finder := models.Finder{
		FinderID:   utils.GetUUID(),
		ExplorerID: explorerID,
		Keyword:    input.Keyword,
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Results:    results,
		ComputedAt: time.Now(),
	}

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.Finder
	err = db.FindersCollection.FindOneAndReplace(r.Context(),
		bson.M{"explorerid": explorerID}, finder, opts).Decode(&saved)
	if err != nil {
		log.Printf("UpsertFinder: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// GetMyFinder returns the caller's finder. An empty cached result set
// (or one emptied by TTL expiry and re-created) is recomputed with the
// saved criteria.
func GetMyFinder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	var finder models.Finder
	err := db.FindersCollection.FindOne(r.Context(), bson.M{"explorerid": explorerID}).Decode(&finder)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Finder not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(finder.Results) == 0 {
		c := trips.SearchCriteria{
			Keyword:   finder.Keyword,
			MinPrice:  finder.MinPrice,
			MaxPrice:  finder.MaxPrice,
			StartDate: finder.StartDate,
			EndDate:   finder.EndDate,
		}
		results, err := compute(r.Context(), c)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		finder.Results = results
		finder.ComputedAt = time.Now()
		_, err = db.FindersCollection.UpdateOne(r.Context(),
			bson.M{"finderid": finder.FinderID},
			bson.M{"$set": bson.M{"results": results, "computedAt": finder.ComputedAt}},
		)
		if err != nil {
			log.Printf("GetMyFinder: cache refresh failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, finder)
}

func DeleteMyFinder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)

	res, err := db.FindersCollection.DeleteOne(r.Context(), bson.M{"explorerid": explorerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Finder not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
