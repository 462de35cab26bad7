package trips

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/sysparams"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchCriteria mirrors a finder's saved search: case-insensitive
// substring keyword over title/ticker, inclusive price range, date range.
type SearchCriteria struct {
	Keyword   string
	MinPrice  *float64
	MaxPrice  *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// Filter builds the Mongo filter for the criteria over published,
// non-cancelled trips.
func (c SearchCriteria) Filter() bson.M {
	filter := bson.M{"isPublished": true, "isCancelled": false}

	if c.Keyword != "" {
		pattern := regexp.QuoteMeta(c.Keyword)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"ticker": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	price := bson.M{}
	if c.MinPrice != nil {
		price["$gte"] = *c.MinPrice
	}
	if c.MaxPrice != nil {
		price["$lte"] = *c.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if c.StartDate != nil {
		filter["startDate"] = bson.M{"$gte": *c.StartDate}
	}
	if c.EndDate != nil {
		filter["endDate"] = bson.M{"$lte": *c.EndDate}
	}
	return filter
}

// Search runs the criteria against the trips collection, capped at limit.
func Search(ctx context.Context, c SearchCriteria, limit int) ([]models.Trip, error) {
	opts := options.Find().SetLimit(int64(limit))
	cur, err := db.TripsCollection.Find(ctx, c.Filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	trips := []models.Trip{}
	if err := cur.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// SearchTrips is the public search endpoint; it shares the finder's
// criteria shape and the admin-configured result cap.
func SearchTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	c := SearchCriteria{Keyword: q.Get("keyword")}
	if v := q.Get("minPrice"); v != "" {
		p := utils.ParseFloat(v)
		c.MinPrice = &p
	}
	if v := q.Get("maxPrice"); v != "" {
		p := utils.ParseFloat(v)
		c.MaxPrice = &p
	}
	if t := utils.ParseDate(q.Get("startDate")); t != nil {
		c.StartDate = t
	}
	if t := utils.ParseDate(q.Get("endDate")); t != nil {
		c.EndDate = t
	}
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MaxPrice < *c.MinPrice {
		utils.RespondWithError(w, http.StatusBadRequest, "maxPrice must be >= minPrice")
		return
	}

	limit := sysparams.FinderMaxResults(r.Context())
	trips, err := Search(r.Context(), c, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}
