package stats

import (
	"context"
	"log"
	"net/http"

	"acmex/db"
	"acmex/models"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Summary holds min/max/average/standard deviation for one population.
type Summary struct {
	Min    float64 `bson:"min" json:"min"`
	Max    float64 `bson:"max" json:"max"`
	Avg    float64 `bson:"avg" json:"avg"`
	StdDev float64 `bson:"stddev" json:"stddev"`
}

// summarize runs a $group producing min/max/avg/$stdDevPop over the field
// of the documents produced by the leading pipeline stages.
func summarize(ctx context.Context, coll *mongo.Collection, lead mongo.Pipeline, field string) (Summary, error) {
	pipeline := append(lead, bson.D{{Key: "$group", Value: bson.M{
		"_id":    nil,
		"min":    bson.M{"$min": field},
		"max":    bson.M{"$max": field},
		"avg":    bson.M{"$avg": field},
		"stddev": bson.M{"$stdDevPop": field},
	}}})

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Summary{}, err
	}
	defer cur.Close(ctx)

	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return Summary{}, err
	}
	if len(out) == 0 {
		return Summary{}, nil
	}
	return out[0], nil
}

// countPerKey groups by key and counts, feeding the count into summarize.
func countPerKey(key string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": key, "count": bson.M{"$sum": 1}}}},
	}
}

// TripsPerManager summarizes how many trips each manager runs.
func TripsPerManager(ctx context.Context) (Summary, error) {
	return summarize(ctx, db.TripsCollection, countPerKey("$managerid"), "$count")
}

// ApplicationsPerTrip summarizes how many applications each trip draws.
func ApplicationsPerTrip(ctx context.Context) (Summary, error) {
	return summarize(ctx, db.ApplicationsCollection, countPerKey("$tripid"), "$count")
}

// TripPrice summarizes trip prices.
func TripPrice(ctx context.Context) (Summary, error) {
	return summarize(ctx, db.TripsCollection, mongo.Pipeline{}, "$price")
}

// StatusRatios returns, per application status, its share of all
// applications.
func StatusRatios(ctx context.Context) (map[string]float64, error) {
	cur, err := db.ApplicationsCollection.Aggregate(ctx, countPerKey("$status"))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}

	ratios := map[string]float64{}
	for _, st := range []string{models.StatusPending, models.StatusDue,
		models.StatusAccepted, models.StatusRejected, models.StatusCancelled} {
		ratios[st] = 0
	}
	if total == 0 {
		return ratios, nil
	}
	for _, row := range rows {
		ratios[row.Status] = float64(row.Count) / float64(total)
	}
	return ratios, nil
}

type keywordCount struct {
	Keyword string `bson:"_id" json:"keyword"`
	Count   int    `bson:"count" json:"count"`
}

// TopFinderKeywords returns the ten most-saved finder keywords.
func TopFinderKeywords(ctx context.Context) ([]keywordCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"keyword": bson.M{"$ne": ""}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$keyword", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
		bson.D{{Key: "$limit", Value: 10}},
	}

	cur, err := db.FindersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []keywordCount{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FinderPriceAverages returns the average saved minPrice and maxPrice.
func FinderPriceAverages(ctx context.Context) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"avgMinPrice": bson.M{"$avg": "$minPrice"},
			"avgMaxPrice": bson.M{"$avg": "$maxPrice"},
		}}},
	}

	cur, err := db.FindersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		AvgMinPrice float64 `bson:"avgMinPrice"`
		AvgMaxPrice float64 `bson:"avgMaxPrice"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := map[string]float64{"avgMinPrice": 0, "avgMaxPrice": 0}
	if len(rows) > 0 {
		out["avgMinPrice"] = rows[0].AvgMinPrice
		out["avgMaxPrice"] = rows[0].AvgMaxPrice
	}
	return out, nil
}

// Dashboard bundles every descriptive statistic in one admin response.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	tripsPerManager, err := TripsPerManager(ctx)
	if err != nil {
		log.Printf("Dashboard: trips per manager: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	applicationsPerTrip, err := ApplicationsPerTrip(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	tripPrice, err := TripPrice(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	ratios, err := StatusRatios(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	keywords, err := TopFinderKeywords(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	finderPrices, err := FinderPriceAverages(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"tripsPerManager":         tripsPerManager,
		"applicationsPerTrip":     applicationsPerTrip,
		"tripPrice":               tripPrice,
		"applicationStatusRatios": ratios,
		"topFinderKeywords":       keywords,
		"finderPriceAverages":     finderPrices,
	})
}
