package cubes

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"acmex/db"
	"acmex/models"
	"acmex/mq"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// explorerTotal is one grouped row of the spend pipeline.
type explorerTotal struct {
	ExplorerID string  `bson:"_id"`
	Amount     float64 `bson:"amount"`
}

// spendTotals sums accepted-application trip prices per explorer for
// applications created on or after windowStart.
func spendTotals(ctx context.Context, windowStart time.Time) ([]explorerTotal, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":     models.StatusAccepted,
			"created_at": bson.M{"$gte": windowStart},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "trips",
			"localField":   "tripid",
			"foreignField": "tripid",
			"as":           "trip",
		}}},
		bson.D{{Key: "$unwind", Value: "$trip"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    "$explorerid",
			"amount": bson.M{"$sum": "$trip.price"},
		}}},
	}

	cur, err := db.ApplicationsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var totals []explorerTotal
	if err := cur.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// Compute drops all cubes and rebuilds them for the 36 rolling month
// windows; windows 12, 24 and 36 also produce year cubes 1..3. This is a
// synchronous admin batch with no partial-failure recovery: a mid-loop
// failure leaves the cubes partially rebuilt.
func Compute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	now := time.Now()

	if _, err := db.MonthCubesCollection.DeleteMany(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if _, err := db.YearCubesCollection.DeleteMany(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	monthRows, yearRows := 0, 0
	for m := 1; m <= 36; m++ {
		totals, err := spendTotals(ctx, WindowStart(now, m))
		if err != nil {
			log.Printf("Compute: window %d failed: %v", m, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if len(totals) == 0 {
			continue
		}

		monthDocs := make([]interface{}, 0, len(totals))
		yearDocs := make([]interface{}, 0, len(totals))
		for _, t := range totals {
			monthDocs = append(monthDocs, models.MonthCube{
				ExplorerID: t.ExplorerID,
				Month:      m,
				Amount:     t.Amount,
				ComputedAt: now,
			})
			if m%12 == 0 {
				yearDocs = append(yearDocs, models.YearCube{
					ExplorerID: t.ExplorerID,
					Year:       m / 12,
					Amount:     t.Amount,
					ComputedAt: now,
				})
			}
		}

		if _, err := db.MonthCubesCollection.InsertMany(ctx, monthDocs); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		monthRows += len(monthDocs)
		if len(yearDocs) > 0 {
			if _, err := db.YearCubesCollection.InsertMany(ctx, yearDocs); err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
				return
			}
			yearRows += len(yearDocs)
		}
	}

	mq.Emit(ctx, "cubes-computed", "", utils.GetUserIDFromRequest(r), "")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"monthCubes": monthRows,
		"yearCubes":  yearRows,
		"computedAt": now,
	})
}

// GetCube returns the latest computed amount for an explorer and a period
// token (M01..M36 or Y01..Y03).
func GetCube(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := ps.ByName("explorerid")
	kind, n, ok := ParsePeriod(ps.ByName("period"))
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid period")
		return
	}

	opts := options.FindOne().SetSort(bson.M{"computedAt": -1})
	var amount float64
	var err error
	if kind == 'M' {
		var cube models.MonthCube
		err = db.MonthCubesCollection.FindOne(r.Context(),
			bson.M{"explorerId": explorerID, "month": n}, opts).Decode(&cube)
		amount = cube.Amount
	} else {
		var cube models.YearCube
		err = db.YearCubesCollection.FindOne(r.Context(),
			bson.M{"explorerId": explorerID, "year": n}, opts).Decode(&cube)
		amount = cube.Amount
	}
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Cube not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"Cube amount": amount})
}

// GetExplorersByCondition filters cubes of a period by a comparison
// operator and amount, returning the matching explorers without passwords.
func GetExplorersByCondition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind, n, ok := ParsePeriod(ps.ByName("period"))
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid period")
		return
	}
	mongoOp, ok := MongoOp(ps.ByName("condition"))
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condition")
		return
	}
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "amount is required")
		return
	}

	filter := bson.M{"amount": bson.M{mongoOp: amount}}
	var coll *mongo.Collection
	if kind == 'M' {
		filter["month"] = n
		coll = db.MonthCubesCollection
	} else {
		filter["year"] = n
		coll = db.YearCubesCollection
	}

	cur, err := coll.Find(r.Context(), filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	explorerIDs := []string{}
	for cur.Next(r.Context()) {
		var row struct {
			ExplorerID string `bson:"explorerId"`
		}
		if err := cur.Decode(&row); err == nil {
			explorerIDs = append(explorerIDs, row.ExplorerID)
		}
	}

	if len(explorerIDs) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.Actor{})
		return
	}

	projection := options.Find().SetProjection(bson.M{"password": 0})
	actorCur, err := db.ActorsCollection.Find(r.Context(),
		bson.M{"actorid": bson.M{"$in": explorerIDs}}, projection)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer actorCur.Close(r.Context())

	actors := []models.Actor{}
	if err := actorCur.All(r.Context(), &actors); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, actors)
}
