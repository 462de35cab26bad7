package sysparams

import (
	"context"
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Parameter keys
const (
	KeyFlatRate         = "flatRate"         // percentage fee on payments
	KeyFinderMaxResults = "finderMaxResults" // cap on cached finder results
	KeyFinderResultsTTL = "finderResultsTTL" // hours before a finder cache expires
)

type bounds struct {
	min, max, def float64
}

var paramBounds = map[string]bounds{
	KeyFlatRate:         {min: 0, max: 100, def: 10},
	KeyFinderMaxResults: {min: 1, max: 100, def: 10},
	KeyFinderResultsTTL: {min: 1, max: 24, def: 1},
}

// Validate reports whether the value is inside the inclusive bounds for key.
func Validate(key string, value float64) bool {
	b, ok := paramBounds[key]
	if !ok {
		return false
	}
	return value >= b.min && value <= b.max
}

// Default returns the seeded default for a known key.
func Default(key string) float64 {
	return paramBounds[key].def
}

// Seed inserts defaults for any missing parameter. Idempotent; callers skip
// it under the test-mode flag.
func Seed(ctx context.Context) error {
	for key, b := range paramBounds {
		filter := bson.M{"key": key}
		update := bson.M{"$setOnInsert": models.SystemParam{
			Key:       key,
			Value:     b.def,
			UpdatedAt: time.Now(),
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := db.SystemParamsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
			return err
		}
	}
	return nil
}

// Get reads a parameter at request time, falling back to its default when
// the store has no row (e.g. seeding skipped in tests).
func Get(ctx context.Context, key string) float64 {
	var p models.SystemParam
	err := db.SystemParamsCollection.FindOne(ctx, bson.M{"key": key}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return Default(key)
	}
	if err != nil {
		log.Printf("sysparams: read %s failed: %v", key, err)
		return Default(key)
	}
	return p.Value
}

// Narrow per-parameter accessors so controllers don't touch raw keys.

func FlatRate(ctx context.Context) float64 { return Get(ctx, KeyFlatRate) }

func FinderMaxResults(ctx context.Context) int { return int(Get(ctx, KeyFinderMaxResults)) }

func FinderResultsTTL(ctx context.Context) time.Duration {
	return time.Duration(Get(ctx, KeyFinderResultsTTL)) * time.Hour
}

// ---------- Handlers ----------

// GetParam returns one named parameter. Admin only (enforced by routing).
func GetParam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := ps.ByName("name")
	if _, ok := paramBounds[key]; !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown parameter")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.SystemParam{
		Key:       key,
		Value:     Get(r.Context(), key),
		UpdatedAt: time.Now(),
	})
}

// UpdateParam sets a named parameter after inclusive-bounds validation.
func UpdateParam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := ps.ByName("name")
	if _, ok := paramBounds[key]; !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown parameter")
		return
	}

	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !Validate(key, body.Value) {
		utils.RespondWithError(w, http.StatusBadRequest, "Value out of range")
		return
	}

	filter := bson.M{"key": key}
	update := bson.M{"$set": bson.M{"value": body.Value, "updated_at": time.Now()}}
	opts := options.Update().SetUpsert(true)
	if _, err := db.SystemParamsCollection.UpdateOne(r.Context(), filter, update, opts); err != nil {
		log.Printf("sysparams: update %s failed: %v", key, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.SystemParam{Key: key, Value: body.Value, UpdatedAt: time.Now()})
}
