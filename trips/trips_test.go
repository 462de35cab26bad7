package trips

import (
	"testing"
	"time"

	"acmex/models"

	"go.mongodb.org/mongo-driver/bson"
)

func validInput(now time.Time) tripInput {
	return tripInput{
		Title:       "Andes trek",
		Description: "Two weeks in the Andes",
		StartDate:   now.AddDate(0, 1, 0),
		EndDate:     now.AddDate(0, 1, 14),
		Stages: []models.Stage{
			{Title: "Lima", Price: 300},
			{Title: "Cusco", Price: 450},
		},
	}
}

func TestTripInputValidate(t *testing.T) {
	now := time.Now()

	if msg := func() string { in := validInput(now); return in.validate(now) }(); msg != "" {
		t.Fatalf("expected valid input, got %q", msg)
	}

	in := validInput(now)
	in.Title = ""
	if in.validate(now) == "" {
		t.Error("expected missing title to be rejected")
	}

	in = validInput(now)
	in.Stages = nil
	if in.validate(now) == "" {
		t.Error("expected empty stages to be rejected")
	}

	in = validInput(now)
	in.StartDate = now.AddDate(0, 0, -1)
	if in.validate(now) == "" {
		t.Error("expected past start date to be rejected")
	}

	in = validInput(now)
	in.EndDate = in.StartDate
	if in.validate(now) == "" {
		t.Error("expected end date equal to start date to be rejected")
	}

	in = validInput(now)
	in.Stages[0].Price = -1
	if in.validate(now) == "" {
		t.Error("expected negative stage price to be rejected")
	}
}

func TestTotalPrice(t *testing.T) {
	trip := models.Trip{Stages: []models.Stage{{Price: 100}, {Price: 250.5}}}
	if got := trip.TotalPrice(); got != 350.5 {
		t.Fatalf("expected 350.5, got %v", got)
	}
}

func TestSearchCriteriaFilter(t *testing.T) {
	min, max := 100.0, 500.0
	c := SearchCriteria{Keyword: "beach", MinPrice: &min, MaxPrice: &max}
	filter := c.Filter()

	if filter["isPublished"] != true || filter["isCancelled"] != false {
		t.Fatal("expected search to be restricted to published, non-cancelled trips")
	}
	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("expected keyword to match title and ticker, got %v", filter["$or"])
	}
	price, ok := filter["price"].(bson.M)
	if !ok || price["$gte"] != min || price["$lte"] != max {
		t.Fatalf("expected inclusive price range, got %v", filter["price"])
	}
}

func TestSearchCriteriaFilterEscapesKeyword(t *testing.T) {
	c := SearchCriteria{Keyword: "a.b*"}
	or := c.Filter()["$or"].([]bson.M)
	re := or[0]["title"].(bson.M)["$regex"].(string)
	if re != `a\.b\*` {
		t.Fatalf("expected quoted regex, got %q", re)
	}
}

func TestSearchCriteriaFilterEmpty(t *testing.T) {
	filter := SearchCriteria{}.Filter()
	if _, ok := filter["$or"]; ok {
		t.Error("expected no keyword clause")
	}
	if _, ok := filter["price"]; ok {
		t.Error("expected no price clause")
	}
	if len(filter) != 2 {
		t.Fatalf("expected only publication flags, got %v", filter)
	}
}
