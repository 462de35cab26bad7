package sponsorships

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestRandomPaidPipelineFiltersUnpaid(t *testing.T) {
	pipeline := randomPaidPipeline("trip-1")
	if len(pipeline) != 2 {
		t.Fatalf("expected match and sample stages, got %d", len(pipeline))
	}

	match, ok := pipeline[0][0].Value.(bson.M)
	if !ok || pipeline[0][0].Key != "$match" {
		t.Fatalf("expected leading $match stage, got %+v", pipeline[0])
	}
	if match["tripid"] != "trip-1" {
		t.Errorf("expected trip filter, got %v", match["tripid"])
	}
	if match["isPaid"] != true {
		t.Errorf("expected paid-only filter, got %v", match["isPaid"])
	}

	sample, ok := pipeline[1][0].Value.(bson.M)
	if !ok || pipeline[1][0].Key != "$sample" {
		t.Fatalf("expected $sample stage, got %+v", pipeline[1])
	}
	if sample["size"] != 1 {
		t.Errorf("expected sample size 1, got %v", sample["size"])
	}
}

func TestSponsorshipInputValidate(t *testing.T) {
	in := sponsorshipInput{
		TripID:         "trip-1",
		BannerURL:      "https://cdn.test/banner.png",
		LandingPageURL: "https://sponsor.test/landing",
	}
	if msg := in.validate(); msg != "" {
		t.Fatalf("expected valid input, got %q", msg)
	}

	in.TripID = ""
	if in.validate() == "" {
		t.Error("expected missing tripid to be rejected")
	}

	in.TripID = "trip-1"
	in.BannerURL = "not-a-url"
	if in.validate() == "" {
		t.Error("expected invalid bannerURL to be rejected")
	}
}
