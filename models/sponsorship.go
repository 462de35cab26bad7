package models

import "time"

type Sponsorship struct {
	SponsorshipID  string    `json:"sponsorshipid" bson:"sponsorshipid"`
	SponsorID      string    `json:"sponsorid" bson:"sponsorid"`
	TripID         string    `json:"tripid" bson:"tripid"`
	BannerURL      string    `json:"bannerURL" bson:"bannerURL"`
	LandingPageURL string    `json:"landingPageURL" bson:"landingPageURL"`
	IsPaid         bool      `json:"isPaid" bson:"isPaid"`
	PaymentID      string    `json:"paymentid,omitempty" bson:"paymentid,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
