package applications

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"

	"acmex/db"
	"acmex/globals"
	"acmex/models"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// voucherPayload signs tripid|applicationid so the QR code can be checked
// at trip check-in.
func voucherPayload(tripID, applicationID string) string {
	data := fmt.Sprintf("%s|%s", tripID, applicationID)
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintVoucher renders a PDF voucher with a QR code for an ACCEPTED
// application owned by the caller.
func PrintVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	explorerID := utils.GetUserIDFromRequest(r)
	appID := ps.ByName("applicationid")

	var app models.Application
	err := db.ApplicationsCollection.FindOne(r.Context(),
		bson.M{"applicationid": appID, "explorerid": explorerID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if app.Status != models.StatusAccepted {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Application is not accepted")
		return
	}

	var trip models.Trip
	if err := db.TripsCollection.FindOne(r.Context(), bson.M{"tripid": app.TripID}).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	qrPNG, err := qrcode.Encode(voucherPayload(trip.TripID, app.ApplicationID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Trip Voucher")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Trip: %s (%s)", trip.Title, trip.Ticker))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Start: %s", trip.StartDate.Format("2006-01-02")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Application: %s", app.ApplicationID))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+app.ApplicationID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
