package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"acmex/db"
	"acmex/idp"
	"acmex/models"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Login checks credentials and mints a short-lived custom token through the
// identity provider. Banned actors are refused with 409, bad passwords
// with 400.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var actor models.Actor
	err := db.ActorsCollection.FindOne(r.Context(), bson.M{"email": input.Email}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Login: DB error for %s: %v", input.Email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if actor.Banned {
		utils.RespondWithError(w, http.StatusConflict, "Actor is banned")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	customToken, err := idp.MintCustomToken(actor.Email)
	if err != nil {
		log.Printf("Login: mint token failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"customToken": customToken,
		"actorid":     actor.ActorID,
	})
}

// Register is self-service signup, restricted to EXPLORER and SPONSOR.
// Managers and administrators are created by an admin through /actors.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name     string   `json:"name"`
		Surname  string   `json:"surname"`
		Email    string   `json:"email"`
		Password string   `json:"password"`
		Phone    string   `json:"phone"`
		Address  string   `json:"address"`
		Roles    []string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Surname == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, surname and password are required")
		return
	}
	if !utils.IsValidEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if len(input.Roles) == 0 {
		input.Roles = []string{models.RoleExplorer}
	}
	for _, role := range input.Roles {
		if !utils.Contains(models.SelfServiceRoles, role) {
			utils.RespondWithError(w, http.StatusForbidden, "Role not allowed for self-service signup")
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	actor := models.Actor{
		ActorID:   utils.GetUUID(),
		Name:      input.Name,
		Surname:   input.Surname,
		Email:     input.Email,
		Password:  string(hashed),
		Phone:     input.Phone,
		Address:   input.Address,
		Roles:     input.Roles,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := db.ActorsCollection.InsertOne(r.Context(), actor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("Register: insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, actor)
}

// ExchangeToken swaps a custom token for a provider ID token.
func ExchangeToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		CustomToken string `json:"customToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CustomToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "customToken is required")
		return
	}

	idToken, err := idp.ExchangeCustomToken(r.Context(), input.CustomToken)
	if err != nil {
		log.Printf("ExchangeToken: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Identity provider error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"idToken": idToken})
}

// Me resolves the actor behind an ID token.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h := r.Header.Get("Authorization")
	if len(h) < 8 || h[:7] != "Bearer " {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or malformed token")
		return
	}

	email, err := idp.VerifyIDToken(r.Context(), h[7:])
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var actor models.Actor
	err = db.ActorsCollection.FindOne(r.Context(), bson.M{"email": email}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Actor not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, actor)
}
