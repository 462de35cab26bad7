package actors

import (
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
	"golang.org/x/crypto/bcrypt"
)

// CreateActor is the admin path for creating actors of any role,
// including MANAGER and ADMINISTRATOR.
func CreateActor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
		utils.RespondWithError(w, http.StatusBadRequest, "At least one role is required")
		return
	}
	for _, role := range input.Roles {
		if !utils.Contains(models.AllRoles, role) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown role "+role)
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
		log.Printf("CreateActor: insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, actor)
}

func GetActor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var actor models.Actor
	err := db.ActorsCollection.FindOne(r.Context(), bson.M{"actorid": ps.ByName("actorid")}).Decode(&actor)
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

func ListActors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.ActorsCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer cur.Close(r.Context())

	actors := []models.Actor{}
	if err := cur.All(r.Context(), &actors); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, actors)
}

// UpdateProfile lets the authenticated actor edit their own profile.
// Roles, banned flag and email stay under admin control.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID := utils.GetUserIDFromRequest(r)

	var input struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Surname != "" {
		set["surname"] = input.Surname
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Address != "" {
		set["address"] = input.Address
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		set["password"] = string(hashed)
	}

	res, err := db.ActorsCollection.UpdateOne(r.Context(), bson.M{"actorid": actorID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("UpdateProfile: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Actor not found")
		return
	}

	var actor models.Actor
	if err := db.ActorsCollection.FindOne(r.Context(), bson.M{"actorid": actorID}).Decode(&actor); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, actor)
}

func setBanned(w http.ResponseWriter, r *http.Request, ps httprouter.Params, banned bool) {
	res, err := db.ActorsCollection.UpdateOne(r.Context(),
		bson.M{"actorid": ps.ByName("actorid")},
		bson.M{"$set": bson.M{"banned": banned, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Actor not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"actorid": ps.ByName("actorid"), "banned": banned})
}

// BanActor marks an actor banned; banned actors cannot log in.
func BanActor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	setBanned(w, r, ps, true)
}

func UnbanActor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	setBanned(w, r, ps, false)
}
