package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"acmex/db"
	"acmex/globals"
	"acmex/idp"
	"acmex/models"
	"acmex/rdx"
	"acmex/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 8 || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return h[7:]
}

// vetActor rejects actors that may not use the API regardless of role.
func vetActor(a *models.Actor) (int, string) {
	if a.Banned {
		return http.StatusForbidden, "Actor is banned"
	}
	return 0, ""
}

// resolveActor verifies the token with the identity provider (redis-cached)
// and loads the matching actor by subject email. Banned actors are refused
// here so a ban bites before any cached token expires.
func resolveActor(r *http.Request) (*models.Actor, int, string) {
	token := bearerToken(r)
	if token == "" {
		return nil, http.StatusUnauthorized, "Missing or malformed token"
	}

	ctx := r.Context()
	email := rdx.GetVerifiedToken(ctx, token)
	if email == "" {
		var err error
		email, err = idp.VerifyIDToken(ctx, token)
		if err != nil {
			return nil, http.StatusUnauthorized, "Invalid token"
		}
		rdx.CacheVerifiedToken(ctx, token, email)
	}

	var actor models.Actor
	err := db.ActorsCollection.FindOne(ctx, bson.M{"email": email}).Decode(&actor)
	if err == mongo.ErrNoDocuments {
		// tokens are minted only for existing actors; treat as data drift
		return nil, http.StatusNotFound, "Actor not found"
	}
	if err != nil {
		log.Printf("resolveActor: DB error for %s: %v", email, err)
		return nil, http.StatusInternalServerError, "Database error"
	}
	if code, msg := vetActor(&actor); code != 0 {
		return nil, code, msg
	}
	return &actor, 0, ""
}

func withActor(r *http.Request, actor *models.Actor) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, actor.ActorID)
	ctx = context.WithValue(ctx, globals.RolesKey, actor.Roles)
	ctx = context.WithValue(ctx, globals.EmailKey, actor.Email)
	return r.WithContext(ctx)
}

// RequireRole resolves the caller and enforces membership in any of the
// given roles. One parametrized guard replaces a guard per role.
func RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, code, msg := resolveActor(r)
		if actor == nil {
			utils.RespondWithError(w, code, msg)
			return
		}
		if !actor.HasRole(roles...) {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, withActor(r, actor), ps)
	}
}

// Authenticated only requires a valid token and a resolvable actor,
// without a role check.
func Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, code, msg := resolveActor(r)
		if actor == nil {
			utils.RespondWithError(w, code, msg)
			return
		}
		next(w, withActor(r, actor), ps)
	}
}
