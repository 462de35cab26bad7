package routes

import (
	"net/http"

	"acmex/actors"
	"acmex/applications"
	"acmex/auth"
	"acmex/cubes"
	"acmex/favourites"
	"acmex/finders"
	"acmex/live"
	"acmex/middleware"
	"acmex/models"
	"acmex/payments"
	"acmex/pois"
	"acmex/ratelim"
	"acmex/sponsorships"
	"acmex/stats"
	"acmex/sysparams"
	"acmex/trips"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/register", rl.Limit(auth.Register))
	router.POST("/api/v1/auth/login", rl.Limit(auth.Login))
	router.POST("/api/v1/auth/token", rl.Limit(auth.ExchangeToken))
	router.GET("/api/v1/auth/me", auth.Me)
}

func AddActorRoutes(router *httprouter.Router) {
	router.POST("/api/v1/actors", middleware.RequireRole(actors.CreateActor, models.RoleAdministrator))
	router.GET("/api/v1/actors", middleware.RequireRole(actors.ListActors, models.RoleAdministrator))
	router.GET("/api/v1/actors/:actorid", middleware.Authenticated(actors.GetActor))
	router.PUT("/api/v1/actors/:actorid/ban", middleware.RequireRole(actors.BanActor, models.RoleAdministrator))
	router.PUT("/api/v1/actors/:actorid/unban", middleware.RequireRole(actors.UnbanActor, models.RoleAdministrator))
	router.PUT("/api/v1/profile", middleware.Authenticated(actors.UpdateProfile))
}

func AddTripRoutes(router *httprouter.Router) {
	router.GET("/api/v1/trips", trips.ListTrips)
	router.GET("/api/v1/trip-search", trips.SearchTrips)
	router.GET("/api/v1/trips/:tripid", trips.GetTrip)
	router.POST("/api/v1/trips", middleware.RequireRole(trips.CreateTrip, models.RoleManager))
	router.PUT("/api/v1/trips/:tripid", middleware.RequireRole(trips.UpdateTrip, models.RoleManager))
	router.DELETE("/api/v1/trips/:tripid", middleware.RequireRole(trips.DeleteTrip, models.RoleManager))
	router.PUT("/api/v1/trips/:tripid/publish", middleware.RequireRole(trips.PublishTrip, models.RoleManager))
	router.PUT("/api/v1/trips/:tripid/cancel", middleware.RequireRole(trips.CancelTrip, models.RoleManager))
	router.POST("/api/v1/trips/:tripid/pictures", middleware.RequireRole(trips.UploadTripPicture, models.RoleManager))
	router.GET("/api/v1/mine/trips", middleware.RequireRole(trips.ListMyTrips, models.RoleManager))
	router.ServeFiles("/static/trippic/*filepath", http.Dir("static/trippic"))
}

func AddApplicationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/applications", middleware.RequireRole(applications.CreateApplication, models.RoleExplorer))
	router.GET("/api/v1/applications/:applicationid", middleware.Authenticated(applications.GetApplication))
	router.PUT("/api/v1/applications/:applicationid", middleware.RequireRole(applications.ManagerUpdate, models.RoleManager))
	router.PUT("/api/v1/applications/:applicationid/cancel", middleware.RequireRole(applications.CancelApplication, models.RoleExplorer))
	router.POST("/api/v1/applications/:applicationid/payment-session",
		rl.Limit(middleware.RequireRole(applications.CreatePaymentSession, models.RoleExplorer)))
	router.POST("/api/v1/applications/:applicationid/confirm-purchase",
		rl.Limit(middleware.RequireRole(payments.Idempotent(applications.ConfirmPayment), models.RoleExplorer)))
	router.GET("/api/v1/applications/:applicationid/voucher",
		middleware.RequireRole(applications.PrintVoucher, models.RoleExplorer))
	router.GET("/api/v1/mine/applications", middleware.RequireRole(applications.ListMyApplications, models.RoleExplorer))
	router.GET("/api/v1/trips/:tripid/applications",
		middleware.RequireRole(applications.ListTripApplications, models.RoleManager))
}

func AddSponsorshipRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/sponsorships", middleware.RequireRole(sponsorships.CreateSponsorship, models.RoleSponsor))
	router.GET("/api/v1/sponsorships/:sponsorshipid", middleware.Authenticated(sponsorships.GetSponsorship))
	router.PUT("/api/v1/sponsorships/:sponsorshipid", middleware.RequireRole(sponsorships.UpdateSponsorship, models.RoleSponsor))
	router.DELETE("/api/v1/sponsorships/:sponsorshipid", middleware.RequireRole(sponsorships.DeleteSponsorship, models.RoleSponsor))
	router.POST("/api/v1/sponsorships/:sponsorshipid/payment-session",
		rl.Limit(middleware.RequireRole(sponsorships.CreatePaymentSession, models.RoleSponsor)))
	router.POST("/api/v1/sponsorships/:sponsorshipid/confirm-purchase",
		rl.Limit(middleware.RequireRole(payments.Idempotent(sponsorships.ConfirmPayment), models.RoleSponsor)))
	router.GET("/api/v1/mine/sponsorships", middleware.RequireRole(sponsorships.ListMySponsorships, models.RoleSponsor))
	router.GET("/api/v1/trips/:tripid/random-sponsorship", sponsorships.RandomPaidSponsorship)
}

func AddFinderRoutes(router *httprouter.Router) {
	router.POST("/api/v1/finders", middleware.RequireRole(finders.UpsertFinder, models.RoleExplorer))
	router.PUT("/api/v1/finders", middleware.RequireRole(finders.UpsertFinder, models.RoleExplorer))
	router.GET("/api/v1/mine/finder", middleware.RequireRole(finders.GetMyFinder, models.RoleExplorer))
	router.DELETE("/api/v1/mine/finder", middleware.RequireRole(finders.DeleteMyFinder, models.RoleExplorer))
}

func AddFavouriteListRoutes(router *httprouter.Router) {
	router.GET("/api/v1/mine/favourite-lists", middleware.RequireRole(favourites.ListFavouriteLists, models.RoleExplorer))
	router.POST("/api/v1/favourite-lists/sync", middleware.RequireRole(favourites.SyncFavouriteList, models.RoleExplorer))
	router.DELETE("/api/v1/favourite-lists/:listid", middleware.RequireRole(favourites.DeleteFavouriteList, models.RoleExplorer))
}

func AddPOIRoutes(router *httprouter.Router) {
	router.GET("/api/v1/pois", pois.ListPOIs)
	router.GET("/api/v1/pois/:poiid", pois.GetPOI)
	router.POST("/api/v1/pois", middleware.RequireRole(pois.CreatePOI, models.RoleAdministrator))
	router.PUT("/api/v1/pois/:poiid", middleware.RequireRole(pois.UpdatePOI, models.RoleAdministrator))
	router.DELETE("/api/v1/pois/:poiid", middleware.RequireRole(pois.DeletePOI, models.RoleAdministrator))
	router.POST("/api/v1/pois/:poiid/assign", middleware.RequireRole(pois.AssignToStage, models.RoleManager))
}

func AddSystemParamRoutes(router *httprouter.Router) {
	router.GET("/api/v1/system-params/:name", middleware.RequireRole(sysparams.GetParam, models.RoleAdministrator))
	router.PUT("/api/v1/system-params/:name", middleware.RequireRole(sysparams.UpdateParam, models.RoleAdministrator))
}

func AddCubeRoutes(router *httprouter.Router) {
	router.POST("/api/v1/cubes", middleware.RequireRole(cubes.Compute, models.RoleAdministrator))
	router.GET("/api/v1/cubes/:explorerid/period/:period", middleware.RequireRole(cubes.GetCube, models.RoleAdministrator))
	router.GET("/api/v1/cubes-by-condition/:period/:condition",
		middleware.RequireRole(cubes.GetExplorersByCondition, models.RoleAdministrator))
}

func AddStatsRoutes(router *httprouter.Router) {
	router.GET("/api/v1/stats", middleware.RequireRole(stats.Dashboard, models.RoleAdministrator))
	router.GET("/api/v1/dashboard", middleware.RequireRole(stats.Dashboard, models.RoleAdministrator))
}

func AddLiveRoutes(router *httprouter.Router) {
	router.GET("/api/v1/live", middleware.RequireRole(live.Events, models.RoleAdministrator))
}
