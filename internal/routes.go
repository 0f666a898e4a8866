package internal

import (
	"net/http"

	"ctad/internal/controllers"
	"ctad/internal/providers"
	"ctad/internal/structures"
)

func InitRoutes(sdkController *controllers.SdkController, adminController *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/sdk/app-launch", http.HandlerFunc(sdkController.AppLaunch))
	routers.Post("/sdk/merge", http.HandlerFunc(sdkController.Merge))

	routers.Post("/admin/cta", http.HandlerFunc(adminController.CreateCTA))
	routers.Post("/admin/cta/update", http.HandlerFunc(adminController.UpdateCTA))
	routers.Get("/admin/cta/get", http.HandlerFunc(adminController.GetCTA))
	routers.Get("/admin/cta/list", http.HandlerFunc(adminController.ListCTAs))
	routers.Get("/admin/cta/filters", http.HandlerFunc(adminController.GetFilters))

	routers.Post("/admin/cta/live", http.HandlerFunc(adminController.Live))
	routers.Post("/admin/cta/pause", http.HandlerFunc(adminController.Pause))
	routers.Post("/admin/cta/schedule", http.HandlerFunc(adminController.Schedule))
	routers.Post("/admin/cta/conclude", http.HandlerFunc(adminController.Conclude))
	routers.Post("/admin/cta/terminate", http.HandlerFunc(adminController.Terminate))

	routers.Post("/admin/tag", http.HandlerFunc(adminController.CreateTag))
	routers.Post("/admin/tag/update", http.HandlerFunc(adminController.UpdateTag))
	routers.Get("/admin/tag/get", http.HandlerFunc(adminController.GetTag))
	routers.Get("/admin/tag/list", http.HandlerFunc(adminController.ListTags))
	routers.Post("/admin/tag/link", http.HandlerFunc(adminController.LinkTag))
	routers.Post("/admin/tag/unlink", http.HandlerFunc(adminController.UnlinkTag))

	return routers
}
