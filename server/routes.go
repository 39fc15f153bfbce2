package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLeads, ChainMiddleware(s.LeadSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAbout, ChainMiddleware(s.AboutHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Admin routes (the access gate has already validated the session cookie)
	s.RegisterRouteHandler("GET "+RouteAdmin, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminLeads, ChainMiddleware(s.AdminLeadsListHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminLeadStatus, ChainMiddleware(s.AdminLeadStatusHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminLeadDelete, ChainMiddleware(s.AdminLeadDeleteHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	// CATALOG
	s.RegisterRouteHandler("GET "+RouteAdminCatalog, ChainMiddleware(s.AdminCatalogHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminCategoryNew, ChainMiddleware(s.AdminCategoryFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminCategories, ChainMiddleware(s.AdminCategoryCreateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminCategory, ChainMiddleware(s.AdminCategoryFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminCategory, ChainMiddleware(s.AdminCategoryUpdateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminCategoryDelete, ChainMiddleware(s.AdminCategoryDeleteHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminMachineNew, ChainMiddleware(s.AdminMachineFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminMachines, ChainMiddleware(s.AdminMachineCreateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminMachine, ChainMiddleware(s.AdminMachineFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminMachine, ChainMiddleware(s.AdminMachineUpdateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminMachineDelete, ChainMiddleware(s.AdminMachineDeleteHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	// COMPANY
	s.RegisterRouteHandler("GET "+RouteAdminCompany, ChainMiddleware(s.AdminCompanyHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminDocumentNew, ChainMiddleware(s.AdminDocumentFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminDocuments, ChainMiddleware(s.AdminDocumentCreateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAdminDocument, ChainMiddleware(s.AdminDocumentFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminDocument, ChainMiddleware(s.AdminDocumentUpdateHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAdminDocumentDelete, ChainMiddleware(s.AdminDocumentDeleteHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler("css"), s.HTMLMiddleWare(s.CacheMiddleware)...))
}

func (s *Server) serveFileHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := dir + "/" + r.PathValue("file")
		if err := streamAsset(w, staticFS, filePath); err != nil {
			log.Debug().Err(err).Str("path", filePath).Msg("Static file not found")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
