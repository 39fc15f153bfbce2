package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public Routes
	RouteIndex = "/"
	RouteLeads = "/leads"
	RouteAbout = "/about"

	// Auth Routes - Login & Logout
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	// Admin Routes
	RouteAdmin           = "/admin"
	RouteAdminLeads      = "/admin/leads"
	RouteAdminLeadStatus = "/admin/leads/{id}/status"
	RouteAdminLeadDelete = "/admin/leads/{id}/delete"

	RouteAdminCatalog        = "/admin/catalog"
	RouteAdminCategories     = "/admin/catalog/categories"
	RouteAdminCategoryNew    = "/admin/catalog/categories/new"
	RouteAdminCategory       = "/admin/catalog/categories/{id}"
	RouteAdminCategoryDelete = "/admin/catalog/categories/{id}/delete"
	RouteAdminMachines       = "/admin/catalog/machines"
	RouteAdminMachineNew     = "/admin/catalog/machines/new"
	RouteAdminMachine        = "/admin/catalog/machines/{id}"
	RouteAdminMachineDelete  = "/admin/catalog/machines/{id}/delete"

	RouteAdminCompany        = "/admin/company"
	RouteAdminDocuments      = "/admin/company/documents"
	RouteAdminDocumentNew    = "/admin/company/documents/new"
	RouteAdminDocument       = "/admin/company/documents/{id}"
	RouteAdminDocumentDelete = "/admin/company/documents/{id}/delete"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
