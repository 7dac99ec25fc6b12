// Package rest provides the HTTP API for user attribute search.
//
// Routes are served by gin. Every search route is scoped to a realm and
// requires a bearer token issued for that realm with the realm-admin role.
//
// # Endpoints
//
// Search:
//
//	POST /admin/realms/{realm}/users/search                  - Legacy equality search
//	POST /admin/realms/{realm}/users/search-by-attributes    - Legacy equals and prefix search
//	POST /admin/realms/{realm}/users/v2/search-by-attributes - Paged search
//
// Other:
//
//	GET  /api/v1/health        - Health check
//	GET  /metrics              - Prometheus metrics
//	GET  /api/v1/config        - Effective configuration (server-admin)
//	POST /api/v1/config/reload - Reload configuration file (server-admin)
//
// # Pagination
//
// The v2 endpoint takes a pagination object with limit and continueToken.
// The response carries the token for the next page, or -1 when no users
// remain. Sending -1 back returns an empty page.
//
// # Example Usage
//
//	curl -X POST http://localhost:8080/admin/realms/acme/users/v2/search-by-attributes \
//	  -H "Authorization: Bearer <token>" \
//	  -H "Content-Type: application/json" \
//	  -d '{"attributesStartsWith": {"KATOTTG": ["UA07"]}, "pagination": {"limit": 2}}'
package rest
