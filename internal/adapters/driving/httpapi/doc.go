// Package httpapi exposes the mirror over HTTP using echo.
//
// Routes:
//
//	GET  /api/cves           filtered, paginated query
//	GET  /api/cves/:id       raw feed item for one CVE
//	POST /admin/sync         run a full sync and wait for it
//	GET  /admin/sync/runs    sync status and recent runs
//	GET  /metrics            Prometheus exposition
//	GET  /healthz            liveness
package httpapi
