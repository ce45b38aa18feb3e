package http

import "net/http"

// NewRouter registers every API route. Methods other than GET get a 405 from the mux.
func NewRouter(transactions *TransactionHandler, seed *SeedHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/initialize-database", seed.Initialize)
	mux.HandleFunc("GET /transactions/all", transactions.All)
	mux.HandleFunc("GET /transactions", transactions.Search)
	mux.HandleFunc("GET /statistics", transactions.Statistics)
	mux.HandleFunc("GET /bar-chart", transactions.BarChart)
	mux.HandleFunc("GET /pie-chart", transactions.PieChart)
	mux.HandleFunc("GET /healthz", health.Check)

	return mux
}
