package httpapi

import "net/http"

// Handler returns the full route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.health)

	mux.HandleFunc("GET /api/auth", s.requireUser(s.currentUser))
	mux.HandleFunc("GET /auth/user", s.requireUser(s.currentUser))
	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/logout", s.logout)
	mux.HandleFunc("POST /api/auth/refresh", s.refresh)
	mux.HandleFunc("POST /api/auth/google", s.google)
	mux.HandleFunc("POST /auth/google", s.google)
	mux.HandleFunc("PATCH /api/auth/update", s.requireUser(s.updateProfile))
	mux.HandleFunc("PATCH /api/auth/password", s.requireUser(s.changePassword))

	mux.HandleFunc("GET /api/transactions", s.requireUser(s.listTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireUser(s.createTransaction))
	mux.HandleFunc("POST /api/transactions/export", s.requireUser(s.exportTransactions))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.requireUser(s.updateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireUser(s.deleteTransaction))

	return s.logRequests(s.cors(mux))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
