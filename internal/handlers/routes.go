package handlers

import "net/http"

// Router bundles the handlers served by the API
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Babies     *BabyHandler
	Words      *WordHandler
	Stats      *StatsHandler
	Startup    *StartupStatus
}

// Handler registers every route and wraps the mux with CORS and logging
func (rt *Router) Handler() http.Handler {
	m := rt.Middleware
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", rt.Startup.Health)

	// Session provider
	mux.HandleFunc("GET /api/me", m.RequireAuth(rt.Auth.Me))
	mux.HandleFunc("POST /api/register", m.RateLimit(rt.Auth.Register))
	mux.HandleFunc("POST /api/login", m.RateLimit(rt.Auth.Login))
	mux.HandleFunc("POST /api/logout", rt.Auth.Logout)
	mux.HandleFunc("GET /api/auth/providers", rt.Auth.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", rt.Auth.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", rt.Auth.OAuthCallback)

	// Profiles
	mux.HandleFunc("GET /api/babies", m.RequireAuth(rt.Babies.ListBabies))
	mux.HandleFunc("POST /api/baby", m.Protected(rt.Babies.CreateBaby))
	mux.HandleFunc("GET /api/baby/{id}", m.RequireAuth(rt.Babies.GetBaby))
	mux.HandleFunc("PUT /api/baby/{id}", m.Protected(rt.Babies.UpdateBaby))

	// Words
	mux.HandleFunc("POST /api/words", m.Protected(rt.Words.AddWord))
	mux.HandleFunc("GET /api/words/{babyId}", m.RequireAuth(rt.Words.ListWords))
	mux.HandleFunc("PATCH /api/words/{id}", m.Protected(rt.Words.PatchWord))
	mux.HandleFunc("DELETE /api/words/{id}", m.Protected(rt.Words.DeleteWord))

	// Stats
	mux.HandleFunc("GET /api/stats", m.RequireAuth(rt.Stats.Series))
	mux.HandleFunc("GET /api/stats/summary", m.RequireAuth(rt.Stats.Summary))
	mux.HandleFunc("POST /api/stats/digest", m.Protected(rt.Stats.SendDigest))

	return Logging(m.CORS(mux))
}
