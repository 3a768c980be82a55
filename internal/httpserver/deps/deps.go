package deps

import (
	"time"

	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/scheduler"
	"github.com/MrSnakeDoc/desk/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts    []string // Host headers allowed on the API and ops endpoints
	AllowedCIDRS    []string // IPs allowed on the ops endpoints (readyz, infra, reload, metrics)
	TrustProxy      bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins     []string // browser origins allowed on /api/config
	RateLimitBurst  int      // PUT /api/config burst per client IP
	RateLimitPerMin int      // PUT /api/config sustained rate per client IP

	Store *store.Service

	// SeedStatus and ReloadTrigger are nil when no seed file is configured.
	SeedStatus    func() scheduler.SeedStatus
	ReloadTrigger chan struct{}
}
