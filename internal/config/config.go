package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits comma-separated list values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Pricing knobs live here rather than as code
// constants so that a fee change (discount percent, surcharge amount, the
// surcharge regions) is a deploy-time decision, not a code change.
type Config struct {
	Env              string   // application environment (e.g. "dev", "prod")
	Port             string   // HTTP port to listen on
	JWTSecret        string   // secret used to sign session JWTs
	SessionTTLMin    int      // session token time-to-live in minutes
	BackendBaseURL   string   // base URL of the backend registration service
	RegistrationOpen bool     // explicit override: whether registration is open at all
	RegistrationFee  int64    // fixed region surcharge in cents
	FeeRegions       []string // home regions that pay the surcharge (normalized lower-case)
	DiscountPercent  int64    // percent taken off the subtotal for eligible packages
	DiscountPackages []string // package ids eligible for the discount
	AdminEmails      []string // emails allowed to call admin endpoints
	DraftTTLDays     int      // days before a pending draft expires (0 = never)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Everything else has
// a default that matches the observed production values.
func Load() Config {
	return Config{
		Env:              getenv("APP_ENV", "dev"),
		Port:             getenv("APP_PORT", "8080"),
		JWTSecret:        must("JWT_SECRET"),
		SessionTTLMin:    atoiDefault(getenv("SESSION_TTL_MIN", "1440")),
		BackendBaseURL:   getenv("BACKEND_BASE_URL", "https://aibf-backend.up.railway.app"),
		RegistrationOpen: getenv("REGISTRATION_OPEN", "true") == "true",
		RegistrationFee:  int64(atoiDefault(getenv("REGISTRATION_FEE_CENTS", "10000"))),
		FeeRegions:       splitCSV(getenv("FEE_REGIONS", "victoria,vic")),
		DiscountPercent:  int64(atoiDefault(getenv("DISCOUNT_PERCENT", "50"))),
		DiscountPackages: splitCSV(getenv("DISCOUNT_PACKAGES", "4-day,3-day")),
		AdminEmails:      splitCSV(os.Getenv("ADMIN_EMAILS")),
		DraftTTLDays:     atoiDefault(getenv("DRAFT_TTL_DAYS", "0")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// splitCSV turns a comma-separated env value into a slice of trimmed,
// lower-cased entries.  Empty segments are dropped so a trailing comma is
// harmless.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
