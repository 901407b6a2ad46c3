// ABOUTME: Runtime configuration and API origin resolution
// ABOUTME: Resolves the backend base URL from flag, env/config file, stored override, or default

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIBase is the local development fallback.
const DefaultAPIBase = "http://localhost:8000/api"

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// Init loads .env (best effort) and wires viper to the RENTCTL_* environment
// and the optional config file under the config directory. Call once before
// any resolution.
func Init() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("rentctl")
	viper.AutomaticEnv()

	if dir := Dir(); dir != "" {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		// Missing config file is the normal case.
		_ = viper.ReadInConfig()
	}
}

// Dir returns the rentctl config directory following the XDG spec.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rentctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rentctl")
}

// APIBase resolves the REST origin. Precedence: explicit flag value, runtime
// config (RENTCTL_API_BASE, then RENTCTL_API_HOST), a host override persisted
// in local state, then the hardcoded default.
func APIBase(flagValue, storedHost string) string {
	if flagValue != "" {
		return strings.TrimRight(flagValue, "/")
	}
	if base := viper.GetString("api_base"); strings.TrimSpace(base) != "" {
		return strings.TrimRight(base, "/")
	}
	if host := viper.GetString("api_host"); strings.TrimSpace(host) != "" {
		return baseFromHost(host)
	}
	if strings.TrimSpace(storedHost) != "" {
		return baseFromHost(storedHost)
	}
	return DefaultAPIBase
}

// baseFromHost turns a bare host or host URL into "<origin>/api".
func baseFromHost(host string) string {
	raw := host
	if !schemeRe.MatchString(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("https://%s/api", strings.TrimRight(host, "/"))
	}
	return fmt.Sprintf("%s://%s/api", u.Scheme, u.Host)
}

// SocketURL derives the notification socket address from the API base.
// The ws scheme is secure exactly when the API origin is served over https.
func SocketURL(apiBase, accessToken string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("invalid api base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid api base %q: no host", apiBase)
	}

	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws/notifications/?token=%s", scheme, u.Host, url.QueryEscape(accessToken)), nil
}
