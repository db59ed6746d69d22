package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/pkg/retry"
)

// DefaultAllowedKeys are the environment variables a Vault secret may set
var DefaultAllowedKeys = []string{
	"GEMINI_API_KEY",
	"OPENAI_API_KEY",
	"REDIS_PASSWORD",
	"DB_PASSWORD",
	"TYPESENSE_API_KEY",
}

// VaultConfig describes where the KV secret lives
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	Overwrite bool
	// AllowedKeys limits which secret keys are exported; nil means
	// DefaultAllowedKeys.
	AllowedKeys []string
}

// VaultResult reports what ApplyVaultSecrets did
type VaultResult struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
	Ignored []string
}

// LoadVaultConfigFromEnv reads VAULT_* variables
func LoadVaultConfigFromEnv(pathOverride string) VaultConfig {
	mount := os.Getenv("VAULT_MOUNT")
	if mount == "" {
		mount = "secret"
	}
	kvVersion := 2
	if val := os.Getenv("VAULT_KV_VERSION"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			kvVersion = parsed
		}
	}
	path := pathOverride
	if path == "" {
		path = os.Getenv("VAULT_PATH")
	}
	timeout := 5 * time.Second
	if val := os.Getenv("VAULT_TIMEOUT_MS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			timeout = time.Duration(parsed) * time.Millisecond
		}
	}

	var allowed []string
	if val := os.Getenv("VAULT_ALLOWED_KEYS"); val != "" {
		for _, k := range strings.Split(val, ",") {
			if k = strings.TrimSpace(k); k != "" {
				allowed = append(allowed, k)
			}
		}
	}

	return VaultConfig{
		Enabled:     strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:        os.Getenv("VAULT_ADDR"),
		Token:       os.Getenv("VAULT_TOKEN"),
		Namespace:   os.Getenv("VAULT_NAMESPACE"),
		Mount:       mount,
		Path:        path,
		KVVersion:   kvVersion,
		Timeout:     timeout,
		Overwrite:   strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
		AllowedKeys: allowed,
	}
}

// statusError is a non-2xx Vault answer
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("vault fetch failed: %d %s", e.status, e.body)
}

// ApplyVaultSecrets copies allowlisted keys of the configured secret into
// the process environment before config.Load runs. Keys already set are
// kept unless Overwrite is true.
func ApplyVaultSecrets(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	if !cfg.Enabled {
		return VaultResult{Enabled: false}, nil
	}
	result := VaultResult{Enabled: true, Path: cfg.Path}

	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return result, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}

	url, err := buildVaultURL(cfg.Addr, cfg.Mount, cfg.Path, cfg.KVVersion)
	if err != nil {
		return result, err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	var body []byte

	retryCfg := retry.RequestConfig()
	retryCfg.MaxAttempts = 3
	retryCfg.InitialDelay = 100 * time.Millisecond
	retryCfg.Retryable = isRetryable

	err = retry.DoWithLog(ctx, retryCfg, "vault", func() error {
		b, fetchErr := fetch(ctx, client, url, cfg)
		if fetchErr != nil {
			return fetchErr
		}
		body = b
		return nil
	}, func(attempt int, err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", next).Msg("Vault fetch failed, retrying")
	})
	if err != nil {
		return result, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return result, err
	}

	data, err := extractVaultData(payload, cfg.KVVersion)
	if err != nil {
		return result, err
	}

	allowed := cfg.AllowedKeys
	if allowed == nil {
		allowed = DefaultAllowedKeys
	}
	allowSet := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allowSet[k] = struct{}{}
	}

	for key, value := range data {
		if _, ok := allowSet[key]; !ok {
			result.Ignored = append(result.Ignored, key)
			continue
		}
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, stringifyVaultValue(value)); err != nil {
			return result, err
		}
		result.Loaded++
	}

	log.Info().
		Str("path", cfg.Path).
		Int("loaded", result.Loaded).
		Int("skipped", result.Skipped).
		Int("ignored", len(result.Ignored)).
		Msg("Vault secrets applied")
	return result, nil
}

func fetch(ctx context.Context, client *http.Client, url string, cfg VaultConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// isRetryable retries transport errors and 5xx answers
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 500
	}
	return true
}

func buildVaultURL(addr, mount, path string, kvVersion int) (string, error) {
	addr = strings.TrimRight(addr, "/")
	mount = strings.Trim(mount, "/")
	path = strings.TrimLeft(path, "/")
	if addr == "" || mount == "" || path == "" {
		return "", errors.New("vault address, mount, and path must be set")
	}
	if kvVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
}

func extractVaultData(payload map[string]interface{}, kvVersion int) (map[string]interface{}, error) {
	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault response missing data for KV v%d", kvVersion)
	}
	if kvVersion == 1 {
		return data, nil
	}
	if inner, ok := data["data"].(map[string]interface{}); ok {
		return inner, nil
	}
	return nil, errors.New("vault response missing data for KV v2")
}

func stringifyVaultValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
