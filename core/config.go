package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	PortalConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	CredentialConfig struct {
		Dir string // where the credential file lives
		Key string // storage key holding the bearer token
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		RollbarToken string
		// StrictRoles rejects profiles carrying unknown authorities instead of
		// coercing them to the default role.
		StrictRoles bool
		API         APIConfig
		Portal      PortalConfig
		Credential  CredentialConfig
	}
)

// NewConfig loads the configuration from defaults, the `config/.env.<env>` file found in
// dir (if any) and the environment. Environment keys are prefixed with the env name, e.g.
// DEV_API_BASEURL.
func NewConfig(dir string) (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "ProjectGL")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("strictRoles", false)
	v.SetDefault("api.baseURL", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("portal.host", "localhost")
	v.SetDefault("portal.address", "localhost:5173")
	v.SetDefault("portal.shutdownTimeout", 5*time.Second)
	v.SetDefault("portal.disableReqLogs", false)
	v.SetDefault("credential.dir", "")
	v.SetDefault("credential.key", "token")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if dir != "" {
		dotEnvPath := filepath.Join(dir, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
		}
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		StrictRoles:  v.GetBool("strictRoles"),
		API: APIConfig{
			BaseURL: strings.TrimSuffix(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Portal: PortalConfig{
			Host:            v.GetString("portal.host"),
			Address:         v.GetString("portal.address"),
			ShutdownTimeout: v.GetDuration("portal.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("portal.disableReqLogs"),
		},
		Credential: CredentialConfig{
			Dir: v.GetString("credential.dir"),
			Key: v.GetString("credential.key"),
		},
	}

	if conf.Credential.Dir == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "finding user config directory")
		}
		conf.Credential.Dir = filepath.Join(cfgDir, "projectgl")
	}
	return conf, nil
}
