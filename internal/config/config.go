// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Crelate struct {
		Endpoint string `yaml:"endpoint" json:"endpoint"`
		// APIKey here is the config-file fallback; the keyring wins when set.
		APIKey   string `yaml:"api_key" json:"api_key"`
		PortalID string `yaml:"portal_id" json:"portal_id"`
	} `yaml:"crelate" json:"crelate"`

	Import struct {
		// Frequency: hourly | twicedaily | daily | weekly | disabled
		Frequency string `yaml:"frequency" json:"frequency"`
		PageSize  int    `yaml:"page_size" json:"page_size"`
	} `yaml:"import" json:"import"`

	Submission struct {
		// Mode: local (store here) | forward (push to Crelate)
		Mode               string   `yaml:"mode" json:"mode"`
		MaxResumeMB        int      `yaml:"max_resume_mb" json:"max_resume_mb"`
		AllowedResumeTypes []string `yaml:"allowed_resume_types" json:"allowed_resume_types"`
	} `yaml:"submission" json:"submission"`

	Download struct {
		// SigningSecret is the config-file fallback; the keyring wins when set.
		SigningSecret string `yaml:"signing_secret" json:"signing_secret"`
		ExpiryHours   int    `yaml:"expiry_hours" json:"expiry_hours"`
	} `yaml:"download" json:"download"`

	Display struct {
		PerPage      int  `yaml:"per_page" json:"per_page"`
		ShowSalary   bool `yaml:"show_salary" json:"show_salary"`
		ShowLocation bool `yaml:"show_location" json:"show_location"`
		ShowDate     bool `yaml:"show_date" json:"show_date"`
	} `yaml:"display" json:"display"`

	// Forms holds per-form overrides of the outbound field mapping:
	// form name -> internal key -> external Crelate field name.
	Forms map[string]map[string]string `yaml:"forms" json:"forms"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
