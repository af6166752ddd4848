package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Completion struct {
		APIKey  string
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"completion"`
	TripData struct {
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"tripData"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets and deploy-specific endpoints come from the environment,
	// never from the config file.
	config.Completion.APIKey = os.Getenv("GROQ_API_KEY")
	if model := os.Getenv("GROQ_MODEL"); model != "" {
		config.Completion.Model = model
	}
	if base := os.Getenv("TRIP_API_BASE"); base != "" {
		config.TripData.BaseURL = base
	}

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
