package configuration

import (
	"encoding/json"
	"os"
	"strings"
)

// YouTubeConfig carries the resolved credentials and pacing for the video source
type YouTubeConfig struct {
	ClientID          string  `mapstructure:"client_id"`
	ClientSecret      string  `mapstructure:"client_secret"`
	RedirectURL       string  `mapstructure:"redirect_url"`
	AccessToken       string  `mapstructure:"access_token"`
	RefreshToken      string  `mapstructure:"refresh_token"`
	APIKey            string  `mapstructure:"api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// HasCredentials reports whether either an API key or an OAuth token pair is available
func (y *YouTubeConfig) HasCredentials() bool {
	return y.APIKey != "" || (y.AccessToken != "" && y.RefreshToken != "")
}

// GetYouTubeConfig resolves YouTube credentials: env, then config file, then token.json
func GetYouTubeConfig() (*YouTubeConfig, error) {
	config := &YouTubeConfig{
		ClientID:          getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret:      getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		RedirectURL:       getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", ""),
		AccessToken:       getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		RefreshToken:      getEnv("YOUTUBE_REFRESH_TOKEN", ""),
		APIKey:            getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", ""),
		RequestsPerSecond: C.YouTube.RequestsPerSecond,
		Burst:             C.YouTube.Burst,
	}

	if config.AccessToken == "" || config.RefreshToken == "" {
		if data, err := os.ReadFile("token.json"); err == nil {
			var tokenFile struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			}
			if jsonErr := json.Unmarshal(data, &tokenFile); jsonErr == nil {
				if config.AccessToken == "" && tokenFile.AccessToken != "" {
					config.AccessToken = tokenFile.AccessToken
				}
				if config.RefreshToken == "" && tokenFile.RefreshToken != "" {
					config.RefreshToken = tokenFile.RefreshToken
				}
			}
		}
	}

	return config, nil
}

// getConfigValue prefers the environment, then a non-placeholder config value, then the default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
