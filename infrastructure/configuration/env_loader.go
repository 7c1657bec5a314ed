package configuration

import (
	"os"
	"strings"

	"comment-insight/infrastructure/logger"

	"github.com/spf13/viper"
)

// LoadEnvFromFile exports KEY=VALUE pairs from dotenv files such as config.env or .env.
// Variables already present in the environment win. It returns the files that were read.
func LoadEnvFromFile(paths ...string) []string {
	loaded := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v := viper.New()
		v.SetConfigFile(p)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Unable to read env file")
			continue
		}
		// viper lower-cases keys; environment variables are conventionally upper case
		for _, key := range v.AllKeys() {
			name := strings.ToUpper(key)
			if _, exists := os.LookupEnv(name); exists {
				continue
			}
			_ = os.Setenv(name, v.GetString(key))
		}
		loaded = append(loaded, p)
	}
	return loaded
}
