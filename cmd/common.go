/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"noveltran/internal/storage"
	"noveltran/internal/translator"
)

// openStore constructs the storage backend selected by --storage (or the
// config file / NOVELTRAN_STORAGE environment variable).
func openStore() (storage.Store, error) {
	switch backend := viper.GetString("storage"); backend {
	case "sqlite":
		return storage.NewSQLiteStore(viper.GetString("db"))
	case "directus":
		baseURL := viper.GetString("directus.url")
		if baseURL == "" {
			return nil, fmt.Errorf("directus storage requires --directus-url")
		}
		return storage.NewDirectusStore(baseURL, viper.GetString("directus.token")), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use sqlite or directus)", backend)
	}
}

// translatorFlags holds the per-command backend selection flags shared by
// translate and batch.
type translatorFlags struct {
	service     string
	model       string
	ollamaURL   string
	apiKey      string
	apiURL      string
	credentials string
}

func buildTranslator(f translatorFlags) (translator.Translator, error) {
	switch f.service {
	case "ollama":
		return translator.NewOllamaTranslator(f.ollamaURL, f.model), nil
	case "openai":
		return translator.NewOpenAITranslator(f.apiKey, f.apiURL, f.model), nil
	case "google":
		return translator.NewGoogleTranslator(f.credentials), nil
	case "fallback":
		return translator.NewFallbackTranslator(), nil
	default:
		return nil, fmt.Errorf("unknown translation service %q (use ollama, openai, google, or fallback)", f.service)
	}
}
