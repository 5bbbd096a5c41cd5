/*
Copyright 2024 Recon Authors.

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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_CURRENCY = "EUR"
)

var ConfigStore atomic.Value

// MatcherConfig holds the scoring weights and acceptance rules of the
// movement matcher. The defaults reproduce the engine's documented scoring:
// 50 for an exact amount, 30/10 for date proximity, 20 for a reference hit,
// and matches accepted only above 40.
type MatcherConfig struct {
	AmountWeight        float64 `json:"amount_weight" envconfig:"RECON_MATCHER_AMOUNT_WEIGHT"`
	DateTightWeight     float64 `json:"date_tight_weight" envconfig:"RECON_MATCHER_DATE_TIGHT_WEIGHT"`
	DateLooseWeight     float64 `json:"date_loose_weight" envconfig:"RECON_MATCHER_DATE_LOOSE_WEIGHT"`
	ReferenceWeight     float64 `json:"reference_weight" envconfig:"RECON_MATCHER_REFERENCE_WEIGHT"`
	AcceptanceThreshold float64 `json:"acceptance_threshold" envconfig:"RECON_MATCHER_ACCEPTANCE_THRESHOLD"`
	AmountTolerance     string  `json:"amount_tolerance" envconfig:"RECON_MATCHER_AMOUNT_TOLERANCE"`
	TightWindowDays     int     `json:"tight_window_days" envconfig:"RECON_MATCHER_TIGHT_WINDOW_DAYS"`
	LooseWindowDays     int     `json:"loose_window_days" envconfig:"RECON_MATCHER_LOOSE_WINDOW_DAYS"`
}

// ParserConfig holds statement parsing options.
type ParserConfig struct {
	DefaultCurrency string `json:"default_currency" envconfig:"RECON_PARSER_DEFAULT_CURRENCY"`
}

type Configuration struct {
	ProjectName string        `json:"project_name" envconfig:"RECON_PROJECT_NAME"`
	Matcher     MatcherConfig `json:"matcher"`
	Parser      ParserConfig  `json:"parser"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration

	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("recon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called recon.json with your config or rely on defaults via InitConfig")
	}
	return c, nil
}

// Default returns a configuration carrying only the built-in defaults,
// without touching the config store. Useful for embedding the engine.
func Default() *Configuration {
	cnf := &Configuration{}
	if err := cnf.validateAndAddDefaults(); err != nil {
		// validateAndAddDefaults only fails on negative weights, which the
		// zero value never has.
		log.Printf("unexpected default config error: %v", err)
	}
	return cnf
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Recon Engine"
	}
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)

	m := &cnf.Matcher
	if m.AmountWeight < 0 || m.DateTightWeight < 0 || m.DateLooseWeight < 0 || m.ReferenceWeight < 0 {
		return errors.New("matcher weights must be non-negative")
	}
	if m.AmountWeight == 0 {
		m.AmountWeight = 50
	}
	if m.DateTightWeight == 0 {
		m.DateTightWeight = 30
	}
	if m.DateLooseWeight == 0 {
		m.DateLooseWeight = 10
	}
	if m.ReferenceWeight == 0 {
		m.ReferenceWeight = 20
	}
	if m.AcceptanceThreshold == 0 {
		m.AcceptanceThreshold = 40
	}
	if m.AmountTolerance == "" {
		m.AmountTolerance = "0.001"
	}
	if m.TightWindowDays == 0 {
		m.TightWindowDays = 1
	}
	if m.LooseWindowDays == 0 {
		m.LooseWindowDays = 7
	}
	if m.LooseWindowDays < m.TightWindowDays {
		return errors.New("loose date window must not be smaller than the tight window")
	}

	if cnf.Parser.DefaultCurrency == "" {
		cnf.Parser.DefaultCurrency = DEFAULT_CURRENCY
	}
	cnf.Parser.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cnf.Parser.DefaultCurrency))

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
