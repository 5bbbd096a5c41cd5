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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfiguration(t *testing.T) {
	cnf := Default()

	assert.Equal(t, 50.0, cnf.Matcher.AmountWeight)
	assert.Equal(t, 30.0, cnf.Matcher.DateTightWeight)
	assert.Equal(t, 10.0, cnf.Matcher.DateLooseWeight)
	assert.Equal(t, 20.0, cnf.Matcher.ReferenceWeight)
	assert.Equal(t, 40.0, cnf.Matcher.AcceptanceThreshold)
	assert.Equal(t, "0.001", cnf.Matcher.AmountTolerance)
	assert.Equal(t, 1, cnf.Matcher.TightWindowDays)
	assert.Equal(t, 7, cnf.Matcher.LooseWindowDays)
	assert.Equal(t, "EUR", cnf.Parser.DefaultCurrency)
}

func TestInitConfigWithoutFileUsesDefaults(t *testing.T) {
	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "missing.json")))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, 50.0, cnf.Matcher.AmountWeight)
	assert.Equal(t, "EUR", cnf.Parser.DefaultCurrency)
}

func TestInitConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.json")
	payload, err := json.Marshal(map[string]interface{}{
		"project_name": "statement-recon",
		"matcher":      map[string]interface{}{"acceptance_threshold": 55},
		"parser":       map[string]interface{}{"default_currency": "chf"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	require.NoError(t, InitConfig(path))
	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, "statement-recon", cnf.ProjectName)
	assert.Equal(t, 55.0, cnf.Matcher.AcceptanceThreshold)
	// Unset fields still pick up defaults, currency is normalized.
	assert.Equal(t, 50.0, cnf.Matcher.AmountWeight)
	assert.Equal(t, "CHF", cnf.Parser.DefaultCurrency)
}

func TestValidateRejectsBadWindows(t *testing.T) {
	cnf := &Configuration{}
	cnf.Matcher.TightWindowDays = 10
	cnf.Matcher.LooseWindowDays = 3

	assert.Error(t, cnf.validateAndAddDefaults())
}

func TestMockConfig(t *testing.T) {
	mock := Default()
	mock.ProjectName = "mocked"
	MockConfig(mock)

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "mocked", cnf.ProjectName)
}
