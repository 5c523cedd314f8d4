// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package gearlog

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/poiesic/gearlog/store/filekv"
)

// Config holds tracker configuration. Zero fields are filled with
// defaults at construction time.
type Config struct {
	// DataDir is the directory holding the structured store.
	DataDir string `env:"GEARLOG_DATA_DIR"`

	// FallbackFile is the JSON file used when the structured store
	// cannot be opened. It is also where legacy data is migrated from.
	FallbackFile string `env:"GEARLOG_FALLBACK_FILE"`

	// FallbackQuota caps the serialized size of the fallback file in
	// bytes. Default is filekv.DefaultQuota.
	FallbackQuota int `env:"GEARLOG_FALLBACK_QUOTA"`
}

// DefaultConfig returns the stock configuration: everything under a
// "gearlog-data" directory next to the working directory.
func DefaultConfig() Config {
	return Config{
		DataDir:       "gearlog-data",
		FallbackFile:  "gearlog-state.json",
		FallbackQuota: filekv.DefaultQuota,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by GEARLOG_*
// environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.FallbackFile == "" {
		c.FallbackFile = def.FallbackFile
	}
	if c.FallbackQuota <= 0 {
		c.FallbackQuota = def.FallbackQuota
	}
	return c
}
