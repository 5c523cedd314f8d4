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


// Package gearlog ties the persistence layer and the inventory service
// together into one offline equipment tracker.
package gearlog

import (
	"log/slog"

	"github.com/poiesic/gearlog/inventory"
	"github.com/poiesic/gearlog/store"
	"github.com/poiesic/gearlog/store/badger"
	"github.com/poiesic/gearlog/store/filekv"
)

// Tracker is the composition point of the application: one persistence
// layer, selected and initialized lazily, and the inventory service on
// top of it. Construct it once per process and pass it down; there is
// no package-level instance.
type Tracker struct {
	store     *store.Store
	inventory *inventory.Service
	logger    *slog.Logger
}

// Option configures a Tracker.
type Option func(*trackerOptions)

type trackerOptions struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *trackerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a Tracker from cfg. The structured store is not opened
// here; the persistence layer opens it on first use and falls back to
// the file store if that fails.
func New(cfg Config, opts ...Option) (*Tracker, error) {
	options := &trackerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	cfg = cfg.withDefaults()

	fallback, err := filekv.Open(cfg.FallbackFile, filekv.WithQuota(cfg.FallbackQuota))
	if err != nil {
		return nil, err
	}

	st := store.New(func() (store.Backend, error) {
		return badger.Open(cfg.DataDir)
	}, fallback,
		store.WithLegacyKey(inventory.CollectionsKey),
		store.WithLogger(options.logger),
	)

	inv, err := inventory.NewService(st, inventory.WithLogger(options.logger))
	if err != nil {
		st.Close()
		return nil, err
	}

	return &Tracker{
		store:     st,
		inventory: inv,
		logger:    options.logger,
	}, nil
}

// Inventory returns the equipment-tracking service.
func (t *Tracker) Inventory() *inventory.Service {
	return t.inventory
}

// Store returns the underlying persistence layer.
func (t *Tracker) Store() *store.Store {
	return t.store
}

// Close releases the persistence layer and both of its backends.
func (t *Tracker) Close() error {
	if err := t.store.Close(); err != nil {
		t.logger.Error("error closing persistence layer", "err", err)
		return err
	}
	return nil
}
