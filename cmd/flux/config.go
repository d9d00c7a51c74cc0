/*
 *  Flux is a client for the Miniflux API
 *  Copyright (c) 2021 The Ekster authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// config holds the server and credentials the commands connect with
type config struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func defaultConfigFile() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.Getenv("HOME")
	}
	return filepath.Join(dir, ".config", "miniflux", "client.json")
}

func loadConfig(filename string) (config, error) {
	var cfg config

	f, err := os.Open(filename)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not read %s", filename)
	}
	return cfg, nil
}

func saveConfig(filename string, cfg config) error {
	if err := os.MkdirAll(filepath.Dir(filename), os.FileMode(0700)); err != nil {
		return err
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(&cfg)
}

// withEnv overrides the fields of cfg with the MINIFLUX_* variables that are set
func withEnv(cfg config, getenv func(string) string) config {
	if v := getenv("MINIFLUX_URL"); v != "" {
		cfg.URL = v
	}
	if v := getenv("MINIFLUX_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := getenv("MINIFLUX_PASSWORD"); v != "" {
		cfg.Password = v
	}
	return cfg
}
