// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package config

import (
	"path/filepath"
	"time"
)

// all other configs are variations from the production one
func defaultProductionConfig() mutableProxyConfig {
	cfg := emptyConfig()

	cfg.SetString(STATE_STORAGE_BACKEND, STATE_STORAGE_BACKEND_LEVELDB)
	cfg.SetUint32(STATE_STORAGE_READ_CACHE_SIZE, 4096)

	cfg.SetBool(PROXY_ENFORCE_LAYOUT_COMPATIBILITY, true)

	cfg.SetUint32(NOTIFIER_BUFFER_SIZE, 100)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)

	return cfg
}

func ForProduction(dataDir string) mutableProxyConfig {
	cfg := defaultProductionConfig()
	cfg.SetString(STATE_STORAGE_DATA_DIR, filepath.Join(dataDir, "state"))
	return cfg
}

// ForTests keeps state in memory and reports metrics rarely so test output stays readable
func ForTests() mutableProxyConfig {
	cfg := defaultProductionConfig()

	cfg.SetString(STATE_STORAGE_BACKEND, STATE_STORAGE_BACKEND_MEMORY)
	cfg.SetUint32(STATE_STORAGE_READ_CACHE_SIZE, 16)
	cfg.SetUint32(NOTIFIER_BUFFER_SIZE, 10)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 10*time.Minute)

	return cfg
}
