// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package config

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func ValidateProxyConfig(cfg ProxyConfig) error {
	var result error

	switch cfg.StateStorageBackend() {
	case STATE_STORAGE_BACKEND_MEMORY:
	case STATE_STORAGE_BACKEND_LEVELDB:
		if cfg.StateStorageDataDir() == "" {
			result = multierror.Append(result, errors.New("leveldb state storage requires a data dir"))
		}
	default:
		result = multierror.Append(result, errors.Errorf("unknown state storage backend '%s'", cfg.StateStorageBackend()))
	}

	if cfg.StateStorageReadCacheSize() == 0 {
		result = multierror.Append(result, errors.New("state storage read cache size must be positive"))
	}

	if cfg.NotifierBufferSize() == 0 {
		result = multierror.Append(result, errors.New("notifier buffer size must be positive"))
	}

	if cfg.MetricsReportInterval() <= 0 {
		result = multierror.Append(result, errors.New("metrics report interval must be positive"))
	}

	return result
}
