// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package config

import (
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_OverrideFromJson(t *testing.T) {
	cfg := ForTests()

	err := modifyFromJson(cfg, `
{
	"state-storage-backend": "leveldb",
	"state-storage-data-dir": "/var/lib/proxy",
	"state-storage-read-cache-size": 512,
	"proxy-enforce-layout-compatibility": false,
	"metrics-report-interval": "5s"
}`)
	require.NoError(t, err)

	require.Equal(t, STATE_STORAGE_BACKEND_LEVELDB, cfg.StateStorageBackend())
	require.Equal(t, "/var/lib/proxy", cfg.StateStorageDataDir())
	require.EqualValues(t, 512, cfg.StateStorageReadCacheSize())
	require.False(t, cfg.ProxyEnforceLayoutCompatibility())
	require.Equal(t, 5*time.Second, cfg.MetricsReportInterval())
	require.EqualValues(t, 10, cfg.NotifierBufferSize(), "untouched keys keep their preset")
}

func TestConfig_RejectsMalformedJson(t *testing.T) {
	require.Error(t, modifyFromJson(ForTests(), `{"notifier-buffer-size": `))
	require.Error(t, modifyFromJson(ForTests(), `{"notifier-buffer-size": -1}`))
	require.Error(t, modifyFromJson(ForTests(), `{"notifier-buffer-size": [1]}`))
}

func TestConfig_Modify(t *testing.T) {
	cfg := ForTests()
	cfg.Modify(ProxyConfigKeyValue{Key: NOTIFIER_BUFFER_SIZE, Value: ProxyConfigValue{Uint32Value: 3}})

	require.EqualValues(t, 3, cfg.NotifierBufferSize())
}

func TestConvertKeyName(t *testing.T) {
	require.Equal(t, "STATE_STORAGE_READ_CACHE_SIZE", convertKeyName("state-storage-read-cache-size"))
}

func TestNewFromFiles_LaterFilesWin(t *testing.T) {
	dir, err := ioutil.TempDir("", "proxy-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	require.NoError(t, ioutil.WriteFile(first, []byte(`{"notifier-buffer-size": 7, "state-storage-backend": "memory"}`), 0644))
	require.NoError(t, ioutil.WriteFile(second, []byte(`{"notifier-buffer-size": 9}`), 0644))

	cfg, err := NewFromFiles(dir, first, second)
	require.NoError(t, err)
	require.EqualValues(t, 9, cfg.NotifierBufferSize())
	require.Equal(t, STATE_STORAGE_BACKEND_MEMORY, cfg.StateStorageBackend())
	require.Equal(t, filepath.Join(dir, "state"), cfg.StateStorageDataDir())
}

func TestNewFromFiles_MissingFile(t *testing.T) {
	_, err := NewFromFiles("", "/no/such/config.json")
	require.Error(t, err)
}
