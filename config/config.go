// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package config

import (
	"time"
)

const (
	STATE_STORAGE_BACKEND              = "STATE_STORAGE_BACKEND"
	STATE_STORAGE_DATA_DIR             = "STATE_STORAGE_DATA_DIR"
	STATE_STORAGE_READ_CACHE_SIZE      = "STATE_STORAGE_READ_CACHE_SIZE"
	PROXY_ENFORCE_LAYOUT_COMPATIBILITY = "PROXY_ENFORCE_LAYOUT_COMPATIBILITY"
	NOTIFIER_BUFFER_SIZE               = "NOTIFIER_BUFFER_SIZE"
	METRICS_REPORT_INTERVAL            = "METRICS_REPORT_INTERVAL"
)

const (
	STATE_STORAGE_BACKEND_MEMORY  = "memory"
	STATE_STORAGE_BACKEND_LEVELDB = "leveldb"
)

type ProxyConfig interface {
	// state storage
	StateStorageBackend() string
	StateStorageDataDir() string
	StateStorageReadCacheSize() uint32

	// proxy
	ProxyEnforceLayoutCompatibility() bool

	// notifier
	NotifierBufferSize() uint32

	// metrics
	MetricsReportInterval() time.Duration
}

type mutableProxyConfig interface {
	ProxyConfig
	Set(key string, value ProxyConfigValue) mutableProxyConfig
	SetDuration(key string, value time.Duration) mutableProxyConfig
	SetUint32(key string, value uint32) mutableProxyConfig
	SetString(key string, value string) mutableProxyConfig
	SetBool(key string, value bool) mutableProxyConfig
	Modify(newValues ...ProxyConfigKeyValue)
}

type StateStorageConfig interface {
	StateStorageBackend() string
	StateStorageDataDir() string
	StateStorageReadCacheSize() uint32
}

type UpgradeControllerConfig interface {
	ProxyEnforceLayoutCompatibility() bool
}

type NotifierConfig interface {
	NotifierBufferSize() uint32
}

type ProxyConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}

type ProxyConfigKeyValue struct {
	Key   string
	Value ProxyConfigValue
}

type config struct {
	kv map[string]ProxyConfigValue
}

func emptyConfig() mutableProxyConfig {
	return &config{
		kv: make(map[string]ProxyConfigValue),
	}
}

func (c *config) Set(key string, value ProxyConfigValue) mutableProxyConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableProxyConfig {
	c.kv[key] = ProxyConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableProxyConfig {
	c.kv[key] = ProxyConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableProxyConfig {
	c.kv[key] = ProxyConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableProxyConfig {
	c.kv[key] = ProxyConfigValue{BoolValue: value}
	return c
}

func (c *config) StateStorageBackend() string {
	return c.kv[STATE_STORAGE_BACKEND].StringValue
}

func (c *config) StateStorageDataDir() string {
	return c.kv[STATE_STORAGE_DATA_DIR].StringValue
}

func (c *config) StateStorageReadCacheSize() uint32 {
	return c.kv[STATE_STORAGE_READ_CACHE_SIZE].Uint32Value
}

func (c *config) ProxyEnforceLayoutCompatibility() bool {
	return c.kv[PROXY_ENFORCE_LAYOUT_COMPATIBILITY].BoolValue
}

func (c *config) NotifierBufferSize() uint32 {
	return c.kv[NOTIFIER_BUFFER_SIZE].Uint32Value
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}
