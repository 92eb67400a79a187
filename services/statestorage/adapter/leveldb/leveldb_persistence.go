// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package leveldb

import (
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"sync"
)

const keySize = common.AddressLength + common.HashLength

type metrics struct {
	numberOfKeys *metric.Gauge
	cacheHits    *metric.Rate
	cacheMisses  *metric.Rate
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		numberOfKeys: m.NewGauge("StateStoragePersistence.TotalNumberOfKeys.Count"),
		cacheHits:    m.NewRate("StateStoragePersistence.ReadCache.Hits.Rate"),
		cacheMisses:  m.NewRate("StateStoragePersistence.ReadCache.Misses.Rate"),
	}
}

type cacheKey struct {
	account common.Address
	slot    common.Hash
}

// LevelDbStatePersistence stores every slot under the key account ‖ slot.
type LevelDbStatePersistence struct {
	metrics *metrics
	mutex   sync.RWMutex
	db      *leveldb.DB
	cache   *lru.Cache
}

func NewStatePersistence(dataDir string, cacheSize int, metricFactory metric.Factory) (*LevelDbStatePersistence, error) {
	db, err := leveldb.OpenFile(dataDir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state database at %s", dataDir)
	}
	return newStatePersistence(db, cacheSize, metricFactory)
}

func NewStatePersistenceWithStorage(stor storage.Storage, cacheSize int, metricFactory metric.Factory) (*LevelDbStatePersistence, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state database")
	}
	return newStatePersistence(db, cacheSize, metricFactory)
}

func newStatePersistence(db *leveldb.DB, cacheSize int, metricFactory metric.Factory) (*LevelDbStatePersistence, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create read cache")
	}

	sp := &LevelDbStatePersistence{
		metrics: newMetrics(metricFactory),
		db:      db,
		cache:   cache,
	}
	if err := sp.countKeys(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sp, nil
}

func (sp *LevelDbStatePersistence) countKeys() error {
	iter := sp.db.NewIterator(nil, nil)
	defer iter.Release()

	n := int64(0)
	for iter.Next() {
		n++
	}
	sp.metrics.numberOfKeys.Update(n)
	return errors.Wrap(iter.Error(), "failed to scan state database")
}

func (sp *LevelDbStatePersistence) Write(diff adapter.ChainState) error {
	sp.mutex.Lock()
	defer sp.mutex.Unlock()

	batch := new(leveldb.Batch)
	added := int64(0)
	for account, records := range diff {
		for slot, value := range records {
			key := dbKey(account, slot)
			exists, err := sp.db.Has(key, nil)
			if err != nil {
				return errors.Wrapf(err, "failed to look up slot %s of %s", slot.Hex(), account.Hex())
			}

			if value == (common.Hash{}) {
				batch.Delete(key)
				if exists {
					added--
				}
			} else {
				batch.Put(key, value.Bytes())
				if !exists {
					added++
				}
			}
		}
	}

	if err := sp.db.Write(batch, nil); err != nil {
		return errors.Wrap(err, "failed to write state diff")
	}

	for account, records := range diff {
		for slot, value := range records {
			sp.cache.Add(cacheKey{account, slot}, value)
		}
	}
	sp.metrics.numberOfKeys.Add(added)
	return nil
}

func (sp *LevelDbStatePersistence) Read(account common.Address, slot common.Hash) (common.Hash, bool, error) {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	if cached, ok := sp.cache.Get(cacheKey{account, slot}); ok {
		sp.metrics.cacheHits.Measure(1)
		value := cached.(common.Hash)
		return value, value != common.Hash{}, nil
	}
	sp.metrics.cacheMisses.Measure(1)

	raw, err := sp.db.Get(dbKey(account, slot), nil)
	if err == leveldb.ErrNotFound {
		sp.cache.Add(cacheKey{account, slot}, common.Hash{})
		return common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, false, errors.Wrapf(err, "failed to read slot %s of %s", slot.Hex(), account.Hex())
	}

	value := common.BytesToHash(raw)
	sp.cache.Add(cacheKey{account, slot}, value)
	return value, true, nil
}

func (sp *LevelDbStatePersistence) Dump() string {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	state := adapter.ChainState{}
	iter := sp.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != keySize {
			continue
		}
		state.Set(common.BytesToAddress(key[:common.AddressLength]), common.BytesToHash(key[common.AddressLength:]), common.BytesToHash(iter.Value()))
	}
	return adapter.DumpChainState(state)
}

func (sp *LevelDbStatePersistence) Close() error {
	return sp.db.Close()
}

func dbKey(account common.Address, slot common.Hash) []byte {
	key := make([]byte, 0, keySize)
	key = append(key, account.Bytes()...)
	return append(key, slot.Bytes()...)
}
