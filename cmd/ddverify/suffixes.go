package main

import (
	"context"
	"errors"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/config"
	"github.com/haukened/ddverify/internal/verify/gateways/suffixfeed"
	"github.com/haukened/ddverify/internal/verify/repos/memo/lru"
	"github.com/haukened/ddverify/internal/verify/repos/snapshot/bolt"
	"github.com/haukened/ddverify/internal/verify/services/classifier"
)

// buildClassifier loads the overrides and the configured suffix dataset.
func buildClassifier(ctx context.Context, cfg *config.AppConfig) (_ *classifier.Classifier, err error) {
	overrides, err := classifier.LoadOverrides(cfg.SuffixOverrides)
	if err != nil {
		return nil, err
	}
	memo, err := lru.New(cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	opts := classifier.Options{ICANNOnly: cfg.SuffixICANNOnly, Memo: memo, Logger: log.GetLogger()}

	if cfg.SuffixSource == config.SuffixSourceBuiltin {
		return classifier.Builtin(overrides, opts), nil
	}

	var store suffixfeed.SnapshotStore
	if cfg.SuffixCache != "" {
		store, err = bolt.New(cfg.SuffixCache)
		if err != nil {
			return nil, err
		}
		defer func() { err = errors.Join(err, store.Close()) }()
	}

	// Accept builds the classifier; only a body it parses gets stored.
	var c *classifier.Classifier
	fetcher, err := suffixfeed.NewFetcher(suffixfeed.Options{
		Source:          cfg.SuffixSource,
		URL:             cfg.SuffixURL,
		File:            cfg.SuffixFile,
		Timeout:         cfg.SuffixTimeout,
		Store:           store,
		OfflineFallback: cfg.SuffixOfflineFallback,
		Accept: func(body []byte) error {
			loaded, err := classifier.Load(body, overrides, opts)
			if err != nil {
				return err
			}
			c = loaded
			return nil
		},
		Logger: log.GetLogger(),
	})
	if err != nil {
		return nil, err
	}
	_, meta, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug(map[string]any{"digest": meta.Digest, "source": meta.URL, "rules": c.Rules()}, "suffix dataset ready")
	return c, nil
}
