// Package pkg provides the libraries behind bumper, a tool that raises the
// version constraints in a Composer manifest to the newest releases.
//
// # Overview
//
// The packages are organized into three areas:
//
//  1. Domain logic: [manifest], [selector], [resolver], [update], [persist]
//  2. Infrastructure: [cache], [config], [observability], [errors]
//  3. Repository clients: [integrations] and its [packagist] client
//
// # Architecture
//
// A run flows through the packages in order:
//
//	composer.json
//	     ↓
//	[manifest] (ordered require / require-dev entries)
//	     ↓
//	[selector] (which packages the user asked for)
//	     ↓
//	[update] engine + [resolver] (newest installable release per package)
//	     ↓
//	[persist] (in-place patch, or full rewrite as a fallback)
//
// # Quick Start
//
//	m, _ := manifest.Load("composer.json")
//	r, _ := resolver.New(ctx, packagist.NewClient(cache.NewNullCache(), packagist.DefaultURL, time.Hour), resolver.Options{})
//	decisions, _ := update.NewEngine(r, nil).Compute(ctx, m, selector.Expand(nil, nil))
//	result, _ := persist.Persist(m.Path, decisions)
//
// [manifest]: github.com/matzehuels/bumper/pkg/manifest
// [selector]: github.com/matzehuels/bumper/pkg/selector
// [resolver]: github.com/matzehuels/bumper/pkg/resolver
// [update]: github.com/matzehuels/bumper/pkg/update
// [persist]: github.com/matzehuels/bumper/pkg/persist
// [cache]: github.com/matzehuels/bumper/pkg/cache
// [config]: github.com/matzehuels/bumper/pkg/config
// [observability]: github.com/matzehuels/bumper/pkg/observability
// [errors]: github.com/matzehuels/bumper/pkg/errors
// [integrations]: github.com/matzehuels/bumper/pkg/integrations
// [packagist]: github.com/matzehuels/bumper/pkg/integrations/packagist
package pkg
