// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package recommend implements a hybrid product recommendation engine.
//
// # Architecture
//
// The engine reads Users, Products, Interactions and per-user context records
// through a Gateway and materializes them into a Snapshot:
//
//   - Universe: the ordered set of product IDs every ScoreVector aligns to
//   - InteractionMatrix: user x product summed implicit-feedback weights
//     (view=1, add_to_cart=3, purchase=5)
//   - Metadata index: products by category and brand
//   - LatentModel: latent factors trained on the matrix
//
// Strategy scorers (package algorithms) turn a snapshot into full-universe
// score vectors. The Router picks a path per user:
//
//   - Cold path (no stored interaction): demographic and context scores,
//     blended with fixed weights
//   - Warm path: the top collaborative products, then the top recency
//     products among the rest, with no product attributed twice
//
// Aggregate ranks the blend by score descending and product ID ascending.
//
// # Model Updates
//
// RecordInteraction persists through the gateway first. A (user, product)
// pair the latent model already indexes is updated in place with a bounded
// number of gradient steps. Anything else is applied to the interaction
// matrix and a full rebuild is requested on RebuildRequests.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Gateway:   gw,
//	    Scorers:   scorers,
//	    NewLatent: func() recommend.LatentModel { return algorithms.NewLatentFactorModel(mfCfg, logger) },
//	}, logger)
//
//	if err := engine.Rebuild(ctx); err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, userID, 20)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Recommendations share a read lock
// on the current snapshot. Incremental updates take the write lock for a
// short, bounded critical section. Rebuilds run without the lock and swap
// the new snapshot in atomically.
package recommend
