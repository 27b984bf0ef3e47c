// Package embedding provides the process-wide embedding model provider.
//
// A Provider moves through a small state machine on first use:
//
//	Uninitialized -> Loading -> Ready
//	                         -> Failed
//
// Loading reads the catalog and the ranking labels, loads the primary model
// (skipped when its artifact files are missing), falls back to the public
// model if the primary cannot be used, and embeds every catalog name once.
// Ready and Failed are final for the life of the process.
//
// The result is an immutable Snapshot shared by all callers without further
// locking:
//
//	provider, err := embedding.NewProvider(primary, fallback,
//	    embedding.WithCatalogPath("catalog.csv"),
//	    embedding.WithRankingPath("ranking.csv"),
//	    embedding.WithCache(cache),
//	)
//	snap, err := provider.EnsureReady(ctx)
//	vector, err := snap.EmbedQuery(ctx, "làm căn cước")
package embedding
