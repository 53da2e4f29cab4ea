package enrichment

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/assets"
	"github.com/DeadLyze/deadlyze-app/internal/budget"
	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/history"
	"github.com/DeadLyze/deadlyze-app/internal/identity"
	"github.com/DeadLyze/deadlyze-app/internal/livematch"
	"github.com/DeadLyze/deadlyze-app/internal/matchcache"
	"github.com/DeadLyze/deadlyze-app/internal/metrics"
	"github.com/DeadLyze/deadlyze-app/internal/party"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/DeadLyze/deadlyze-app/internal/stats"
	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

var errRankCatalogUnavailable = errors.New("rank catalog unavailable")

// ErrMetadataUnavailable is returned by MatchDetails when the match metadata
// could not be served right now, including the rate-limited case where the
// lookup was routed into the retry queue.
var ErrMetadataUnavailable = errors.New("match metadata unavailable")

// Orchestrator drives one match search from roster lookup through the
// single cache write. Caches, budget and identity are long-lived shared
// collaborators; each search run is owned exclusively by its goroutine.
type Orchestrator struct {
	livematch      livematch.Client
	assets         assets.Client
	playerdata     playerdata.Client
	party          party.Detector
	aggregator     *stats.Aggregator
	cache          matchcache.MatchCache
	metadata       matchcache.MetadataCache
	metadataSource *cachedMetadataSource
	budget         budget.Budget
	identity       identity.Provider
	history        history.Service
	metrics        metrics.Metrics

	assetRetryDelay time.Duration

	preloadMu  sync.Mutex
	preloading map[int64]bool
}

// New wires an orchestrator. The stats aggregator is built here so its
// cheater check reads through the shared metadata cache.
func New(
	cfg *config.Config,
	livematchClient livematch.Client,
	assetsClient assets.Client,
	playerdataClient playerdata.Client,
	partyDetector party.Detector,
	cache matchcache.MatchCache,
	metadataCache matchcache.MetadataCache,
	requestBudget budget.Budget,
	identityProvider identity.Provider,
	historyService history.Service,
	metricsService metrics.Metrics,
) *Orchestrator {
	source := &cachedMetadataSource{cache: metadataCache, client: playerdataClient}
	o := &Orchestrator{
		livematch:       livematchClient,
		assets:          assetsClient,
		playerdata:      playerdataClient,
		party:           partyDetector,
		aggregator:      stats.NewAggregator(source, cfg.Stats, cfg.Thresholds, cfg.PlayerDataAPI.MetadataDelay),
		cache:           cache,
		metadata:        metadataCache,
		metadataSource:  source,
		budget:          requestBudget,
		identity:        identityProvider,
		history:         historyService,
		metrics:         metricsService,
		assetRetryDelay: cfg.AssetsAPI.RetryDelay,
		preloading:      make(map[int64]bool),
	}
	source.onRateLimited = o.kickRetryDrain
	return o
}

// drainRetryQueue runs one drain pass with the direct metadata fetch and
// keeps the queue-size gauge current. The cache's reentrancy guard makes
// overlapping calls harmless.
func (o *Orchestrator) drainRetryQueue(ctx context.Context) {
	o.metrics.SetRetryQueueSize(o.metadata.QueueLen())
	o.metadata.ProcessRetryQueue(ctx, func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		return o.playerdata.FetchMatchMetadata(ctx, matchID)
	})
	o.metrics.SetRetryQueueSize(o.metadata.QueueLen())
}

func (o *Orchestrator) kickRetryDrain() {
	go o.drainRetryQueue(context.Background())
}

// Search runs the enrichment pipeline for matchID and streams status
// updates. The channel is closed when the run finishes; cancelling ctx
// stops the run without writing the match cache.
func (o *Orchestrator) Search(ctx context.Context, matchID string) <-chan Update {
	updates := make(chan Update, 4)
	go func() {
		defer close(updates)
		o.run(ctx, matchID, updates)
	}()
	return updates
}

// Cached returns the current cache entry for a match ID, if live.
func (o *Orchestrator) Cached(matchID string) (*matchcache.CachedMatch, bool) {
	id, err := strconv.ParseInt(matchID, 10, 64)
	if err != nil {
		return nil, false
	}
	return o.cache.Get(id)
}

// MatchDetails expands one past match for an account into its match card:
// the final item build and the end-of-match stat snapshot. Metadata is read
// cache-first, so a preloaded match costs no network call beyond the item
// catalog lookups.
func (o *Orchestrator) MatchDetails(ctx context.Context, matchID, accountID int64) (*MatchCard, error) {
	metadata, err := o.metadataSource.GetMetadata(ctx, matchID, accountID)
	if err != nil {
		return nil, err
	}
	if metadata == nil {
		return nil, ErrMetadataUnavailable
	}

	card := &MatchCard{MatchID: matchID, AccountID: accountID}
	card.DetailedStats = stats.ExtractDetailedStats(metadata, accountID)

	player, ok := metadata.PlayerByAccount(accountID)
	if !ok {
		return card, nil
	}
	var itemIDs []int64
	for _, ev := range player.Items {
		itemIDs = append(itemIDs, ev.ItemID)
	}
	catalog, err := o.assets.FetchItems(ctx, itemIDs)
	if err != nil {
		log.Warn("Item catalog fetch failed, build omitted", "matchID", matchID, "error", err)
		return card, nil
	}
	card.Build = stats.BuildFromMetadata(metadata, accountID, catalog)
	return card, nil
}

func (o *Orchestrator) run(ctx context.Context, matchID string, updates chan<- Update) {
	start := time.Now()
	o.metrics.IncSearchesStarted()

	if !livematch.IsValidMatchID(matchID) {
		o.fail(updates, "invalid match ID: expected 8 digits")
		return
	}
	id, _ := strconv.ParseInt(matchID, 10, 64)

	// Step 1: a live cache entry answers the search with no network calls.
	if entry, ok := o.cache.Get(id); ok {
		o.metrics.IncCacheHit()
		o.recordSearch(matchID)
		updates <- Update{Status: StatusLoaded, Data: entry}
		o.metrics.IncSearchesLoaded()
		return
	}
	o.metrics.IncCacheMiss()

	if !o.budget.Consume(matchID) {
		o.fail(updates, "no spectator lookups left, try again later")
		return
	}
	o.metrics.SetBudgetAvailable(o.budget.Available())

	updates <- Update{Status: StatusLoading}

	// Step 2: the roster lookup is the only fatal step.
	matchData, err := o.livematch.FetchMatchData(ctx, matchID)
	if err != nil {
		log.Error("Live match lookup failed", "matchID", matchID, "error", err)
		o.fail(updates, "match not found, try again")
		return
	}
	o.recordSearch(matchID)
	players := matchData.AllPlayers()

	// Step 3a: party detection runs in the background, awaited after the
	// per-player stats are in.
	partyCh := make(chan []party.Group, 1)
	go func() {
		partyCh <- o.party.DetectPartyGroups(ctx, players)
	}()

	// Steps 3b/3c: hero icons and rank badges fetch concurrently. Failures
	// leave holes in the maps, never abort the run.
	var (
		heroIcons  map[int64]string
		rankImages map[int64]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		heroIcons = o.fetchHeroIcons(gctx, rosterHeroIDs(players))
		return nil
	})
	g.Go(func() error {
		_, rankImages = o.fetchRankImages(gctx, players)
		return nil
	})
	_ = g.Wait()

	// Step 4: per-account stats fan out in parallel; the sequential delays
	// live inside each account's cheater check, not across accounts.
	statsMap, tagsMap := o.fetchPlayerStats(ctx, players)

	// Step 5: heroes seen only in last-5 histories still need icons.
	o.mergeSupplementalIcons(ctx, heroIcons, statsMap)

	// Step 6: relation stats only exist when a current user is known.
	relationMap := o.fetchRelationStats(ctx, players)

	// Step 7.
	partyGroups := <-partyCh

	// Step 8: one atomic write, skipped entirely after cancellation so a
	// superseded run never publishes partial state.
	if ctx.Err() != nil {
		log.Info("Search cancelled, discarding results", "matchID", matchID)
		return
	}
	entry := matchcache.CachedMatch{
		MatchData:        matchData,
		HeroIconURLs:     heroIcons,
		RankImageURLs:    rankImages,
		MatchStatsMap:    statsMap,
		RelationStatsMap: relationMap,
		PartyGroups:      partyGroups,
		PlayerTagsMap:    tagsMap,
	}
	o.cache.Set(id, entry)

	stored, _ := o.cache.Get(id)
	updates <- Update{Status: StatusLoaded, Data: stored}
	o.metrics.IncSearchesLoaded()
	o.metrics.ObserveEnrichmentDuration(time.Since(start).Seconds())
	log.Info("Match enrichment finished", "matchID", matchID, "duration", time.Since(start))

	// Step 10: metadata preload is decoupled from this search's lifetime.
	go o.preloadMetadata(statsMap)

	// Step 9: failed assets get one delayed re-fetch, merged into the
	// cache entry and the live stream.
	o.refetchMissingAssets(ctx, id, players, heroIcons, rankImages, updates)
}

func (o *Orchestrator) fail(updates chan<- Update, message string) {
	o.metrics.IncSearchesFailed()
	updates <- Update{Status: StatusFailed, Message: message}
}

func (o *Orchestrator) recordSearch(matchID string) {
	if err := o.history.Add(matchID); err != nil {
		log.Warn("Failed to record search history", "matchID", matchID, "error", err)
	}
}

func (o *Orchestrator) fetchHeroIcons(ctx context.Context, heroIDs []int64) map[int64]string {
	icons := make(map[int64]string)
	heroes, err := o.assets.FetchHeroes(ctx, heroIDs)
	if err != nil {
		log.Error("Hero icon batch failed", "error", err)
		return icons
	}
	for id, hero := range heroes {
		if url := hero.IconURL(); url != "" {
			icons[id] = url
		}
	}
	return icons
}

// fetchRankImages resolves each account's rank badge from its MMR division.
// Accounts missing from the MMR response are simply absent from the map.
func (o *Orchestrator) fetchRankImages(ctx context.Context, players []livematch.MatchPlayer) ([]assets.Rank, map[int64]string) {
	images := make(map[int64]string)

	mmrMap, err := o.playerdata.FetchMMRMap(ctx, accountIDs(players))
	if err != nil {
		log.Error("MMR batch failed", "error", err)
		return nil, images
	}
	ranks, err := o.assets.FetchRanks(ctx)
	if err != nil {
		log.Error("Rank catalog fetch failed", "error", err)
		return nil, images
	}

	for accountID, mmr := range mmrMap {
		if url := assets.RankImageURL(mmr.Division, mmr.DivisionTier, ranks); url != "" {
			images[accountID] = url
		}
	}
	return ranks, images
}

func (o *Orchestrator) fetchPlayerStats(ctx context.Context, players []livematch.MatchPlayer) (map[int64]stats.MatchStats, map[int64][]stats.Tag) {
	statsMap := make(map[int64]stats.MatchStats, len(players))
	tagsMap := make(map[int64][]stats.Tag, len(players))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range players {
		player := p
		g.Go(func() error {
			matchHistory, err := o.playerdata.FetchMatchHistory(gctx, player.AccountID)
			if err != nil {
				log.Error("Match history fetch failed", "accountID", player.AccountID, "error", err)
				return nil
			}
			playerStats := o.aggregator.CalculateMatchStats(matchHistory, player.HeroID)
			tags := o.aggregator.DeterminePlayerTags(gctx, playerStats, player.HeroID, player.AccountID)

			mu.Lock()
			statsMap[player.AccountID] = playerStats
			if len(tags) > 0 {
				tagsMap[player.AccountID] = tags
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return statsMap, tagsMap
}

// mergeSupplementalIcons fetches icons for hero IDs that appear in last-5
// histories but not in the roster.
func (o *Orchestrator) mergeSupplementalIcons(ctx context.Context, heroIcons map[int64]string, statsMap map[int64]stats.MatchStats) {
	var extra []int64
	seen := make(map[int64]bool)
	for _, playerStats := range statsMap {
		for _, m := range playerStats.LastMatches {
			if m.HeroID == 0 || seen[m.HeroID] {
				continue
			}
			seen[m.HeroID] = true
			if _, ok := heroIcons[m.HeroID]; !ok {
				extra = append(extra, m.HeroID)
			}
		}
	}
	if len(extra) == 0 {
		return
	}
	for id, url := range o.fetchHeroIcons(ctx, extra) {
		heroIcons[id] = url
	}
}

func (o *Orchestrator) fetchRelationStats(ctx context.Context, players []livematch.MatchPlayer) map[int64]stats.RelationStats {
	user, ok := o.identity.Current()
	if !ok {
		return nil
	}

	mates, err := o.playerdata.FetchMateStats(ctx, user.AccountID, 0)
	if err != nil {
		log.Error("Mate stats fetch failed", "accountID", user.AccountID, "error", err)
	}
	enemies, err := o.playerdata.FetchEnemyStats(ctx, user.AccountID)
	if err != nil {
		log.Error("Enemy stats fetch failed", "accountID", user.AccountID, "error", err)
	}

	mateByID := make(map[int64]playerdata.MateStats, len(mates))
	for _, m := range mates {
		mateByID[m.MateID] = m
	}
	enemyByID := make(map[int64]playerdata.EnemyStats, len(enemies))
	for _, e := range enemies {
		enemyByID[e.EnemyID] = e
	}

	relationMap := make(map[int64]stats.RelationStats)
	for _, p := range players {
		if p.AccountID == user.AccountID {
			continue
		}
		mate, hasMate := mateByID[p.AccountID]
		enemy, hasEnemy := enemyByID[p.AccountID]
		if !hasMate && !hasEnemy {
			continue
		}
		relationMap[p.AccountID] = stats.RelationStats{
			WithPlayer:    stats.RelationFromMates(mate),
			AgainstPlayer: stats.RelationFromEnemies(enemy),
		}
	}
	return relationMap
}

// refetchMissingAssets retries hero icons and rank badges that failed on
// the first pass, after a short delay, and merges any recovered assets
// into both the live stream and the already-written cache entry.
func (o *Orchestrator) refetchMissingAssets(
	ctx context.Context,
	id int64,
	players []livematch.MatchPlayer,
	heroIcons map[int64]string,
	rankImages map[int64]string,
	updates chan<- Update,
) {
	var missingHeroes []int64
	for _, heroID := range rosterHeroIDs(players) {
		if _, ok := heroIcons[heroID]; !ok {
			missingHeroes = append(missingHeroes, heroID)
		}
	}
	var missingRanks []livematch.MatchPlayer
	for _, p := range players {
		if _, ok := rankImages[p.AccountID]; !ok {
			missingRanks = append(missingRanks, p)
		}
	}
	if len(missingHeroes) == 0 && len(missingRanks) == 0 {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(o.assetRetryDelay):
	}

	// The first-pass maps are already published in the cache entry and on
	// the update stream, so recovered assets merge into copies.
	mergedHeroes := copyURLs(heroIcons)
	mergedRanks := copyURLs(rankImages)

	recovered := false
	backoff := retry.WithMaxRetries(1, retry.NewConstant(o.assetRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if len(missingHeroes) > 0 {
			for heroID, url := range o.fetchHeroIcons(ctx, missingHeroes) {
				mergedHeroes[heroID] = url
				recovered = true
			}
		}
		if len(missingRanks) > 0 {
			refetched, images := o.fetchRankImages(ctx, missingRanks)
			if refetched == nil {
				return retry.RetryableError(errRankCatalogUnavailable)
			}
			for accountID, url := range images {
				mergedRanks[accountID] = url
				recovered = true
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("Asset re-fetch gave up", "matchID", id, "error", err)
	}
	if !recovered || ctx.Err() != nil {
		return
	}

	// Re-validate the entry still exists before the late write.
	entry, ok := o.cache.Get(id)
	if !ok {
		return
	}
	entry.HeroIconURLs = mergedHeroes
	entry.RankImageURLs = mergedRanks
	o.cache.Set(id, *entry)

	stored, _ := o.cache.Get(id)
	updates <- Update{Status: StatusLoaded, Data: stored}
	log.Info("Recovered missing assets after retry", "matchID", id)
}

// preloadMetadata warms the metadata cache for every distinct match in the
// players' last-5 histories. It runs detached from the search: a cancelled
// search does not stop it, and its failures never surface to the UI.
func (o *Orchestrator) preloadMetadata(statsMap map[int64]stats.MatchStats) {
	ctx := context.Background()

	// Each match is fetched once no matter how many players share it.
	owners := make(map[int64][]int64)
	for accountID, playerStats := range statsMap {
		for _, m := range playerStats.LastMatches {
			owners[m.MatchID] = append(owners[m.MatchID], accountID)
		}
	}

	for matchID, accounts := range owners {
		o.preloadMu.Lock()
		if o.preloading[matchID] {
			o.preloadMu.Unlock()
			continue
		}
		o.preloading[matchID] = true
		o.preloadMu.Unlock()

		o.preloadOne(ctx, matchID, accounts)

		o.preloadMu.Lock()
		delete(o.preloading, matchID)
		o.preloadMu.Unlock()
	}

	o.drainRetryQueue(ctx)
}

func (o *Orchestrator) preloadOne(ctx context.Context, matchID int64, accounts []int64) {
	cached := true
	for _, accountID := range accounts {
		if _, ok := o.metadata.Get(matchID, accountID); !ok {
			cached = false
			break
		}
	}
	if cached {
		return
	}

	metadata, err := o.playerdata.FetchMatchMetadata(ctx, matchID)
	if err != nil {
		if errors.Is(err, playerdata.ErrRateLimited) {
			for _, accountID := range accounts {
				o.metadata.AddToRetryQueue(matchID, accountID)
			}
			return
		}
		log.Debug("Metadata preload failed", "matchID", matchID, "error", err)
		return
	}
	if metadata == nil {
		return
	}
	for _, accountID := range accounts {
		o.metadata.Set(matchID, accountID, metadata)
	}
}

func copyURLs(src map[int64]string) map[int64]string {
	dst := make(map[int64]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func rosterHeroIDs(players []livematch.MatchPlayer) []int64 {
	var ids []int64
	seen := make(map[int64]bool)
	for _, p := range players {
		if p.HeroID == 0 || seen[p.HeroID] {
			continue
		}
		seen[p.HeroID] = true
		ids = append(ids, p.HeroID)
	}
	return ids
}

func accountIDs(players []livematch.MatchPlayer) []int64 {
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.AccountID)
	}
	return ids
}
