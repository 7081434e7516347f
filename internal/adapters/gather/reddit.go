package gather

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"ai-now-collector/internal/adapters/ranker"
	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/relevance"
	"ai-now-collector/internal/textnorm"
)

const (
	redditPublicBase = "https://reddit.com"
	redditDescLimit  = 300
	redditPerSub     = 10
)

// RedditGatherer собирает горячие посты из набора сабреддитов.
type RedditGatherer struct {
	client     *http.Client
	baseURL    string
	subreddits []string
	maxItems   int
}

func NewReddit(client *http.Client, baseURL string, subreddits []string, maxItems int) *RedditGatherer {
	return &RedditGatherer{
		client:     client,
		baseURL:    baseURL,
		subreddits: subreddits,
		maxItems:   maxItems,
	}
}

func (g *RedditGatherer) Name() string     { return "reddit" }
func (g *RedditGatherer) Title() string    { return "Reddit AI Communities" }
func (g *RedditGatherer) Homepage() string { return redditPublicBase }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	Selftext  string `json:"selftext"`
	Score     int    `json:"score"`
}

// Gather обходит сабреддиты по очереди. Сбой любого из них роняет
// весь источник: частичный Reddit хуже честной заглушки.
func (g *RedditGatherer) Gather(ctx context.Context) ([]domain.Story, error) {
	var all []domain.Story
	for _, sub := range g.subreddits {
		url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", g.baseURL, sub, redditPerSub)
		var listing redditListing
		start := time.Now()
		err := getJSON(ctx, g.client, url, &listing)
		metrics.ObserveNetworkRequest("gather", "fetch_subreddit", sub, start, err)
		if err != nil {
			return nil, fmt.Errorf("сабреддит %s: %w", sub, err)
		}
		for _, child := range listing.Data.Children {
			post := child.Data
			desc := "[Link post]"
			if post.Selftext != "" {
				desc = textnorm.Clip(textnorm.Clean(post.Selftext), redditDescLimit)
			}
			all = append(all, domain.Story{
				Title:       textnorm.Clean(post.Title),
				Link:        redditPublicBase + post.Permalink,
				Description: desc,
				Score:       post.Score,
				SourceTag:   "r/" + sub,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })

	relevant := make([]domain.Story, 0, len(all))
	for _, s := range all {
		if relevance.IsRelevant(s.Title + " " + s.Description) {
			relevant = append(relevant, s)
		}
	}
	return ranker.DedupeAndRank(relevant, g.maxItems), nil
}

var _ domain.Gatherer = (*RedditGatherer)(nil)
