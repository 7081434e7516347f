package gather

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ai-now-collector/internal/adapters/ranker"
	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/relevance"
	"ai-now-collector/internal/textnorm"
)

// Сырых элементов ленты берём с запасом: часть отсеет классификатор.
const feedRawLimit = 10

// FeedGatherer собирает истории из RSS-ленты издания.
type FeedGatherer struct {
	name     string
	title    string
	feedURL  string
	homepage string
	parser   *gofeed.Parser
	maxItems int
}

func NewFeed(name, title, feedURL, homepage string, client *http.Client, maxItems int) *FeedGatherer {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &FeedGatherer{
		name:     name,
		title:    title,
		feedURL:  feedURL,
		homepage: homepage,
		parser:   parser,
		maxItems: maxItems,
	}
}

func (g *FeedGatherer) Name() string     { return g.name }
func (g *FeedGatherer) Title() string    { return g.title }
func (g *FeedGatherer) Homepage() string { return g.homepage }

func (g *FeedGatherer) Gather(ctx context.Context) ([]domain.Story, error) {
	start := time.Now()
	feed, err := g.parser.ParseURLWithContext(g.feedURL, ctx)
	metrics.ObserveNetworkRequest("gather", "fetch_feed", g.name, start, err)
	if err != nil {
		return nil, fmt.Errorf("лента %s: %w", g.name, err)
	}

	items := feed.Items
	if len(items) > feedRawLimit {
		items = items[:feedRawLimit]
	}
	stories := make([]domain.Story, 0, len(items))
	for _, item := range items {
		title := textnorm.Clean(item.Title)
		if title == "" {
			continue
		}
		desc := textnorm.Clean(item.Description)
		if !relevance.IsRelevant(title + " " + desc) {
			continue
		}
		stories = append(stories, domain.Story{
			Title:       title,
			Link:        strings.TrimSpace(item.Link),
			Description: desc,
			PublishedAt: item.PublishedParsed,
		})
	}
	return ranker.DedupeAndRank(stories, g.maxItems), nil
}

var _ domain.Gatherer = (*FeedGatherer)(nil)
