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
	"ai-now-collector/internal/textnorm"
)

const arxivDescLimit = 300

// ArxivGatherer собирает свежие препринты из Atom-выдачи arXiv API.
// Классификатор релевантности здесь не нужен: запрос уже ограничен
// категориями cs.AI и cs.LG.
type ArxivGatherer struct {
	queryURL string
	parser   *gofeed.Parser
	maxItems int
}

func NewArxiv(queryURL string, client *http.Client, maxItems int) *ArxivGatherer {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &ArxivGatherer{queryURL: queryURL, parser: parser, maxItems: maxItems}
}

func (g *ArxivGatherer) Name() string     { return "arxiv" }
func (g *ArxivGatherer) Title() string    { return "arXiv Research Papers" }
func (g *ArxivGatherer) Homepage() string { return "https://arxiv.org" }

func (g *ArxivGatherer) Gather(ctx context.Context) ([]domain.Story, error) {
	start := time.Now()
	feed, err := g.parser.ParseURLWithContext(g.queryURL, ctx)
	metrics.ObserveNetworkRequest("gather", "fetch_query", "arxiv", start, err)
	if err != nil {
		return nil, fmt.Errorf("выдача arxiv: %w", err)
	}

	stories := make([]domain.Story, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.Join(strings.Fields(textnorm.Clean(item.Title)), " ")
		if title == "" {
			continue
		}
		stories = append(stories, domain.Story{
			Title:       title,
			Link:        strings.TrimSpace(item.Link),
			Description: textnorm.Clip(textnorm.Clean(item.Description), arxivDescLimit),
			PublishedAt: item.PublishedParsed,
		})
	}
	return ranker.DedupeAndRank(stories, g.maxItems), nil
}

var _ domain.Gatherer = (*ArxivGatherer)(nil)
