package gather

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ai-now-collector/internal/adapters/ranker"
	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/relevance"
	"ai-now-collector/internal/textnorm"
)

const (
	hnTopLimit   = 20
	hnBatchSize  = 5
	hnDescLimit  = 200
	hnItemFormat = "%s/v0/item/%d.json"
)

// HackerNewsGatherer собирает верх списка topstories через Firebase API.
type HackerNewsGatherer struct {
	client   *http.Client
	baseURL  string
	maxItems int
}

func NewHackerNews(client *http.Client, baseURL string, maxItems int) *HackerNewsGatherer {
	return &HackerNewsGatherer{client: client, baseURL: baseURL, maxItems: maxItems}
}

func (g *HackerNewsGatherer) Name() string     { return "hackernews" }
func (g *HackerNewsGatherer) Title() string    { return "Hacker News" }
func (g *HackerNewsGatherer) Homepage() string { return "https://news.ycombinator.com" }

type hnItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Gather выгружает элементы пачками по hnBatchSize параллельных
// запросов, чтобы не давить на API всей двадцаткой сразу.
func (g *HackerNewsGatherer) Gather(ctx context.Context) ([]domain.Story, error) {
	var ids []int64
	start := time.Now()
	err := getJSON(ctx, g.client, g.baseURL+"/v0/topstories.json", &ids)
	metrics.ObserveNetworkRequest("gather", "fetch_topstories", "hackernews", start, err)
	if err != nil {
		return nil, fmt.Errorf("topstories: %w", err)
	}
	if len(ids) > hnTopLimit {
		ids = ids[:hnTopLimit]
	}

	var stories []domain.Story
	for offset := 0; offset < len(ids); offset += hnBatchSize {
		end := offset + hnBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[offset:end]

		type fetched struct {
			item hnItem
			err  error
		}
		results := make([]fetched, len(batch))
		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func(i int, id int64) {
				defer wg.Done()
				var item hnItem
				itemStart := time.Now()
				err := getJSON(ctx, g.client, fmt.Sprintf(hnItemFormat, g.baseURL, id), &item)
				metrics.ObserveNetworkRequest("gather", "fetch_item", "hackernews", itemStart, err)
				results[i] = fetched{item: item, err: err}
			}(i, id)
		}
		wg.Wait()

		for _, res := range results {
			if res.err != nil {
				return nil, fmt.Errorf("элемент topstories: %w", res.err)
			}
			item := res.item
			title := textnorm.Clean(item.Title)
			if title == "" || !relevance.IsRelevant(title) {
				continue
			}
			link := item.URL
			if link == "" {
				link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
			}
			desc := "[Discussion]"
			if item.Text != "" {
				desc = textnorm.Clip(textnorm.Clean(item.Text), hnDescLimit)
			}
			stories = append(stories, domain.Story{
				Title:       title,
				Link:        link,
				Description: desc,
				Score:       item.Score,
			})
		}
	}
	return ranker.DedupeAndRank(stories, g.maxItems), nil
}

var _ domain.Gatherer = (*HackerNewsGatherer)(nil)
