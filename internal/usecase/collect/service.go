// Package collect реализует оркестрацию запуска пайплайна сбора:
// выгрузку источников, рендеринг, публикацию документов и ведение
// реестра запусков.
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-now-collector/internal/domain"
	"ai-now-collector/internal/infra/metrics"
	"ai-now-collector/internal/relevance"
	"ai-now-collector/internal/render"
)

// Config задаёт пределы и адреса, которые оркестратор не должен
// выводить сам.
type Config struct {
	BaseURL         string
	RunHistoryLimit int
	LogHistoryLimit int
	Platforms       []string
}

// Service координирует один запуск пайплайна. Источники опрашиваются
// параллельно, сбой любого из них даёт заглушку вместо документа и не
// трогает остальные.
type Service struct {
	log       zerolog.Logger
	meta      domain.MetaStore
	docs      domain.DocumentStore
	gatherers []domain.Gatherer
	notifier  domain.Notifier
	queue     domain.NotifyQueue
	cfg       Config
}

func NewService(
	log zerolog.Logger,
	meta domain.MetaStore,
	docs domain.DocumentStore,
	gatherers []domain.Gatherer,
	notifier domain.Notifier,
	queue domain.NotifyQueue,
	cfg Config,
) *Service {
	if cfg.RunHistoryLimit <= 0 {
		cfg.RunHistoryLimit = 100
	}
	if cfg.LogHistoryLimit <= 0 {
		cfg.LogHistoryLimit = 1000
	}
	return &Service{
		log:       log,
		meta:      meta,
		docs:      docs,
		gatherers: gatherers,
		notifier:  notifier,
		queue:     queue,
		cfg:       cfg,
	}
}

// Отметка последней отработанной плановой даты.
const keyLastScheduledDate = "last_scheduled_date"

// RunScheduled выполняет плановый запуск синхронно.
func (s *Service) RunScheduled(ctx context.Context) {
	run := s.newRun(ctx, "scheduled", "Scheduled run started")
	s.execute(ctx, run)
}

// RunScheduledForDate выполняет плановый запуск, если за эту дату он
// ещё не выполнялся. Отметка живёт в реестре и переживает рестарт
// процесса внутри планового часа.
func (s *Service) RunScheduledForDate(ctx context.Context, date string) bool {
	if served, err := s.meta.Get(ctx, keyLastScheduledDate); err == nil && served == date {
		return false
	}
	s.putMeta(ctx, keyLastScheduledDate, date)
	s.RunScheduled(ctx)
	return true
}

// TriggerManual регистрирует ручной запуск в реестре и выполняет его в
// фоне. Идентификатор возвращается сразу, чтобы дашборд мог следить за
// прогрессом.
func (s *Service) TriggerManual(ctx context.Context) string {
	run := s.newRun(ctx, "manual", "Manual run triggered")
	go s.execute(context.Background(), run)
	return run.ID
}

func (s *Service) newRun(ctx context.Context, mode, note string) *domain.Run {
	now := time.Now().UTC()
	run := &domain.Run{
		ID:        fmt.Sprintf("%s-%d", mode, now.UnixMilli()),
		Date:      now.Format("2006-01-02"),
		Status:    domain.RunStatusRunning,
		StartedAt: now,
		Logs:      []string{note},
	}
	s.putRun(ctx, run)
	s.appendHistory(ctx, *run)
	s.appendLog(ctx, fmt.Sprintf("▶️ Run %s started", run.ID))
	return run
}

func (s *Service) execute(ctx context.Context, run *domain.Run) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.fail(ctx, run, started, fmt.Errorf("паника: %v", r))
		}
	}()

	run.Logs = append(run.Logs, "Starting news gathering...")
	s.putRun(ctx, run)

	type gatherResult struct {
		stories []domain.Story
		err     error
	}
	results := make([]gatherResult, len(s.gatherers))
	var wg sync.WaitGroup
	for i, g := range s.gatherers {
		wg.Add(1)
		go func(i int, g domain.Gatherer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = gatherResult{err: fmt.Errorf("паника источника: %v", r)}
				}
			}()
			stories, err := g.Gather(ctx)
			results[i] = gatherResult{stories: stories, err: err}
		}(i, g)
	}
	wg.Wait()

	now := time.Now().UTC()
	docs := make([]domain.SourceDocument, 0, len(s.gatherers))
	names := make([]string, 0, len(s.gatherers))
	storyCount := 0
	for i, g := range s.gatherers {
		res := results[i]
		var content string
		if res.err != nil {
			s.log.Error().Err(res.err).Str("source", g.Name()).Msg("collect: источник недоступен")
			metrics.IncGatherError(g.Name())
			run.Logs = append(run.Logs, fmt.Sprintf("Source %s failed: %s", g.Name(), res.err))
			content = render.Failed(g.Title())
		} else {
			content = render.Source(g.Title(), g.Homepage(), res.stories, now)
			storyCount += len(res.stories)
			metrics.SetStoriesGathered(g.Name(), len(res.stories))
		}
		docs = append(docs, domain.SourceDocument{
			Name:    g.Name(),
			Path:    fmt.Sprintf("sources/%s/%s.md", run.Date, g.Name()),
			Content: content,
		})
		names = append(names, g.Name())
	}

	run.Logs = append(run.Logs, fmt.Sprintf("Gathered sources: %s", strings.Join(names, ", ")))
	s.putRun(ctx, run)

	// Ошибка записи одного документа не повод терять остальные.
	for _, doc := range docs {
		if err := s.docs.PutDocument(ctx, doc.Path, "text/markdown", doc.Content); err != nil {
			s.log.Error().Err(err).Str("path", doc.Path).Msg("collect: не удалось сохранить документ")
			run.Logs = append(run.Logs, fmt.Sprintf("Failed to store %s", doc.Path))
		}
	}
	indexPath := fmt.Sprintf("sources/%s/README.md", run.Date)
	if err := s.docs.PutDocument(ctx, indexPath, "text/markdown", render.Index(docs, run.Date, now)); err != nil {
		s.log.Error().Err(err).Str("path", indexPath).Msg("collect: не удалось сохранить README")
	}
	urlsPath := fmt.Sprintf("sources/%s/urls.txt", run.Date)
	if err := s.docs.PutDocument(ctx, urlsPath, "text/plain", render.URLList(names, run.Date, s.cfg.BaseURL)); err != nil {
		s.log.Error().Err(err).Str("path", urlsPath).Msg("collect: не удалось сохранить urls.txt")
	}
	s.putDaySummary(ctx, run.Date, names, storyCount, now)

	completed := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &completed
	run.StoryCount = storyCount
	run.SourcesCount = len(docs)
	run.Logs = append(run.Logs, fmt.Sprintf("Completed successfully: %d stories from %d sources", storyCount, len(docs)))
	s.putRun(ctx, run)
	s.updateHistory(ctx, *run)
	s.appendLog(ctx, fmt.Sprintf("✅ Run %s completed for %s: %d stories from %d sources", run.ID, run.Date, storyCount, len(docs)))
	metrics.ObserveRun(string(run.Status), started)
	s.log.Info().
		Str("run_id", run.ID).
		Int("stories", storyCount).
		Int("sources", len(docs)).
		Msg("collect: запуск завершён")

	// Пост-обработчики не могут изменить статус уже завершённого запуска.
	s.runHook("completion_notify", func() error {
		if s.notifier == nil {
			return nil
		}
		return s.notifier.SendCompletion(ctx, *run, s.completionBody(*run, docs))
	})
	s.runHook("crosspost", func() error {
		if s.queue == nil {
			return nil
		}
		return s.queue.Enqueue(ctx, domain.NotifyJob{
			ID:          uuid.NewString(),
			Kind:        domain.NotifyKindCrosspost,
			Date:        run.Date,
			Message:     s.crosspostMessage(*run, docs),
			Platforms:   s.cfg.Platforms,
			RequestedAt: time.Now().UTC(),
		})
	})
}

func (s *Service) fail(ctx context.Context, run *domain.Run, started time.Time, cause error) {
	completed := time.Now().UTC()
	run.Status = domain.RunStatusFailed
	run.CompletedAt = &completed
	run.Error = cause.Error()
	run.Logs = append(run.Logs, fmt.Sprintf("Failed: %s", cause))
	s.putRun(ctx, run)
	s.updateHistory(ctx, *run)
	s.appendLog(ctx, fmt.Sprintf("❌ Run %s failed: %s", run.ID, cause))
	metrics.ObserveRun(string(run.Status), started)
	s.log.Error().Err(cause).Str("run_id", run.ID).Msg("collect: запуск провален")

	s.runHook("alert", func() error {
		if s.notifier == nil {
			return nil
		}
		return s.notifier.SendAlert(ctx, cause.Error())
	})
}

// runHook изолирует пост-обработчик: его ошибка или паника попадает в
// лог и дальше не идёт.
func (s *Service) runHook(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("hook", name).Interface("panic", r).Msg("collect: паника пост-обработчика")
		}
	}()
	if err := fn(); err != nil {
		s.log.Error().Err(err).Str("hook", name).Msg("collect: сбой пост-обработчика")
	}
}

// Status агрегирует состояние для дашборда.
type Status struct {
	IsRunning        bool        `json:"isRunning"`
	LastRun          *domain.Run `json:"lastRun,omitempty"`
	NextScheduledRun time.Time   `json:"nextScheduledRun"`
	TotalRuns        int         `json:"totalRuns"`
	SuccessRate      float64     `json:"successRate"`
}

func (s *Service) Status(ctx context.Context, scheduleHour int) Status {
	st := Status{NextScheduledRun: nextScheduledRun(time.Now().UTC(), scheduleHour)}
	if raw, err := s.meta.Get(ctx, domain.KeyLastRun); err == nil {
		var run domain.Run
		if json.Unmarshal([]byte(raw), &run) == nil {
			st.LastRun = &run
			st.IsRunning = run.Status == domain.RunStatusRunning
		}
	}
	runs := s.loadRuns(ctx)
	st.TotalRuns = len(runs)
	if len(runs) > 0 {
		completed := 0
		for _, r := range runs {
			if r.Status == domain.RunStatusCompleted {
				completed++
			}
		}
		st.SuccessRate = math.Round(float64(completed)/float64(len(runs))*10000) / 100
	}
	return st
}

// RecentRuns возвращает свежие запуски первыми.
func (s *Service) RecentRuns(ctx context.Context, limit int) []domain.Run {
	runs := s.loadRuns(ctx)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}

// RecentLogs возвращает хвост сквозного журнала.
func (s *Service) RecentLogs(ctx context.Context, limit int) []string {
	entries := s.loadLogs(ctx)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// ResetLastRun снимает зависший статус running после рестарта.
func (s *Service) ResetLastRun(ctx context.Context) error {
	return s.meta.Delete(ctx, domain.KeyLastRun)
}

// DeleteRun убирает запуск из истории и, если он был последним, из
// ключа last_run.
func (s *Service) DeleteRun(ctx context.Context, id string) error {
	runs := s.loadRuns(ctx)
	kept := make([]domain.Run, 0, len(runs))
	for _, r := range runs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(runs) {
		return fmt.Errorf("запуск %s не найден", id)
	}
	if err := s.putRuns(ctx, kept); err != nil {
		return err
	}
	if raw, err := s.meta.Get(ctx, domain.KeyLastRun); err == nil {
		var last domain.Run
		if json.Unmarshal([]byte(raw), &last) == nil && last.ID == id {
			return s.meta.Delete(ctx, domain.KeyLastRun)
		}
	}
	return nil
}

func nextScheduledRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Реестр best-effort: его недоступность не должна останавливать сбор,
// поэтому ошибки записи уходят в лог и глотаются.

func (s *Service) putRun(ctx context.Context, run *domain.Run) {
	raw, err := json.Marshal(run)
	if err != nil {
		s.log.Error().Err(err).Msg("collect: сериализация запуска")
		return
	}
	s.putMeta(ctx, domain.KeyLastRun, string(raw))
}

func (s *Service) putMeta(ctx context.Context, key, value string) {
	if err := s.meta.Put(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("collect: запись в реестр не удалась")
	}
}

func (s *Service) loadRuns(ctx context.Context) []domain.Run {
	raw, err := s.meta.Get(ctx, domain.KeyRunsList)
	if err != nil {
		if !errors.Is(err, domain.ErrMetaNotFound) {
			s.log.Error().Err(err).Msg("collect: чтение истории запусков")
		}
		return nil
	}
	var runs []domain.Run
	if err := json.Unmarshal([]byte(raw), &runs); err != nil {
		s.log.Error().Err(err).Msg("collect: история запусков повреждена")
		return nil
	}
	return runs
}

func (s *Service) putRuns(ctx context.Context, runs []domain.Run) error {
	raw, err := json.Marshal(runs)
	if err != nil {
		return fmt.Errorf("сериализация истории: %w", err)
	}
	return s.meta.Put(ctx, domain.KeyRunsList, string(raw))
}

// appendHistory добавляет запуск в хвост истории и выталкивает самые
// старые записи сверх лимита.
func (s *Service) appendHistory(ctx context.Context, run domain.Run) {
	runs := append(s.loadRuns(ctx), run)
	if len(runs) > s.cfg.RunHistoryLimit {
		runs = runs[len(runs)-s.cfg.RunHistoryLimit:]
	}
	if err := s.putRuns(ctx, runs); err != nil {
		s.log.Error().Err(err).Msg("collect: запись истории запусков")
	}
}

func (s *Service) updateHistory(ctx context.Context, run domain.Run) {
	runs := s.loadRuns(ctx)
	for i := range runs {
		if runs[i].ID == run.ID {
			runs[i] = run
			if err := s.putRuns(ctx, runs); err != nil {
				s.log.Error().Err(err).Msg("collect: обновление истории запусков")
			}
			return
		}
	}
}

func (s *Service) loadLogs(ctx context.Context) []string {
	raw, err := s.meta.Get(ctx, domain.KeyLogs)
	if err != nil {
		return nil
	}
	var entries []string
	if json.Unmarshal([]byte(raw), &entries) != nil {
		return nil
	}
	return entries
}

func (s *Service) appendLog(ctx context.Context, message string) {
	entries := append(s.loadLogs(ctx), fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), message))
	if len(entries) > s.cfg.LogHistoryLimit {
		entries = entries[len(entries)-s.cfg.LogHistoryLimit:]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	s.putMeta(ctx, domain.KeyLogs, string(raw))
}

type daySummary struct {
	Date        string    `json:"date"`
	Sources     []string  `json:"sources"`
	StoryCount  int       `json:"storyCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func (s *Service) putDaySummary(ctx context.Context, date string, names []string, storyCount int, now time.Time) {
	raw, err := json.Marshal(daySummary{Date: date, Sources: names, StoryCount: storyCount, GeneratedAt: now})
	if err != nil {
		return
	}
	s.putMeta(ctx, "sources:"+date, string(raw))
}

func (s *Service) completionBody(run domain.Run, docs []domain.SourceDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ AI-Now sources ready for %s\n\n", run.Date)
	fmt.Fprintf(&b, "📊 Total stories: %d\n\nSources:\n", run.StoryCount)
	for _, doc := range docs {
		fmt.Fprintf(&b, "- %s: %d stories\n", doc.Name, render.CountStories(doc.Content))
	}
	fmt.Fprintf(&b, "\n📥 Download: %s/sources/%s\n", s.cfg.BaseURL, run.Date)
	return b.String()
}

func (s *Service) crosspostMessage(run domain.Run, docs []domain.SourceDocument) string {
	var b strings.Builder
	b.WriteString("🚀 Fresh AI News Digest Ready!\n\n")
	fmt.Fprintf(&b, "📊 %d stories from %d sources\n", run.StoryCount, run.SourcesCount)
	if titles := topStoryTitles(docs, 3); len(titles) > 0 {
		b.WriteString("📰 Top stories:\n")
		for _, title := range titles {
			fmt.Fprintf(&b, "• %s\n", title)
		}
	}
	fmt.Fprintf(&b, "\n📥 %s/sources/%s\n", s.cfg.BaseURL, run.Date)
	b.WriteString("#AINews #AI #MachineLearning #TechNews")
	return b.String()
}

// topStoryTitles вытаскивает заголовки историй из готовых документов и
// отдаёт самые релевантные.
func topStoryTitles(docs []domain.SourceDocument, limit int) []string {
	var titles []string
	for _, doc := range docs {
		for _, line := range strings.Split(doc.Content, "\n") {
			if strings.HasPrefix(line, "## ") {
				titles = append(titles, strings.TrimSpace(strings.TrimPrefix(line, "## ")))
			}
		}
	}
	sort.SliceStable(titles, func(i, j int) bool {
		return relevance.Score(titles[i]) > relevance.Score(titles[j])
	})
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles
}
