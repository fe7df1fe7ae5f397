package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/nexusstudios/nexus-web/internal/model"
)

// Sanitizer はニュース由来HTMLのサニタイズのインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	SanitizeSummary(rawHTML string) string
	StripTags(rawHTML string) string
}

// FetchFailureRecorder はソース取得失敗のメトリクス記録のインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type FetchFailureRecorder interface {
	RecordNewsFetchFailure(sourceURL string)
}

// ServiceConfig はニュース集約サービスの設定。
type ServiceConfig struct {
	FeedURLs     []string      // ニュースソースのURL（サイトURLでもフィードURLでも可）
	TTL          time.Duration // キャッシュの有効期間
	FetchTimeout time.Duration // ソースごとのフェッチタイムアウト
	MaxItems     int           // 返却する記事数の上限
}

// Service は複数の外部フィードからニュースを集約し、TTLキャッシュ付きで提供する。
type Service struct {
	detector  *Detector
	ssrfGuard SSRFValidator
	sanitizer Sanitizer
	recorder  FetchFailureRecorder
	config    ServiceConfig

	mu        sync.Mutex
	cached    []model.NewsItem
	fetchedAt time.Time

	// resolvedFeeds はソースURL→検出済みフィードURLのキャッシュ。
	// フィード検出は初回のみ行い、以降は解決済みURLを直接フェッチする。
	resolvedFeeds map[string]string
}

// NewService はServiceを生成する。recorderはnil可。
func NewService(detector *Detector, ssrfGuard SSRFValidator, sanitizer Sanitizer, recorder FetchFailureRecorder, config ServiceConfig) *Service {
	return &Service{
		detector:      detector,
		ssrfGuard:     ssrfGuard,
		sanitizer:     sanitizer,
		recorder:      recorder,
		config:        config,
		resolvedFeeds: make(map[string]string),
	}
}

// Latest は最新ニュースを公開日時の降順で返す。
// キャッシュが有効な間は外部フェッチを行わない。
// 一部ソースの失敗は許容し、取得できたソースの記事のみを返す。
// 全ソースが失敗した場合、期限切れキャッシュがあればそれを返し、
// なければNEWS_UNAVAILABLEエラーを返す。
func (s *Service) Latest(ctx context.Context) ([]model.NewsItem, error) {
	if len(s.config.FeedURLs) == 0 {
		return []model.NewsItem{}, nil
	}

	s.mu.Lock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.config.TTL {
		items := copyItems(s.cached)
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	items := s.fetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		if s.cached != nil {
			slog.Warn("all news sources failed, serving stale cache",
				slog.Int("cached_items", len(s.cached)),
			)
			return copyItems(s.cached), nil
		}
		return nil, model.NewNewsUnavailableError()
	}

	s.cached = items
	s.fetchedAt = time.Now()
	return copyItems(items), nil
}

// fetchAll は全ソースを並行にフェッチし、マージ・ソート済みの記事リストを返す。
func (s *Service) fetchAll(ctx context.Context) []model.NewsItem {
	type fetchResult struct {
		items []model.NewsItem
		err   error
		url   string
	}

	results := make(chan fetchResult, len(s.config.FeedURLs))
	for _, sourceURL := range s.config.FeedURLs {
		go func(sourceURL string) {
			items, err := s.fetchSource(ctx, sourceURL)
			results <- fetchResult{items: items, err: err, url: sourceURL}
		}(sourceURL)
	}

	var merged []model.NewsItem
	for range s.config.FeedURLs {
		res := <-results
		if res.err != nil {
			slog.Warn("failed to fetch news source",
				slog.String("source_url", res.url),
				slog.String("error", res.err.Error()),
			)
			if s.recorder != nil {
				s.recorder.RecordNewsFetchFailure(res.url)
			}
			continue
		}
		merged = append(merged, res.items...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if s.config.MaxItems > 0 && len(merged) > s.config.MaxItems {
		merged = merged[:s.config.MaxItems]
	}
	return merged
}

// fetchSource は1ソースをフェッチ・パースして記事リストに変換する。
func (s *Service) fetchSource(ctx context.Context, sourceURL string) ([]model.NewsItem, error) {
	feedURL, err := s.resolveFeedURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	client := s.httpClient()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", newsUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	parsed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, err
	}

	source := s.sanitizer.StripTags(parsed.Title)
	if source == "" {
		source = extractHost(feedURL)
	}

	items := make([]model.NewsItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Title == "" {
			continue
		}

		publishedAt := time.Time{}
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		items = append(items, model.NewsItem{
			Title:       s.sanitizer.StripTags(item.Title),
			Link:        item.Link,
			Summary:     s.sanitizer.SanitizeSummary(item.Description),
			Source:      source,
			PublishedAt: publishedAt,
		})
	}
	return items, nil
}

// resolveFeedURL はソースURLからフィードURLを解決する。解決結果はキャッシュする。
func (s *Service) resolveFeedURL(ctx context.Context, sourceURL string) (string, error) {
	s.mu.Lock()
	if resolved, ok := s.resolvedFeeds[sourceURL]; ok {
		s.mu.Unlock()
		return resolved, nil
	}
	s.mu.Unlock()

	feedURL, err := s.detector.ResolveFeedURL(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.resolvedFeeds[sourceURL] = feedURL
	s.mu.Unlock()
	return feedURL, nil
}

// httpClient はフェッチ用のHTTPクライアントを返す。
func (s *Service) httpClient() *http.Client {
	if s.ssrfGuard != nil {
		return s.ssrfGuard.NewSafeClient(s.config.FetchTimeout, maxFeedBodySize)
	}
	return &http.Client{Timeout: s.config.FetchTimeout}
}

func copyItems(items []model.NewsItem) []model.NewsItem {
	out := make([]model.NewsItem, len(items))
	copy(out, items)
	return out
}
