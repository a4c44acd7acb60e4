package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/density"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/enrich"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/llm"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

var testPrompts = llm.Prompts{Extraction: "EXTRACT", Wine: "WINE", Food: "FOOD", Beverage: "BEV"}

// scriptedService answers extraction calls with respond and records every
// user message it saw.
type scriptedService struct {
	mu      sync.Mutex
	users   []string
	respond func(system, user string) (string, error)
}

func (s *scriptedService) Generate(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.users = append(s.users, user)
	s.mu.Unlock()
	return s.respond(system, user)
}

func (s *scriptedService) extractionCalls(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if strings.HasPrefix(u, "Menu section: "+prefix) {
			n++
		}
	}
	return n
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestService(svc llm.Service, cfg Config, log logger.Logger, opts ...Option) *MenuService {
	client := llm.NewClient(svc, log, llm.WithPrompts(testPrompts), llm.WithSleeper(noSleep))
	return NewService(agent.NewProcessorFactory(log, nil), client, log, cfg, opts...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ChunkDelay = 0
	return cfg
}

type rawItem map[string]any

func response(name string, items ...rawItem) string {
	out, _ := json.Marshal(map[string]any{"menuName": name, "items": items, "totalItemsFound": len(items)})
	return string(out)
}

func TestParseMenuCSVEndToEnd(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		switch system {
		case "EXTRACT":
			return response("", rawItem{"name": "Caesar Salad", "price": "9.50", "category": "Starters",
				"itemType": "food", "confidence": 90, "originalText": "Caesar Salad,9.50,Starters"}), nil
		case "FOOD":
			return `{"dishes": [{"name": "Caesar Salad", "ingredients": ["romaine", "parmesan", "croutons"], "cookingMethods": ["tossed"], "allergens": ["milk", "gluten"]}]}`, nil
		}
		return "", fmt.Errorf("unexpected system %q", system)
	}}
	log := logger.NewTestLogger()
	s := newTestService(svc, testConfig(), log)

	data, err := s.ParseMenu(context.Background(), models.RawDocument{
		Filename: "menu.csv",
		Content:  []byte("name,price,category\nCaesar Salad,9.50,Starters\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "menu", data.MenuName, "falls back to the filename stem")
	require.Len(t, data.Items, 1)
	assert.Equal(t, 1, data.TotalItems)

	item := data.Items[0]
	assert.Equal(t, "Caesar Salad", item.Name)
	require.NotNil(t, item.Price)
	assert.InDelta(t, 9.50, *item.Price, 0.001)
	assert.Equal(t, "Starters", item.Category)
	assert.Equal(t, models.ItemFood, item.ItemType)
	assert.GreaterOrEqual(t, item.Confidence, 30)
	assert.Equal(t, []string{"romaine", "parmesan", "croutons"}, item.Ingredients)

	assert.Contains(t, svc.users[0], "name: Caesar Salad, price: 9.50, category: Starters")
	assert.Empty(t, log.Messages("ERROR"))
}

var wineLine = regexp.MustCompile(`(?m)^(Wine \d+) .*£(\d+\.\d{2})$`)

// wineList builds a sectioned list of roughly n characters in which every
// section repeats the last wine of the previous one.
func wineList(n int) string {
	var b strings.Builder
	wine := 0
	for section := 0; b.Len() < n; section++ {
		fmt.Fprintf(&b, "RED WINES %d\n", section+1)
		if wine > 0 {
			fmt.Fprintf(&b, "Wine %d Reserva Tinto from Rioja 2015 £%d.00\n", wine, 30+wine%40)
		}
		for i := 0; i < 10; i++ {
			wine++
			fmt.Fprintf(&b, "Wine %d Reserva Tinto from Rioja 2015 £%d.00\n", wine, 30+wine%40)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func wineResponder(perChunk *[]int, mu *sync.Mutex) func(system, user string) (string, error) {
	return func(system, user string) (string, error) {
		var items []rawItem
		for _, m := range wineLine.FindAllStringSubmatch(user, -1) {
			items = append(items, rawItem{"name": m[1], "price": m[2], "category": "Red",
				"itemType": "wine", "confidence": 80, "originalText": m[0]})
		}
		mu.Lock()
		*perChunk = append(*perChunk, len(items))
		mu.Unlock()
		return response("Wine List", items...), nil
	}
}

func TestParseMenuLargeWineListIsChunked(t *testing.T) {
	text := wineList(20000)
	require.Greater(t, len(text), 12000)

	var (
		mu       sync.Mutex
		perChunk []int
		progress [][2]int
	)
	svc := &scriptedService{respond: wineResponder(&perChunk, &mu)}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	s := newTestService(svc, cfg, logger.NewTestLogger(), WithProgress(func(done, total int) {
		progress = append(progress, [2]int{done, total})
	}))

	data, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "wines.txt", Content: []byte(text)})
	require.NoError(t, err)

	calls := svc.extractionCalls("chunk")
	assert.GreaterOrEqual(t, calls, 2)
	assert.Zero(t, svc.extractionCalls("full document"), "forced chunking never falls back to a single pass")

	sum := 0
	for _, n := range perChunk {
		sum += n
	}
	assert.LessOrEqual(t, data.TotalItems, sum)
	assert.Less(t, data.TotalItems, sum, "repeated wines are removed")
	assert.Equal(t, "Wine List", data.MenuName)
	assert.Contains(t, data.ProcessingNotes[0], "processed in")

	seen := map[string]bool{}
	for _, item := range data.Items {
		assert.False(t, seen[item.Name], "duplicate %s", item.Name)
		seen[item.Name] = true
		assert.Equal(t, models.ItemWine, item.ItemType)
		assert.Equal(t, models.WineStill, item.WineStyle)
	}

	require.Len(t, progress, calls)
	assert.Equal(t, [2]int{calls, calls}, progress[len(progress)-1])
}

func denseConfig() *density.Analyzer {
	cfg := density.DefaultConfig()
	cfg.WineCutoff = -1
	return density.NewAnalyzer(cfg)
}

const shortWineList = "WINES BY THE GLASS\nRioja Reserva 2015 £9.00\nChablis Premier Cru 2020 £11.00\nProsecco NV £8.00\n"

func TestDenseTextPrefersSinglePassBelowThresholds(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		if strings.HasPrefix(user, "Menu section: chunk") {
			return response("", rawItem{"name": "Rioja Reserva", "category": "Red", "itemType": "wine", "confidence": 80}), nil
		}
		return response("By The Glass",
			rawItem{"name": "Rioja Reserva", "category": "Red", "itemType": "wine", "confidence": 80},
			rawItem{"name": "Chablis Premier Cru", "category": "White", "itemType": "wine", "confidence": 80},
		), nil
	}}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	s := newTestService(svc, cfg, nil, WithAnalyzer(denseConfig()))

	data, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "glass.txt", Content: []byte(shortWineList)})
	require.NoError(t, err)
	assert.Equal(t, 1, svc.extractionCalls("chunk"))
	assert.Equal(t, 1, svc.extractionCalls("full document"))
	assert.Equal(t, 2, data.TotalItems)
	assert.Equal(t, "By The Glass", data.MenuName)
	assert.Contains(t, strings.Join(data.ProcessingNotes, "\n"), "used single pass")
}

func TestDenseTextSinglePassDropsChunkFailures(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		if strings.HasPrefix(user, "Menu section: chunk") {
			return "", fmt.Errorf("%w: 503", models.ErrServiceUnavailable)
		}
		return response("By The Glass",
			rawItem{"name": "Rioja Reserva", "category": "Red", "itemType": "wine", "confidence": 80},
		), nil
	}}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	s := newTestService(svc, cfg, nil, WithAnalyzer(denseConfig()))

	data, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "glass.txt", Content: []byte(shortWineList)})
	require.NoError(t, err)
	assert.Equal(t, 1, data.TotalItems)
	notes := strings.Join(data.ProcessingNotes, "\n")
	assert.Contains(t, notes, "used single pass")
	assert.NotContains(t, notes, "chunk 1/1")
}

func TestDenseTextBothRunsFailingReportsEveryError(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		return "", fmt.Errorf("%w: 503", models.ErrServiceUnavailable)
	}}
	s := newTestService(svc, testConfig(), nil, WithAnalyzer(denseConfig()))

	_, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "glass.txt", Content: []byte(shortWineList)})
	assert.ErrorIs(t, err, models.ErrNoItems)
	assert.ErrorContains(t, err, "chunk 1/1")
	assert.ErrorContains(t, err, "full document")
}

func TestDenseTextKeepsChunkedWhenSinglePassIsEmpty(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		if strings.HasPrefix(user, "Menu section: chunk") {
			return response("", rawItem{"name": "Rioja Reserva", "category": "Red", "itemType": "wine", "confidence": 80}), nil
		}
		return "I'm sorry, I cannot help with that.", nil
	}}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	s := newTestService(svc, cfg, nil, WithAnalyzer(denseConfig()))

	data, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "glass.txt", Content: []byte(shortWineList)})
	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Rioja Reserva", data.Items[0].Name)
	assert.Contains(t, strings.Join(data.ProcessingNotes, "\n"), "kept chunked result")
}

func TestDenseTextMeetingThresholdsSkipsSinglePass(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		return response("", rawItem{"name": "Rioja Reserva", "category": "Red", "itemType": "wine", "confidence": 80}), nil
	}}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	cfg.PreferChunked.Wine = 1
	s := newTestService(svc, cfg, nil, WithAnalyzer(denseConfig()))

	_, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "glass.txt", Content: []byte(shortWineList)})
	require.NoError(t, err)
	assert.Zero(t, svc.extractionCalls("full document"))
}

func TestParseMenuPartialChunkFailure(t *testing.T) {
	var (
		mu       sync.Mutex
		perChunk []int
	)
	wines := wineResponder(&perChunk, &mu)
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		if strings.HasPrefix(user, "Menu section: chunk 2/") {
			return "", fmt.Errorf("%w: 503", models.ErrServiceUnavailable)
		}
		return wines(system, user)
	}}
	cfg := testConfig()
	cfg.Enrichment = enrich.Config{}
	log := logger.NewTestLogger()
	s := newTestService(svc, cfg, log)

	data, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "wines.txt", Content: []byte(wineList(15000))})
	require.NoError(t, err)
	assert.NotEmpty(t, data.Items)
	assert.Equal(t, 2, svc.extractionCalls("chunk 2/"), "chunked calls get two attempts")
	assert.Contains(t, strings.Join(data.ProcessingNotes, "\n"), "chunk 2/")
	assert.Len(t, log.Messages("WARN"), 2, "one retry warning and one chunk failure")
}

func TestParseMenuNoItemsJoinsErrors(t *testing.T) {
	svc := &scriptedService{respond: func(system, user string) (string, error) {
		return "", fmt.Errorf("%w: 503", models.ErrServiceUnavailable)
	}}
	s := newTestService(svc, testConfig(), nil)

	data, err := s.ParseMenu(context.Background(), models.RawDocument{
		Filename: "menu.txt",
		Content:  []byte("STARTERS\nSoup of the day 6.00\nGarlic bread 4.50\n"),
	})
	assert.Nil(t, data)
	assert.ErrorIs(t, err, models.ErrNoItems)
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
	assert.Equal(t, 3, svc.extractionCalls("full document"))
}

func TestParseMenuRejectsUnsupportedFormat(t *testing.T) {
	svc := &scriptedService{respond: func(string, string) (string, error) { return "", errors.New("unreachable") }}
	s := newTestService(svc, testConfig(), nil)

	_, err := s.ParseMenu(context.Background(), models.RawDocument{Filename: "menu.png", Content: []byte("png")})
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.Empty(t, svc.users)
}

func TestParseMenuStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &scriptedService{}
	svc.respond = func(system, user string) (string, error) {
		cancel()
		return response("", rawItem{"name": "Wine 1", "category": "Red", "itemType": "wine", "confidence": 80}), nil
	}
	cfg := testConfig()
	s := newTestService(svc, cfg, nil)

	_, err := s.ParseMenu(ctx, models.RawDocument{Filename: "wines.txt", Content: []byte(wineList(20000))})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, svc.extractionCalls("chunk"), "no calls after cancellation")
}

func TestThresholdsMet(t *testing.T) {
	items := []models.CleanMenuItem{{ItemType: models.ItemWine}, {ItemType: models.ItemWine}, {ItemType: models.ItemFood}}
	assert.True(t, Thresholds{Wine: 2, Food: 9, Beverage: 9, Total: 9}.Met(items))
	assert.True(t, Thresholds{Wine: 9, Food: 9, Beverage: 9, Total: 3}.Met(items))
	assert.False(t, Thresholds{Wine: 3, Food: 2, Beverage: 1, Total: 4}.Met(items))
}
