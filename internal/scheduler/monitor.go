package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"VNSentinel/internal/ai"
	"VNSentinel/internal/config"
	"VNSentinel/internal/fetcher"
	"VNSentinel/internal/indicator"
	"VNSentinel/internal/model"
	"VNSentinel/internal/notifier"
	"VNSentinel/internal/portfolio"
	"VNSentinel/internal/recorder"
	"VNSentinel/internal/surge"
	"VNSentinel/internal/zones"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Monitor runs the cron-driven surge watch over the configured
// watchlist and the after-close portfolio report.
type Monitor struct {
	Cron      *cron.Cron
	Fetcher   fetcher.Fetcher
	Notifier  *notifier.LarkNotifier
	Recorder  recorder.Recorder
	AI        *ai.Client // nil disables commentary
	Portfolio *portfolio.Store
	Cfg       *config.Config
	Ctx       context.Context

	loc       *time.Location
	mu        sync.Mutex
	lastAlert map[string]time.Time
}

// NewMonitor creates a Monitor anchored to Vietnam exchange hours.
func NewMonitor(ctx context.Context, cfg *config.Config, f fetcher.Fetcher, ln *notifier.LarkNotifier, rec recorder.Recorder, aiClient *ai.Client, store *portfolio.Store) *Monitor {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		log.Printf("[WARN] load timezone: %v, using fixed UTC+7", err)
		loc = time.FixedZone("ICT", 7*3600)
	}
	return &Monitor{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Fetcher:   f,
		Notifier:  ln,
		Recorder:  rec,
		AI:        aiClient,
		Portfolio: store,
		Cfg:       cfg,
		Ctx:       ctx,
		loc:       loc,
		lastAlert: make(map[string]time.Time),
	}
}

// RegisterAll registers the monitoring cycle and the daily report.
func (m *Monitor) RegisterAll() error {
	if _, err := m.Cron.AddFunc(m.Cfg.Schedule.MonitorCron, m.runCycle); err != nil {
		return fmt.Errorf("register monitor cycle: %w", err)
	}
	if _, err := m.Cron.AddFunc(m.Cfg.Schedule.DailyReportCron, m.dailyReport); err != nil {
		return fmt.Errorf("register daily report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (m *Monitor) Start() {
	m.Cron.Start()
	log.Println("[INFO] monitor started")
}

// Stop stops the cron scheduler gracefully.
func (m *Monitor) Stop() {
	m.Cron.Stop()
	log.Println("[INFO] monitor stopped")
}

// RunCycleNow executes one monitoring cycle immediately (for manual
// trigger / RUN_ON_START), bypassing the trading-hours gate.
func (m *Monitor) RunCycleNow() {
	m.analyzeWatchlist()
}

func (m *Monitor) runCycle() {
	now := time.Now().In(m.loc)
	if m.Cfg.Monitor.TradingHoursOnly && !IsTradingTime(now) {
		log.Println("[INFO] outside trading hours, skipping cycle")
		return
	}
	m.analyzeWatchlist()
}

// analyzeWatchlist fans out over the watchlist with bounded
// concurrency. Each symbol's analysis is independent; one broken
// ticker never stops the others.
func (m *Monitor) analyzeWatchlist() {
	g, ctx := errgroup.WithContext(m.Ctx)
	g.SetLimit(m.Cfg.Monitor.MaxConcurrent)
	for _, symbol := range m.Cfg.Watchlist {
		symbol := symbol
		g.Go(func() error {
			m.analyzeSymbol(ctx, symbol)
			return nil
		})
	}
	g.Wait()
}

func (m *Monitor) analyzeSymbol(ctx context.Context, symbol string) {
	end := time.Now().In(m.loc)
	start := end.AddDate(0, 0, -m.Cfg.Monitor.LookbackDays)
	bars, err := m.Fetcher.FetchHistorical(ctx, symbol, start, end, fetcher.Interval1D)
	if err != nil {
		log.Printf("[ERROR] fetch %s: %v", symbol, err)
		return
	}

	res := surge.Detect(symbol, bars, surge.Thresholds{
		VolumeMultiplier: m.Cfg.Surge.VolumeMultiplier,
		PriceChangePct:   m.Cfg.Surge.PriceChangePct,
		LookbackBars:     m.Cfg.Surge.LookbackBars,
		RequireBoth:      m.Cfg.Surge.RequireBoth,
	})
	if !res.Triggered {
		return
	}
	if m.recentlyAlerted(symbol) {
		log.Printf("[INFO] %s surged again within the dedup window, suppressed", symbol)
		return
	}
	log.Printf("[INFO] surge on %s: %+.2f%% at %.1fx volume", symbol, res.PriceChangePct, res.VolumeRatio)

	snap, err := indicator.Compute(bars)
	if err != nil {
		log.Printf("[WARN] indicators for %s: %v, alert continues without them", symbol, err)
	}

	currentPrice, err := m.Fetcher.FetchCurrentPrice(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] current price for %s: %v, using last close", symbol, err)
		currentPrice = bars[len(bars)-1].Close
	}

	set := zones.Analyze(bars, currentPrice, zones.Options{
		LeftBars:              m.Cfg.Zones.LeftBars,
		RightBars:             m.Cfg.Zones.RightBars,
		TolerancePct:          m.Cfg.Zones.TolerancePct,
		MinTouches:            m.Cfg.Zones.MinTouches,
		IncludeTouchingLevels: m.Cfg.Zones.IncludeTouchingLevels,
	})

	nearest, isResistance := nearestZoneFor(res.Direction, set)
	var conf *model.ConfidenceResult
	if nearest != nil {
		c := zones.CalculateBreakoutConfidence(*nearest, snap, bars, currentPrice, isResistance)
		conf = &c
	}

	m.recordAnalysis(symbol, res, set, nearest, conf)

	var advice *model.TradeAdvice
	if m.AI != nil {
		advice, err = m.AI.Analyze(ctx, ai.Request{
			Symbol:       symbol,
			CurrentPrice: currentPrice,
			Surge:        res,
			Snapshot:     snap,
			Zones:        set,
			Confidence:   conf,
		})
		if err != nil {
			log.Printf("[WARN] AI commentary for %s: %v, alert continues without it", symbol, err)
		}
	}

	text := notifier.FormatSurgeAlert(notifier.AlertData{
		Surge:       res,
		Snapshot:    snap,
		Zones:       set,
		NearestZone: nearest,
		Confidence:  conf,
		Advice:      advice,
	})
	notified := true
	if err := m.Notifier.SendWithRetry(m.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send alert for %s: %v", symbol, err)
		notified = false
	}

	if err := m.Recorder.RecordSurge(&recorder.SurgeEvent{
		ID:             uuid.NewString(),
		Symbol:         symbol,
		Direction:      res.Direction,
		Price:          res.Price,
		PriceChangePct: res.PriceChangePct,
		VolumeRatio:    res.VolumeRatio,
		Notified:       notified,
		Time:           res.Time,
	}); err != nil {
		log.Printf("[ERROR] record surge for %s: %v", symbol, err)
	}
	m.markAlerted(symbol)
}

// nearestZoneFor picks the zone the surge is heading into.
func nearestZoneFor(dir model.SurgeDirection, set model.ZoneSet) (*model.Zone, bool) {
	switch dir {
	case model.SurgeUp:
		if len(set.Resistance) > 0 {
			return &set.Resistance[0], true
		}
	case model.SurgeDown:
		if len(set.Support) > 0 {
			return &set.Support[0], false
		}
	}
	return nil, false
}

func (m *Monitor) recordAnalysis(symbol string, res model.SurgeResult, set model.ZoneSet, nearest *model.Zone, conf *model.ConfidenceResult) {
	var records []recorder.ZoneRecord
	appendSide := func(side string, zs []model.Zone) {
		for _, z := range zs {
			rec := recorder.ZoneRecord{
				Symbol:      symbol,
				Side:        side,
				Upper:       z.Upper,
				Lower:       z.Lower,
				Middle:      z.Middle,
				TouchCount:  z.TouchCount,
				Strength:    z.Strength,
				DistancePct: z.DistancePct,
			}
			if conf != nil && nearest != nil && z.Middle == nearest.Middle {
				rec.Confidence = conf.Score
				rec.Interpretation = conf.Interpretation
			}
			records = append(records, rec)
		}
	}
	appendSide("resistance", set.Resistance)
	appendSide("support", set.Support)
	if err := m.Recorder.RecordZones(symbol, res.Time, records); err != nil {
		log.Printf("[ERROR] record zones for %s: %v", symbol, err)
	}
}

func (m *Monitor) dailyReport() {
	log.Println("[INFO] running daily portfolio report")
	pf := m.Portfolio.Get()
	if len(pf.Positions) == 0 {
		log.Println("[INFO] portfolio empty, skipping report")
		return
	}

	quotes := make(map[string]model.PriceThousands, len(pf.Positions))
	for _, p := range pf.Positions {
		price, err := m.Fetcher.FetchCurrentPrice(m.Ctx, p.Symbol)
		if err != nil {
			log.Printf("[WARN] quote %s for report: %v", p.Symbol, err)
			continue
		}
		quotes[p.Symbol] = model.PriceThousands(price)
	}

	text := notifier.FormatDailyReport(portfolio.BuildReports(pf, quotes))
	if err := m.Notifier.SendWithRetry(m.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send daily report: %v", err)
	}
}

func (m *Monitor) recentlyAlerted(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.lastAlert[symbol]
	if !ok {
		return false
	}
	return time.Since(last) < time.Duration(m.Cfg.Monitor.DedupMinutes)*time.Minute
}

func (m *Monitor) markAlerted(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAlert[symbol] = time.Now()
}

// IsTradingTime reports whether t falls inside an HOSE continuous
// session: weekdays 09:00-11:30 and 13:00-14:45.
func IsTradingTime(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	morning := minutes >= 9*60 && minutes <= 11*60+30
	afternoon := minutes >= 13*60 && minutes <= 14*60+45
	return morning || afternoon
}
