package tasks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/market"
	"github.com/tradedeck/tradedeck/internal/models"
	"github.com/tradedeck/tradedeck/internal/websocket"
)

// Manager handles the execution of background tasks
type Manager struct {
	log   *logrus.Logger
	tasks []Task
}

// Task represents a background task that needs to be executed
type Task interface {
	Start()
	Stop()
}

// NewManager creates a new task manager
func NewManager(log *logrus.Logger) *Manager {
	return &Manager{
		log:   log,
		tasks: make([]Task, 0),
	}
}

// RegisterTask registers a task with the manager
func (m *Manager) RegisterTask(task Task) {
	m.tasks = append(m.tasks, task)
}

// StartAll starts all registered tasks
func (m *Manager) StartAll() {
	for _, task := range m.tasks {
		go task.Start()
	}
	m.log.Info("Started all background tasks")
}

// StopAll stops all running tasks
func (m *Manager) StopAll() {
	for _, task := range m.tasks {
		task.Stop()
	}
	m.log.Info("Stopped all background tasks")
}

// TickerBroadcastTask pushes fresh tickers for the watched symbols to every
// connected dashboard client on a fixed interval, so the UI streams instead
// of polling
type TickerBroadcastTask struct {
	market    *market.Service
	wsHub     *websocket.Hub
	symbols   []string
	interval  time.Duration
	log       *logrus.Logger
	stopChan  chan struct{}
	isRunning bool
}

// NewTickerBroadcastTask creates a ticker broadcast task for the watchlist
func NewTickerBroadcastTask(marketService *market.Service, wsHub *websocket.Hub, symbols []string, interval time.Duration, log *logrus.Logger) *TickerBroadcastTask {
	return &TickerBroadcastTask{
		market:   marketService,
		wsHub:    wsHub,
		symbols:  symbols,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the broadcast loop
func (t *TickerBroadcastTask) Start() {
	if t.isRunning {
		return
	}

	t.isRunning = true
	ticker := time.NewTicker(t.interval)

	// Push once immediately so new clients see data right away
	go t.broadcastTickers()

	go func() {
		for {
			select {
			case <-ticker.C:
				t.broadcastTickers()
			case <-t.stopChan:
				ticker.Stop()
				t.isRunning = false
				return
			}
		}
	}()

	t.log.WithField("symbols", t.symbols).Info("Ticker broadcast task started")
}

// Stop terminates the broadcast loop
func (t *TickerBroadcastTask) Stop() {
	if !t.isRunning {
		return
	}

	close(t.stopChan)
	t.log.Info("Ticker broadcast task stopped")
}

// broadcastTickers fetches and pushes one frame per watched symbol. Nothing
// to push when no client is connected.
func (t *TickerBroadcastTask) broadcastTickers() {
	if t.wsHub.ClientCount() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.interval)
	defer cancel()

	for _, symbol := range t.symbols {
		data := t.market.Ticker(ctx, symbol)
		t.wsHub.Broadcast(models.Message{Type: "ticker", Content: data})
	}
}
