package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trendwatch/app/config"
	"trendwatch/app/database"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler is the engine: a bounded worker pool fed by a task queue, a
// discovery ticker that enqueues one poll task per channel, and the stage
// queue whose due stages are dispatched into the same pool.
type Scheduler struct {
	channelRepo database.ChannelRepository
	videoRepo   database.VideoRepository
	metricRepo  database.MetricRepository
	source      MetricSource
	detector    TrendProcessor
	baselines   BaselineRecomputer
	detection   *config.Config
	locks       *channelLocks
	workerCount int

	stageQueue *StageQueue

	mu       sync.Mutex
	running  bool
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// queueMu guards taskQueue against a send racing the close in Stop.
	// Deliberately separate from mu: Stop holds mu across wg.Wait while
	// the ticker goroutine may still be inside EnqueueTask.
	queueMu   sync.RWMutex
	taskQueue chan TaskInterface
}

func NewScheduler(channelRepo database.ChannelRepository, videoRepo database.VideoRepository,
	metricRepo database.MetricRepository, source MetricSource, detector TrendProcessor,
	baselines BaselineRecomputer, detection *config.Config, workerCount int) *Scheduler {
	s := &Scheduler{
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		metricRepo:  metricRepo,
		source:      source,
		detector:    detector,
		baselines:   baselines,
		detection:   detection,
		locks:       newChannelLocks(),
		workerCount: workerCount,
	}
	s.stageQueue = NewStageQueue(s.dispatchStage)
	return s
}

// Start brings up the worker pool and stage dispatch, rebuilds pending
// stages from the store and begins polling channels at the given interval.
func (s *Scheduler) Start(pollInterval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("engine is already running")
	}
	if pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", pollInterval)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.interval = pollInterval

	s.queueMu.Lock()
	s.taskQueue = make(chan TaskInterface, 300)
	s.queueMu.Unlock()

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.stageQueue.StartDispatch()

	if err := s.restoreStages(s.ctx); err != nil {
		slog.Error("Failed to restore pending stages from store", "error", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		s.enqueuePollTasks(s.ctx)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueuePollTasks(s.ctx)
			}
		}
	}()

	s.running = true
	slog.Info("Engine started", "poll_interval", pollInterval, "workers", s.workerCount)

	return nil
}

// Stop cancels pending stages and shuts the pool down. In-flight checks
// run to completion; their task contexts are not tied to the engine's.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("engine is not running")
	}

	s.stageQueue.StopDispatch()
	s.stageQueue.CancelAll()

	s.cancel()
	s.wg.Wait()

	s.queueMu.Lock()
	close(s.taskQueue)
	s.taskQueue = nil
	s.queueMu.Unlock()

	s.running = false
	slog.Info("Engine stopped")

	return nil
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	if s.taskQueue == nil {
		return fmt.Errorf("engine is not running")
	}
	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) PendingStages() []Stage {
	return s.stageQueue.Pending()
}

func (s *Scheduler) CancelChannelStages(channelID string) {
	s.stageQueue.CancelChannel(channelID)
}

// restoreStages rebuilds the stage queue from durable state: every video
// still inside the check horizon gets a stage for each offset that has no
// sample yet. Past-due stages fire immediately rather than being dropped.
func (s *Scheduler) restoreStages(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-config.Horizon())

	videos, err := s.videoRepo.GetVideosPublishedSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to scan videos for pending stages: %w", err)
	}

	restoredVideos := 0
	restoredStages := 0
	for _, video := range videos {
		sampled, err := s.metricRepo.GetSampledOffsets(ctx, video.ID)
		if err != nil {
			slog.Error("Failed to read sampled offsets", "video", video.ID, "error", err)
			continue
		}

		sampledSet := make(map[int]bool, len(sampled))
		for _, offset := range sampled {
			sampledSet[offset] = true
		}

		var missing []int
		for _, offset := range config.CheckOffsets {
			if !sampledSet[offset] {
				missing = append(missing, offset)
			}
		}

		if len(missing) == 0 {
			continue
		}
		if s.stageQueue.Register(video.ID, video.ChannelID, video.PublishedAt, missing) {
			restoredVideos++
			restoredStages += len(missing)
		}
	}

	if restoredStages > 0 {
		slog.Info("Restored pending stages from store", "videos", restoredVideos, "stages", restoredStages)
	}

	return nil
}

func (s *Scheduler) enqueuePollTasks(ctx context.Context) {
	channels, err := s.channelRepo.GetAllChannels(ctx)
	if err != nil {
		slog.Error("Failed to list channels for discovery cycle", "error", err)
		return
	}
	if len(channels) == 0 {
		slog.Debug("No channels registered, skipping discovery cycle")
		return
	}

	for _, channel := range channels {
		task := NewPollChannelTask(channel, s.source, s.videoRepo, s.stageQueue, s.detection)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue PollChannelTask", "channel", channel.ID, "error", err)
		}
	}
}

// dispatchStage hands a due stage to the worker pool. Dropping the check on
// a saturated queue is logged loudly: the stage is consumed and will not
// come back until a restart rebuilds it from the store.
func (s *Scheduler) dispatchStage(stage Stage) {
	task := NewCheckVideoTask(stage, s.source, s.videoRepo, s.metricRepo, s.detector, s.baselines, s.locks)
	if err := s.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue CheckVideoTask for fired stage", "video", stage.VideoID, "offset_hours", stage.Offset, "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	// Deliberately not derived from the engine context: a shutdown lets
	// in-flight pipelines finish instead of aborting them mid-write.
	taskCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}
