package tasks

import (
	"container/heap"
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Stage is one pending measurement for a (video, offset) pair
type Stage struct {
	VideoID   string
	ChannelID string
	Offset    int // hours from publish
	FireAt    time.Time
}

// FireFunc is invoked for each due stage. It must not block: the queue
// calls it from its single dispatch loop.
type FireFunc func(stage Stage)

// StageQueue holds not-yet-fired stages in a min-heap ordered by fire time.
// A single dispatch goroutine sleeps until the earliest stage is due or a
// registration arrives, then hands due stages to the fire callback.
type StageQueue struct {
	mu        sync.Mutex
	stages    stageHeap
	remaining map[string]int // video id -> unfired stage count
	wake      chan struct{}
	fire      FireFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStageQueue(fire FireFunc) *StageQueue {
	return &StageQueue{
		remaining: make(map[string]int),
		wake:      make(chan struct{}, 1),
		fire:      fire,
	}
}

func (q *StageQueue) StartDispatch() {
	q.ctx, q.cancel = context.WithCancel(context.Background())
	q.wg.Add(1)
	go q.run()
}

func (q *StageQueue) StopDispatch() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
}

// Register schedules one stage per offset at publishedAt + offset hours.
// All offsets are added under one lock, so registration is all-or-nothing.
// A video with stages still pending cannot be registered again.
func (q *StageQueue) Register(videoID, channelID string, publishedAt time.Time, offsets []int) bool {
	if len(offsets) == 0 {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.remaining[videoID]; exists {
		return false
	}

	for _, offset := range offsets {
		heap.Push(&q.stages, Stage{
			VideoID:   videoID,
			ChannelID: channelID,
			Offset:    offset,
			FireAt:    publishedAt.Add(time.Duration(offset) * time.Hour),
		})
	}
	q.remaining[videoID] = len(offsets)

	q.notify()
	return true
}

// CancelAll drops every pending stage without firing it
func (q *StageQueue) CancelAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.stages)
	q.stages = nil
	q.remaining = make(map[string]int)
	q.notify()

	if dropped > 0 {
		slog.Debug("Cancelled pending stages", "count", dropped)
	}
}

// CancelChannel drops the pending stages of one channel's videos
func (q *StageQueue) CancelChannel(channelID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.stages[:0]
	for _, stage := range q.stages {
		if stage.ChannelID == channelID {
			q.remaining[stage.VideoID]--
			if q.remaining[stage.VideoID] <= 0 {
				delete(q.remaining, stage.VideoID)
			}
			continue
		}
		kept = append(kept, stage)
	}
	q.stages = kept
	heap.Init(&q.stages)
	q.notify()
}

// Pending returns a snapshot of not-yet-fired stages, earliest first
func (q *StageQueue) Pending() []Stage {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]Stage, len(q.stages))
	copy(snapshot, q.stages)
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].FireAt.Before(snapshot[j].FireAt)
	})
	return snapshot
}

func (q *StageQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *StageQueue) run() {
	defer q.wg.Done()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		due, wait := q.collectDue(time.Now())
		for _, stage := range due {
			q.fire(stage)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-q.ctx.Done():
			return
		case <-q.wake:
		case <-timer.C:
		}
	}
}

// collectDue pops every stage whose fire time has arrived, in ascending
// fire-time order, and returns how long to sleep until the next one.
func (q *StageQueue) collectDue(now time.Time) ([]Stage, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []Stage
	for len(q.stages) > 0 && !q.stages[0].FireAt.After(now) {
		stage := heap.Pop(&q.stages).(Stage)
		due = append(due, stage)

		q.remaining[stage.VideoID]--
		if q.remaining[stage.VideoID] <= 0 {
			delete(q.remaining, stage.VideoID)
		}
	}

	wait := time.Hour
	if len(q.stages) > 0 {
		if next := time.Until(q.stages[0].FireAt); next < wait {
			wait = next
		}
		if wait < 0 {
			wait = 0
		}
	}

	return due, wait
}

type stageHeap []Stage

func (h stageHeap) Len() int           { return len(h) }
func (h stageHeap) Less(i, j int) bool { return h[i].FireAt.Before(h[j].FireAt) }
func (h stageHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *stageHeap) Push(x any) {
	*h = append(*h, x.(Stage))
}

func (h *stageHeap) Pop() any {
	old := *h
	n := len(old)
	stage := old[n-1]
	*h = old[:n-1]
	return stage
}
