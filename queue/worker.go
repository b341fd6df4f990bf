package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stardustagi/TopChat/libs/logs"
	"go.uber.org/zap"
)

var ErrWorkerStopped = errors.New("worker stopped")

// JobFunc 在 worker 协程中执行，ctx 为提交方的上下文
type JobFunc func(ctx context.Context) error

type job struct {
	ctx  context.Context
	fn   JobFunc
	done chan error
}

// IWorker 单协程任务队列接口
type IWorker interface {
	Start()
	Stop()
	Do(ctx context.Context, fn JobFunc) error
	IsRunning() bool
}

var _ IWorker = (*Worker)(nil)

// Worker runs submitted jobs one at a time, in submission order.
type Worker struct {
	jobs    chan *job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	logger  *zap.Logger
}

// NewWorker 创建任务队列，size 为排队上限
func NewWorker(size int, logger *zap.Logger) *Worker {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = logs.GetLogger("worker")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		jobs:   make(chan *job, size),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Start 启动工作协程
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.pump()
	w.logger.Info("Worker started")
}

// Stop 停止工作协程，等待正在执行的任务结束
// 仍在排队的任务返回 ErrWorkerStopped
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	w.logger.Info("Stopping worker...")
	w.cancel()
	w.wg.Wait()
	w.drain()
	w.logger.Info("Worker stopped")
}

func (w *Worker) IsRunning() bool {
	select {
	case <-w.ctx.Done():
		return false
	default:
		return true
	}
}

// Do enqueues fn and blocks until it has run, returning its error.
// A job still queued when ctx ends is skipped.
func (w *Worker) Do(ctx context.Context, fn JobFunc) error {
	j := &job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	w.mu.RLock()
	if w.stopped {
		w.mu.RUnlock()
		return ErrWorkerStopped
	}
	select {
	case w.jobs <- j:
		w.logger.Debug("Job queued", logs.Int("pending", len(w.jobs)))
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}
	w.mu.RUnlock()

	return <-j.done
}

func (w *Worker) pump() {
	defer w.wg.Done()

	for {
		select {
		case j := <-w.jobs:
			j.done <- w.run(j)
		case <-w.ctx.Done():
			w.logger.Info("Worker pump cancelled")
			return
		}
	}
}

func (w *Worker) run(j *job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Job panicked", zap.Any("panic", r), logs.StacktraceField())
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return j.fn(j.ctx)
}

func (w *Worker) drain() {
	for {
		select {
		case j := <-w.jobs:
			j.done <- ErrWorkerStopped
		default:
			return
		}
	}
}
