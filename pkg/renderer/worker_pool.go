package renderer

import (
	"runtime"
	"sync"
)

// TileTask represents a tile to bring up to a target sample count
type TileTask struct {
	Tile          *Tile
	TargetSamples int
	TaskID        int
	PixelStats    [][]PixelStats
}

// TileResult represents the completion of a tile task
type TileResult struct {
	TaskID int
	TileID int
	Error  error
}

// WorkerPool manages a pool of workers sampling the interference field.
// Tiles partition the image, so workers write to disjoint regions of the
// shared pixel stats grid without locking.
type WorkerPool struct {
	numWorkers  int
	sampler     *fieldSampler
	viewport    Viewport
	taskQueue   chan TileTask
	resultQueue chan TileResult
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(sampler *fieldSampler, viewport Viewport, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers:  numWorkers,
		sampler:     sampler,
		viewport:    viewport,
		taskQueue:   make(chan TileTask, numWorkers*2),
		resultQueue: make(chan TileResult, numWorkers*2),
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop shuts down the pool and waits for in-flight tiles to finish
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask queues a tile for rendering
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult blocks until a tile completes
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.renderTile(task)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, TileID: task.Tile.ID}
	}
}

// renderTile raises every pixel in the tile to the target sample count.
// Samples are jittered within the pixel footprint using the tile's own
// generator, so repeated renders are reproducible.
func (wp *WorkerPool) renderTile(task TileTask) {
	bounds := task.Tile.Bounds
	rng := task.Tile.Random

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			pixel := &task.PixelStats[py][px]
			for pixel.SampleCount < task.TargetSamples {
				jx := float64(px) + rng.Float64()
				jy := float64(py) + rng.Float64()
				point := wp.viewport.WorldAt(jx, jy)
				r, g, b := wp.sampler.sample(point)
				pixel.AddSample(r, g, b)
			}
		}
	}
}
