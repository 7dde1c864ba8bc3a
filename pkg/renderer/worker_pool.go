package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrWorkerFailed wraps a panic recovered while a worker was rendering a band
var ErrWorkerFailed = errors.New("render worker failed")

// BandTask represents a band rendering task for the worker pool
type BandTask struct {
	Band   Band
	Scene  *scene.Scene // Shared read-only for the whole frame
	camera cameraBasis
}

// BandResult contains the rendered rows of one band
type BandResult struct {
	Index    int
	Rows     [][]core.Color
	WorkerID int
	Elapsed  time.Duration
	Err      error
}

// WorkerPool manages parallel band rendering
type WorkerPool struct {
	taskQueue   chan BandTask
	resultQueue chan BandResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// Worker renders the bands it receives from the task queue
type Worker struct {
	ID          int
	integrator  integrator.Integrator
	taskQueue   chan BandTask
	resultQueue chan BandResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses the CPU count.
func NewWorkerPool(integ integrator.Integrator, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// One band per worker per frame, so neither queue ever blocks a frame
	wp := &WorkerPool{
		taskQueue:   make(chan BandTask, numWorkers),
		resultQueue: make(chan BandResult, numWorkers),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			integrator:  integ,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop shuts down all workers after the queued tasks finish. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask submits a band task to the worker pool
func (wp *WorkerPool) SubmitTask(task BandTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed band result
func (wp *WorkerPool) GetResult() (BandResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.renderBand(task)
	}
}

// renderBand renders every pixel of the task's band. A panic is turned into the result's
// error so the coordinator always receives exactly one result per task.
func (w *Worker) renderBand(task BandTask) (result BandResult) {
	start := time.Now()
	result = BandResult{Index: task.Band.Index, WorkerID: w.ID}

	defer func() {
		if r := recover(); r != nil {
			result.Rows = nil
			result.Err = fmt.Errorf("%w: worker %d, band %d: %v", ErrWorkerFailed, w.ID, task.Band.Index, r)
		}
		result.Elapsed = time.Since(start)
	}()

	width := task.Scene.Canvas.Width
	rows := make([][]core.Color, 0, task.Band.Rows())
	for y := task.Band.Y0; y < task.Band.Y1; y++ {
		row := make([]core.Color, width)
		for x := 0; x < width; x++ {
			row[x] = w.integrator.RayColor(task.camera.ray(x, y), task.Scene)
		}
		rows = append(rows, row)
	}

	result.Rows = rows
	return result
}
