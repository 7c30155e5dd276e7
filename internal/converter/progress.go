package converter

import (
	"time"
)

// Progress tracks the progress of a conversion run
type Progress struct {
	CurrentStep        string        `json:"current_step"`
	TotalPeriods       int           `json:"total_periods"`
	PeriodsDone        int           `json:"periods_done"`
	PercentComplete    float64       `json:"percent_complete"`
	StartTime          time.Time     `json:"start_time"`
	ElapsedTime        time.Duration `json:"elapsed_time"`
	EstimatedRemaining time.Duration `json:"estimated_remaining"`
}

// ProgressCallback is called to report conversion progress. Callbacks run
// while the progress lock is held and must not call back into the converter.
type ProgressCallback func(*Progress)

// AddProgressCallback adds a progress callback function
func (c *Converter) AddProgressCallback(callback ProgressCallback) {
	c.progressMutex.Lock()
	defer c.progressMutex.Unlock()

	c.progressCallbacks = append(c.progressCallbacks, callback)
}

// GetProgress returns a snapshot of the current progress
func (c *Converter) GetProgress() Progress {
	c.progressMutex.RLock()
	defer c.progressMutex.RUnlock()

	return *c.currentProgress
}

func (c *Converter) initializeProgress() {
	c.progressMutex.Lock()
	defer c.progressMutex.Unlock()

	c.currentProgress = &Progress{
		CurrentStep: "Reading input",
		StartTime:   time.Now(),
	}
}

func (c *Converter) setTotal(total int) {
	c.progressMutex.Lock()
	defer c.progressMutex.Unlock()

	c.currentProgress.TotalPeriods = total
}

func (c *Converter) updateProgress(step string, done int) {
	c.progressMutex.Lock()
	defer c.progressMutex.Unlock()

	p := c.currentProgress
	p.CurrentStep = step
	p.PeriodsDone = done
	if !p.StartTime.IsZero() {
		p.ElapsedTime = time.Since(p.StartTime)
	}

	if p.TotalPeriods > 0 {
		p.PercentComplete = float64(done) / float64(p.TotalPeriods) * 100
	} else {
		p.PercentComplete = 100
	}

	if done > 0 && done < p.TotalPeriods {
		perPeriod := p.ElapsedTime / time.Duration(done)
		p.EstimatedRemaining = perPeriod * time.Duration(p.TotalPeriods-done)
	} else {
		p.EstimatedRemaining = 0
	}

	snapshot := *p
	for _, callback := range c.progressCallbacks {
		callback(&snapshot)
	}
}
