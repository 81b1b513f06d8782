package processor

import (
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"epsdm/pkg/imgutil"
)

const DefaultClearEvery = 5

type Options struct {
	InputPath string
	OutputDir string
	// Workers caps the per-archive pool; values below 1 mean one worker.
	Workers int
	// ClearEvery clears the decode cache after that many archives. Zero
	// leaves only the clear at batch end.
	ClearEvery int
	Raster     imgutil.Options
	Operator   string
	Logger     zerolog.Logger
}

// Job is one EPS entry of the archive being processed.
type Job struct {
	Archive string
	Name    string
	Index   int
	file    *zip.File
}

type Result struct {
	Name    string
	Payload string
	Status  string
	Cached  bool
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

type ArchiveState int

const (
	StateNotStarted ArchiveState = iota
	StateEnumerating
	StateProcessing
	StateCompleted
	StateCancelled
	StateFailed
)

func (s ArchiveState) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateEnumerating:
		return "enumerating"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type ArchiveStats struct {
	Name       string
	Path       string
	Index      int
	State      ArchiveState
	OutputPath string
	TotalFiles int
	Dispatched int
	Successful int
	Failed     int
	CacheHits  int
	Elapsed    time.Duration
	Failures   []Failure
	// Err is set when the archive could not be opened or its results could
	// not be written.
	Err error
}

type BatchStats struct {
	ArchivesTotal     int
	ArchivesProcessed int
	ArchivesFailed    int
	TotalFiles        int
	Successful        int
	Failed            int
	CacheHits         int
	CacheClears       int
	Cancelled         bool
	StartedAt         time.Time
	FinishedAt        time.Time
	Elapsed           time.Duration
	Archives          []ArchiveStats
}

// SuccessRate is the share of decoded files in percent.
func (b BatchStats) SuccessRate() float64 {
	if b.TotalFiles == 0 {
		return 0
	}
	return float64(b.Successful) / float64(b.TotalFiles) * 100
}

// MeanPerFile is the summed archive time divided by the file count.
func (b BatchStats) MeanPerFile() time.Duration {
	if b.TotalFiles == 0 {
		return 0
	}
	var sum time.Duration
	for _, a := range b.Archives {
		sum += a.Elapsed
	}
	return sum / time.Duration(b.TotalFiles)
}

func (b *BatchStats) add(a ArchiveStats) {
	b.ArchivesProcessed++
	if a.State == StateFailed {
		b.ArchivesFailed++
	}
	b.TotalFiles += a.TotalFiles
	b.Successful += a.Successful
	b.Failed += a.Failed
	b.CacheHits += a.CacheHits
	b.Archives = append(b.Archives, a)
}

type EventKind int

const (
	EventArchiveStarted EventKind = iota
	EventFileProgress
	EventArchiveCompleted
	EventBatchCompleted
	EventError
)

// Event is published to presentation layers. Fields beyond Kind are set
// according to the kind: ArchiveStarted fills Archive, ArchiveIndex,
// ArchiveCount and Total; FileProgress fills Completed, Total and
// ArchiveIndex; ArchiveCompleted fills Archive and Stats; BatchCompleted
// fills Batch; Error fills Message.
type Event struct {
	Kind         EventKind
	Archive      string
	ArchiveIndex int
	ArchiveCount int
	Completed    int
	Total        int
	Stats        ArchiveStats
	Batch        BatchStats
	Message      string
}
