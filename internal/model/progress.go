package model

// ProgressPhase is the phase of a streaming progress update for one item.
type ProgressPhase string

const (
	PhaseDownloading ProgressPhase = "downloading"
	PhaseTranscoding ProgressPhase = "transcoding"
	PhaseFinished    ProgressPhase = "finished"
	PhaseError       ProgressPhase = "error"
)

// ProgressUpdate is a periodic update emitted while a single item is
// being fetched or transcoded.
type ProgressUpdate struct {
	Phase      ProgressPhase
	Percent    float64 // 0..100, -1 when unknown
	Speed      string  // human readable, e.g. "1.2MB/s"
	ETASec     int     // -1 when unknown
	OutputPath string  // set on finished
}
